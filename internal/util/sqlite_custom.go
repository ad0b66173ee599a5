package util // import "github.com/Xunop/e-library/internal/util"

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"modernc.org/sqlite"
)

var registerOnce sync.Once

// RegisterSQLiteFunctions registers the custom SQL functions with the sqlite driver.
// It is safe to call more than once.
func RegisterSQLiteFunctions() {
	registerOnce.Do(func() {
		sqlite.MustRegisterDeterministicScalarFunction("casefold", 1, CaseFold)
	})
}

// CaseFold lower-cases its argument with Unicode rules.
// The builtin lower() and LIKE only fold ASCII letters.
func CaseFold(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	case int64, float64:
		return fmt.Sprint(v), nil
	default:
		return nil, fmt.Errorf("invalid type: %T", args[0])
	}
}
