package request

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// RouteIntParam returns an URL route parameter as int.
func RouteIntParam(r *http.Request, param string) int {
	vars := mux.Vars(r)
	value, err := strconv.Atoi(vars[param])
	if err != nil {
		return 0
	}

	if value < 0 {
		return 0
	}

	return value
}

// QueryStringParam returns a query string parameter as string, or defaultValue when it is missing.
func QueryStringParam(r *http.Request, param, defaultValue string) string {
	value := r.URL.Query().Get(param)
	if value == "" {
		value = defaultValue
	}
	return value
}

// FormValue returns the trimmed value of a form field.
func FormValue(r *http.Request, field string) string {
	return strings.TrimSpace(r.FormValue(field))
}
