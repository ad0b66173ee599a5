package version

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMinorVersion(t *testing.T) {
	assert.Equal(t, "0.1", GetMinorVersion("0.1.3"))
	assert.Equal(t, "", GetMinorVersion("0.1"))
	assert.Equal(t, "1.2.0", GetSchemaVersion("1.2.7"))
	assert.Equal(t, "", GetSchemaVersion("bad"))
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		version string
		target  string
		greater bool
		equal   bool
	}{
		{version: "0.2.0", target: "0.1.0", greater: true},
		{version: "0.1.0", target: "0.1.0", equal: true},
		{version: "0.1.0", target: "0.10.0"},
		{version: "1.0.0", target: "0.99.1", greater: true},
	}
	for _, test := range tests {
		assert.Equal(t, test.greater, IsVersionGreaterThan(test.version, test.target), "%s > %s", test.version, test.target)
		assert.Equal(t, test.greater || test.equal, IsVersionGreaterOrEqualThan(test.version, test.target), "%s >= %s", test.version, test.target)
	}
}

func TestSortVersion(t *testing.T) {
	versions := []string{"0.10.0", "0.2.0", "0.1.0", "1.0.0"}
	sort.Sort(SortVersion(versions))
	assert.Equal(t, []string{"0.1.0", "0.2.0", "0.10.0", "1.0.0"}, versions)
}
