package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfig(t *testing.T) {
	t.Setenv("ELIBRARY_DATA", t.TempDir())

	opts, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, defaultHost, opts.Host)
	assert.Equal(t, defaultPort, opts.Port)
	assert.Equal(t, defaultLogLevel, opts.LogLevel)
	assert.Equal(t, filepath.Join(opts.Data, dbFileName), opts.DSN)
	assert.False(t, opts.MetricsCollector)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("ELIBRARY_DATA", t.TempDir())

	opts, err := Load("config_test.toml")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", opts.Host, "host incorrect")
	assert.Equal(t, 2333, opts.Port, "port incorrect")
	assert.Equal(t, "test.log", opts.LogFile, "log_file incorrect")
	assert.Equal(t, "debug", opts.LogLevel, "log_level incorrect")
	assert.True(t, opts.MetricsCollector)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1/8"}, opts.MetricsAllowedNetworks)
	assert.Equal(t, "127.0.0.1:2333", opts.ListenAddr())
}

func TestEnvOverridesConfigFile(t *testing.T) {
	t.Setenv("ELIBRARY_DATA", t.TempDir())
	t.Setenv("ELIBRARY_PORT", "9000")
	t.Setenv("ELIBRARY_LOG_LEVEL", "warn")

	opts, err := Load("config_test.toml")
	require.NoError(t, err)

	assert.Equal(t, 9000, opts.Port)
	assert.Equal(t, "warn", opts.LogLevel)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("ELIBRARY_DATA", t.TempDir())
	t.Setenv("ELIBRARY_PORT", "9000")
	t.Setenv("ELIBRARY_HOST", "0.0.0.0")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("host", defaultHost, "")
	flags.Int("port", defaultPort, "")
	require.NoError(t, flags.Parse([]string{"--port", "8080"}))

	opts, err := LoadWithFlags("", flags)
	require.NoError(t, err)
	assert.Equal(t, 8080, opts.Port)
	// Flags left unset do not hide the environment.
	assert.Equal(t, "0.0.0.0", opts.Host)
}

func TestNonPositiveMetricsRefreshInterval(t *testing.T) {
	for _, value := range []string{"0", "-5"} {
		t.Setenv("ELIBRARY_DATA", t.TempDir())
		t.Setenv("ELIBRARY_METRICS_REFRESH_INTERVAL", value)

		opts, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, defaultMetricsRefreshInterval, opts.MetricsRefreshInterval, value)
	}
}

func TestExplicitDSNIsKept(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "elsewhere.db")
	t.Setenv("ELIBRARY_DATA", dir)
	t.Setenv("ELIBRARY_DSN_URI", dsn)

	opts, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, dsn, opts.DSN)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestCheckDataDirCreatesRelativeDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	dir, err := checkDataDir("data/")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
	assert.DirExists(t, dir)
}
