package config // import "github.com/Xunop/e-library/internal/config"

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var Opts *Options

// GetConfig returns the default options with the data directory resolved.
func GetConfig() (*Options, error) {
	GetDefaultOptions()
	if err := resolveDataDir(Opts); err != nil {
		return nil, err
	}
	return Opts, nil
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"host":      "host",
	"port":      "port",
	"data":      "data",
	"dsn":       "dsn_uri",
	"log-level": "log_level",
}

// Load builds the options from defaults, an optional .env file, the config file (if any)
// and ELIBRARY_* environment variables, in that order of precedence.
func Load(file string) (*Options, error) {
	return LoadWithFlags(file, nil)
}

// LoadWithFlags is Load with the flags that were set on the command line taking precedence over everything else.
func LoadWithFlags(file string, flags *pflag.FlagSet) (*Options, error) {
	GetDefaultOptions()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "unable to load .env file")
	}

	v := newViper()
	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "unable to bind flag %s", name)
				}
			}
		}
	}
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, errors.Wrapf(err, "unable to access config file %s", file)
		}
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", file)
		}
	}
	if err := v.Unmarshal(Opts); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	if Opts.MetricsRefreshInterval <= 0 {
		Opts.MetricsRefreshInterval = defaultMetricsRefreshInterval
	}

	if err := resolveDataDir(Opts); err != nil {
		return nil, err
	}
	return Opts, nil
}

// ParseFile reads the given config file on top of the current options.
func ParseFile(file string) (*Options, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Wrapf(err, "unable to access config file %s", file)
	}
	if Opts == nil {
		GetDefaultOptions()
	}

	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(Opts); err != nil {
		return nil, err
	}
	return Opts, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper already knows about.
	v.SetDefault("log_file", Opts.LogFile)
	v.SetDefault("log_level", Opts.LogLevel)
	v.SetDefault("log_file_max_size", Opts.LogFileMaxSize)
	v.SetDefault("log_file_max_backups", Opts.LogFileMaxBackups)
	v.SetDefault("log_file_max_age", Opts.LogFileMaxAge)
	v.SetDefault("log_compress", Opts.LogCompress)
	v.SetDefault("dsn_uri", Opts.DSN)
	v.SetDefault("port", Opts.Port)
	v.SetDefault("host", Opts.Host)
	v.SetDefault("data", Opts.Data)
	v.SetDefault("metrics_collector", Opts.MetricsCollector)
	v.SetDefault("metrics_refresh_interval", Opts.MetricsRefreshInterval)
	v.SetDefault("metrics_allowed_networks", Opts.MetricsAllowedNetworks)
	v.SetDefault("metrics_username", Opts.MetricsUsername)
	v.SetDefault("metrics_password", Opts.MetricsPassword)
	return v
}

func resolveDataDir(opts *Options) error {
	dataDir, err := checkDataDir(opts.Data)
	if err != nil {
		return err
	}
	// Keep an explicitly configured DSN, move the default one along with the data dir.
	if opts.DSN == "" || opts.DSN == defaultDSN || opts.DSN == filepath.Join(opts.Data, dbFileName) {
		opts.DSN = filepath.Join(dataDir, dbFileName)
	}
	opts.Data = dataDir
	return nil
}

func checkDataDir(dataDir string) (string, error) {
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err == nil {
		return dataDir, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}

	err := os.MkdirAll(dataDir, 0755)
	if err == nil {
		return dataDir, nil
	}
	if !errors.Is(err, os.ErrPermission) || dataDir != defaultData {
		return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
	}

	// Permission denied on the default location, fall back to the user's home directory.
	currentUser, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "unable to get current user")
	}
	if currentUser.HomeDir == "" {
		return "", errors.New("unable to get home directory")
	}
	homeData := filepath.Join(currentUser.HomeDir, ".e-library")
	if err := os.MkdirAll(homeData, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create default data folder %s", homeData)
	}
	fmt.Fprintf(os.Stderr, "Permission denied on %s, using %s\n", dataDir, homeData)
	return homeData, nil
}
