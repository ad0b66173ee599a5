package config

import (
	"net"
	"strconv"
)

const (
	defaultLogFile                = "e-library.log"
	defaultLogLevel               = "info"
	defaultLogFileMaxSize         = 20
	defaultLogFileMaxBackups      = 3
	defaultLogFileMaxAge          = 28
	defaultLogCompress            = false
	defaultPort                   = 5002
	defaultHost                   = "127.0.0.1"
	defaultData                   = "/var/opt/e-library"
	defaultDSN                    = defaultData + "/" + dbFileName
	defaultMetricsCollector       = false
	defaultMetricsRefreshInterval = 60
	defaultMetricsAllowedNetworks = "127.0.0.1/8"
	defaultMetricsUsername        = ""
	defaultMetricsPassword        = ""

	dbFileName = "e-library.db"
	envPrefix  = "ELIBRARY"
)

// Options holds the runtime configuration.
// Fields use mapstructure tags because viper decodes through mapstructure, json tags are ignored.
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size in megabytes of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the rotated log files
	LogCompress bool `mapstructure:"log_compress"`
	// DSN is the path of the sqlite database file
	DSN string `mapstructure:"dsn_uri"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// Data is the directory to store data
	Data string `mapstructure:"data"`

	MetricsCollector bool `mapstructure:"metrics_collector"`
	// MetricsRefreshInterval is in seconds
	MetricsRefreshInterval int      `mapstructure:"metrics_refresh_interval"`
	MetricsAllowedNetworks []string `mapstructure:"metrics_allowed_networks"`
	MetricsUsername        string   `mapstructure:"metrics_username"`
	MetricsPassword        string   `mapstructure:"metrics_password"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:                defaultLogFile,
		LogLevel:               defaultLogLevel,
		LogFileMaxSize:         defaultLogFileMaxSize,
		LogFileMaxBackups:      defaultLogFileMaxBackups,
		LogFileMaxAge:          defaultLogFileMaxAge,
		LogCompress:            defaultLogCompress,
		DSN:                    defaultDSN,
		Port:                   defaultPort,
		Host:                   defaultHost,
		Data:                   defaultData,
		MetricsCollector:       defaultMetricsCollector,
		MetricsRefreshInterval: defaultMetricsRefreshInterval,
		MetricsAllowedNetworks: []string{defaultMetricsAllowedNetworks},
		MetricsUsername:        defaultMetricsUsername,
		MetricsPassword:        defaultMetricsPassword,
	}
	return Opts
}

// ListenAddr returns the host:port pair the HTTP server binds to.
func (o *Options) ListenAddr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// HasMetricsCredentials reports whether the metrics endpoint requires basic auth.
func (o *Options) HasMetricsCredentials() bool {
	return o.MetricsUsername != "" && o.MetricsPassword != ""
}
