package config

import (
	"io"
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/bulbctl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultName      = "MI Led Bulb"
	DefaultBinary    = "miiocli"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 500 * time.Millisecond
	DefaultInterval  = 5
	DefaultLogLevel  = "info"
	DefaultOutput    = "text"
	DefaultMetricsDB = "/var/lib/bulbctl/metrics.db"
	DefaultBroker    = "tcp://localhost:1883"
	DefaultPrefix    = "bulbctl"

	defaultEnvPrefix  = "BULBCTL"
	defaultConfigName = "bulbctl"
	defaultConfigDir  = "/etc"
)

// ErrHelp is returned by Load when -h or --help was given.
var ErrHelp = pflag.ErrHelp

type Config struct {
	Name      string        `mapstructure:"name"`
	IP        string        `mapstructure:"ip"`
	Token     string        `mapstructure:"token"`
	Binary    string        `mapstructure:"binary"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit time.Duration `mapstructure:"rate_limit"`
	Interval  int           `mapstructure:"interval"`
	LogLevel  string        `mapstructure:"log_level"`
	Output    string        `mapstructure:"output"`
	PIDDir    string        `mapstructure:"pid_dir"`
	Metrics   MetricsConfig `mapstructure:"metrics"`
	MQTT      MQTTConfig    `mapstructure:"mqtt"`

	// Args holds the positional arguments left after flag parsing.
	Args []string `mapstructure:"-"`
}

type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DBPath       string `mapstructure:"db_path"`
	BatchSize    int    `mapstructure:"batch_size"`
	BatchTimeout int    `mapstructure:"batch_timeout"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	QoS         int    `mapstructure:"qos"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"name":          "name",
	"ip":            "ip",
	"token":         "token",
	"binary":        "binary",
	"timeout":       "timeout",
	"rate-limit":    "rate_limit",
	"interval":      "interval",
	"log-level":     "log_level",
	"output":        "output",
	"pid-dir":       "pid_dir",
	"metrics":       "metrics.enabled",
	"metrics-db":    "metrics.db_path",
	"mqtt":          "mqtt.enabled",
	"mqtt-broker":   "mqtt.broker",
	"mqtt-prefix":   "mqtt.topic_prefix",
	"mqtt-clientid": "mqtt.client_id",
}

// Load reads configuration from defaults, the config file, BULBCTL_*
// environment variables and args, in increasing order of precedence.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{envPrefix: defaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil, ErrHelp
		}
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	configPath := o.configPath
	if f := fs.Lookup("config"); f.Changed {
		configPath = f.Value.String()
	}
	if configPath == "" {
		configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}
	cfg.Args = fs.Args()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that do not depend on the command being run.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if !OutputFormat(c.Output).IsValid() {
		return errFactory.WithData(errors.ErrInvalidOutput, c.Output)
	}
	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.RateLimit < 0 || c.Timeout < 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "durations must not be negative")
	}
	if c.Metrics.Enabled && c.Metrics.DBPath == "" {
		return errFactory.WithData(errors.ErrMissingConfig, "metrics.db_path")
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return errFactory.WithData(errors.ErrMissingConfig, "mqtt.broker")
	}

	return nil
}

// Usage returns the flag help text.
func Usage() string {
	return newFlagSet().FlagUsages()
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("bulbctl", pflag.ContinueOnError)
	fs.SetInterspersed(true)
	fs.SetOutput(io.Discard)

	fs.String("config", "", "Path to the TOML config file")
	fs.String("name", DefaultName, "Display name of the bulb")
	fs.String("ip", "", "IP address of the bulb")
	fs.String("token", "", "32 character hex token of the bulb")
	fs.String("binary", DefaultBinary, "Path to the miiocli executable")
	fs.Duration("timeout", DefaultTimeout, "Timeout for a single device command")
	fs.Duration("rate-limit", DefaultRateLimit, "Minimum time between status queries")
	fs.Int("interval", DefaultInterval, "Seconds between polls in monitor mode")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.StringP("output", "o", DefaultOutput, "Output format (text, json, yaml)")
	fs.String("pid-dir", "", "Directory for the monitor PID file")
	fs.Bool("metrics", false, "Record state history in monitor mode")
	fs.String("metrics-db", DefaultMetricsDB, "Path to the state history database")
	fs.Bool("mqtt", false, "Publish state changes over MQTT in monitor mode")
	fs.String("mqtt-broker", DefaultBroker, "MQTT broker URL")
	fs.String("mqtt-prefix", DefaultPrefix, "MQTT topic prefix")
	fs.String("mqtt-clientid", "", "MQTT client id (random if empty)")

	return fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("name", DefaultName)
	v.SetDefault("ip", "")
	v.SetDefault("token", "")
	v.SetDefault("binary", DefaultBinary)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("rate_limit", DefaultRateLimit)
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("pid_dir", "")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.db_path", DefaultMetricsDB)
	v.SetDefault("metrics.batch_size", 10)
	v.SetDefault("metrics.batch_timeout", 30)
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", DefaultBroker)
	v.SetDefault("mqtt.client_id", "")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic_prefix", DefaultPrefix)
	v.SetDefault("mqtt.qos", 1)
}

func readConfigFile(v *viper.Viper, path string) error {
	errFactory := errors.New()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
		return nil
	}

	v.SetConfigName(defaultConfigName)
	v.SetConfigType("toml")
	v.AddConfigPath(defaultConfigDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return nil
}
