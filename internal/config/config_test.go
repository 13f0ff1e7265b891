package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/bulbctl/internal/config"
	"codeberg.org/mutker/bulbctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bulbctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
name = "Desk"
ip = "192.168.1.20"
token = "0123456789abcdef0123456789abcdef"
timeout = "3s"
rate_limit = "250ms"
interval = 10
log_level = "debug"
output = "json"

[metrics]
enabled = true
db_path = "/tmp/bulbctl.db"
batch_size = 5

[mqtt]
enabled = true
broker = "tcp://broker:1883"
topic_prefix = "home/bulbs"
qos = 0
`)

	// Set environment variable to point to the test config file
	t.Setenv("BULBCTL_CONFIG", configPath)

	cfg, err := config.Load([]string{"status"})
	require.NoError(t, err)

	assert.Equal(t, "Desk", cfg.Name)
	assert.Equal(t, "192.168.1.20", cfg.IP)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.Token)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimit)
	assert.Equal(t, 10, cfg.Interval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Output)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/tmp/bulbctl.db", cfg.Metrics.DBPath)
	assert.Equal(t, 5, cfg.Metrics.BatchSize)
	assert.Equal(t, 30, cfg.Metrics.BatchTimeout)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, "home/bulbs", cfg.MQTT.TopicPrefix)
	assert.Equal(t, 0, cfg.MQTT.QoS)
	assert.Equal(t, []string{"status"}, cfg.Args)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(nil, config.WithConfigFile(writeConfig(t, "")))
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultName, cfg.Name)
	assert.Equal(t, config.DefaultBinary, cfg.Binary)
	assert.Equal(t, config.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, config.DefaultRateLimit, cfg.RateLimit)
	assert.Equal(t, config.DefaultInterval, cfg.Interval)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, config.DefaultOutput, cfg.Output)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, config.DefaultMetricsDB, cfg.Metrics.DBPath)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, config.DefaultBroker, cfg.MQTT.Broker)
	assert.Equal(t, 1, cfg.MQTT.QoS)
	assert.Empty(t, cfg.Args)
}

func TestLoadPrecedence(t *testing.T) {
	configPath := writeConfig(t, `
ip = "10.0.0.1"
interval = 7
log_level = "warning"
`)
	t.Setenv("BULBCTL_CONFIG", configPath)
	t.Setenv("BULBCTL_INTERVAL", "9")
	t.Setenv("BULBCTL_MQTT_TOPIC_PREFIX", "env/prefix")

	cfg, err := config.Load([]string{"--ip", "10.0.0.2", "--rate-limit", "1s", "hue", "120"})
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.2", cfg.IP, "flag overrides file")
	assert.Equal(t, 9, cfg.Interval, "env overrides file")
	assert.Equal(t, "warning", cfg.LogLevel, "file overrides default")
	assert.Equal(t, "env/prefix", cfg.MQTT.TopicPrefix)
	assert.Equal(t, time.Second, cfg.RateLimit)
	assert.Equal(t, []string{"hue", "120"}, cfg.Args)
}

func TestLoadConfigFlag(t *testing.T) {
	t.Setenv("BULBCTL_CONFIG", writeConfig(t, `name = "from env"`))
	flagPath := writeConfig(t, `name = "from flag"`)

	cfg, err := config.Load([]string{"--config", flagPath})
	require.NoError(t, err)
	assert.Equal(t, "from flag", cfg.Name)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("BULBCTL_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestLoadInvalidFlag(t *testing.T) {
	_, err := config.Load([]string{"--no-such-flag"}, config.WithConfigFile(writeConfig(t, "")))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrBindFlags))
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{"log level", `log_level = "verbose"`, errors.ErrInvalidLogLevel},
		{"output", `output = "xml"`, errors.ErrInvalidOutput},
		{"interval", `interval = 0`, errors.ErrInvalidInterval},
		{"negative rate limit", `rate_limit = "-1s"`, errors.ErrInvalidConfig},
		{"metrics without path", "[metrics]\nenabled = true\ndb_path = \"\"", errors.ErrMissingConfig},
		{"mqtt without broker", "[mqtt]\nenabled = true\nbroker = \"\"", errors.ErrMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(nil, config.WithConfigFile(writeConfig(t, tt.content)))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestLogLevelIsValid(t *testing.T) {
	assert.True(t, config.LogLevelDebug.IsValid())
	assert.True(t, config.LogLevelWarning.IsValid())
	assert.False(t, config.LogLevel("trace").IsValid())
	assert.False(t, config.LogLevel("").IsValid())
}

func TestUsage(t *testing.T) {
	usage := config.Usage()
	assert.Contains(t, usage, "--ip")
	assert.Contains(t, usage, "--rate-limit")
	assert.Contains(t, usage, "-o, --output")
}

func TestLoadHelp(t *testing.T) {
	_, err := config.Load([]string{"--help"}, config.WithConfigFile(writeConfig(t, "")))
	assert.ErrorIs(t, err, config.ErrHelp)
}
