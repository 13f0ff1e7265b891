package publish

import (
	"net/url"
	"strings"
	"time"

	"codeberg.org/mutker/bulbctl/internal/errors"
	"github.com/google/uuid"
)

const (
	defaultBroker         = "tcp://localhost:1883"
	defaultTopicPrefix    = "bulbctl"
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
	maxQoS                = 2
)

type Config struct {
	Enabled     bool
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         int
}

func DefaultConfig() Config {
	return Config{
		Broker:      defaultBroker,
		TopicPrefix: defaultTopicPrefix,
		QoS:         1,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if !c.Enabled {
		return nil
	}

	u, err := url.Parse(c.Broker)
	if err != nil || u.Host == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "mqtt broker must be a URL such as tcp://host:1883")
	}
	if c.QoS < 0 || c.QoS > maxQoS {
		return errFactory.WithData(errors.ErrInvalidConfig, "mqtt qos must be 0, 1 or 2")
	}
	if strings.ContainsAny(c.TopicPrefix, "+#") {
		return errFactory.WithData(errors.ErrInvalidConfig, "mqtt topic prefix must not contain wildcards")
	}

	return nil
}

// clientID returns the configured id, or a random one per process.
func (c Config) clientID() string {
	if c.ClientID != "" {
		return c.ClientID
	}

	return "bulbctl-" + uuid.NewString()
}
