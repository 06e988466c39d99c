// -*- tab-width:2 -*-

package sim

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ProtocolConf selects and tunes a protocol variant. Zero values mean
// the variant's defaults.
type ProtocolConf struct {
	Name        string  `yaml:"name"` // abp, gbn or sr
	Window      int     `yaml:"window"`
	SeqSpace    int     `yaml:"seq_space"`
	Timeout     float64 `yaml:"timeout"`
	AckInterval float64 `yaml:"ack_interval"` // receiver re-ack period, < 0 disables
	NakStale    bool    `yaml:"nak_stale"`    // NAK old duplicates instead of re-acking
}

// Config is the configuration of one simulation run.
type Config struct {
	Messages         int          `yaml:"messages"`
	LossProb         float64      `yaml:"loss_probability"`
	CorruptProb      float64      `yaml:"corruption_probability"`
	MeanInterarrival float64      `yaml:"mean_interarrival"`
	Distribution     string       `yaml:"distribution"` // interarrival shape: uniform or exponential
	Seed             int64        `yaml:"seed"`
	Trace            string       `yaml:"trace"` // go-lll level: none, network, state, all
	Drain            bool         `yaml:"drain"` // keep going after the last message until the sender is idle
	MaxTime          float64      `yaml:"max_time"`
	Protocol         ProtocolConf `yaml:"protocol"`

	// Interarrival overrides the time between messages; otherwise
	// Distribution picks it, uniform on [0, 2*MeanInterarrival] by
	// default.
	Interarrival ModelCdf `yaml:"-"`
	// MessageFactory overrides the payload of the n'th message.
	MessageFactory func(n int) Message `yaml:"-"`
}

// DefaultConfig returns sensible defaults for a short run.
func DefaultConfig() *Config {
	return &Config{
		Messages:         10,   //nolint:mnd
		MeanInterarrival: 1000, //nolint:mnd
		Seed:             9999, //nolint:mnd
		Trace:            "none",
		Protocol:         ProtocolConf{Name: "abp"},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	return ParseConfig(b)
}

// ParseConfig decodes YAML on top of DefaultConfig and validates it.
func ParseConfig(b []byte) (*Config, error) {
	c := DefaultConfig()

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks the run parameters.
func (c *Config) Validate() error {
	if c.Messages <= 0 {
		return errors.Wrapf(errBadMessages, "messages %d", c.Messages)
	}

	if c.LossProb < 0 || c.LossProb > 1 {
		return errors.Wrapf(errBadProbability, "loss %f", c.LossProb)
	}

	if c.CorruptProb < 0 || c.CorruptProb > 1 {
		return errors.Wrapf(errBadProbability, "corruption %f", c.CorruptProb)
	}

	if c.Interarrival == nil && c.MeanInterarrival <= 0 {
		return errors.Wrapf(errBadInterval, "mean %f", c.MeanInterarrival)
	}

	if c.Interarrival == nil {
		if _, err := c.interarrivalCDF(); err != nil {
			return err
		}
	}

	return nil
}

// interarrivalCDF builds the time between messages from Distribution
// and MeanInterarrival.
func (c *Config) interarrivalCDF() (ModelCdf, error) {
	switch c.Distribution {
	case "", "uniform":
		return UniformCDF(0, 2*c.MeanInterarrival), nil //nolint:mnd
	case "exponential":
		return ExponentialCDF(c.MeanInterarrival), nil
	default:
		return nil, errors.Wrapf(errBadDistribution, "distribution %q", c.Distribution)
	}
}
