package studio

import (
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
)

const (
	LogFormatJSON  = "json"
	LogFormatPlain = "plain"
)

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

func (c *LogConfig) SectionId() string { return "log" }

func (c *LogConfig) ValidateAndDefault() error {
	if c.Level == "" {
		c.Level = "info"
	}
	if l := level.FromString(c.Level); l == level.Invalid {
		return errors.Errorf("invalid log level '%s'", c.Level)
	}

	switch c.Format {
	case "":
		c.Format = LogFormatJSON
	case LogFormatJSON, LogFormatPlain:
	default:
		return errors.Errorf("invalid log format '%s'", c.Format)
	}
	return nil
}

// GetSender builds the sender for the configured format and threshold.
func (c *LogConfig) GetSender(name string) (send.Sender, error) {
	var sender send.Sender
	switch c.Format {
	case LogFormatPlain:
		sender = send.MakePlainLogger()
	default:
		sender = send.MakeJSONConsoleLogger()
	}
	sender.SetName(name)

	info := sender.Level()
	info.Threshold = level.FromString(c.Level)
	if err := sender.SetLevel(info); err != nil {
		return nil, errors.Wrap(err, "setting log level")
	}
	return sender, nil
}
