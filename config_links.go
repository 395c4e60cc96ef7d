package studio

import (
	"time"

	"github.com/pkg/errors"
)

// LinkMode selects how class back-references are written.
type LinkMode string

const (
	// LinkModeBestEffort writes the class and each back-reference
	// independently. A failed back-reference write is logged and does
	// not fail the request.
	LinkModeBestEffort LinkMode = "best_effort"
	// LinkModeTransactional writes the class and its back-references in
	// one multi-document transaction.
	LinkModeTransactional LinkMode = "transactional"
)

// LinksConfig configures maintenance of back-reference arrays.
type LinksConfig struct {
	Mode              LinkMode `yaml:"mode" json:"mode"`
	RetryAttempts     int      `yaml:"retry_attempts" json:"retry_attempts"`
	RetryMinDelayMS   int      `yaml:"retry_min_delay_ms" json:"retry_min_delay_ms"`
	RetryMaxDelayMS   int      `yaml:"retry_max_delay_ms" json:"retry_max_delay_ms"`
	ReconcileInterval string   `yaml:"reconcile_interval" json:"reconcile_interval"`
}

func (c *LinksConfig) SectionId() string { return "links" }

func (c *LinksConfig) ValidateAndDefault() error {
	switch c.Mode {
	case "":
		c.Mode = LinkModeBestEffort
	case LinkModeBestEffort, LinkModeTransactional:
	default:
		return errors.Errorf("invalid link mode '%s'", c.Mode)
	}

	if c.RetryAttempts < 0 || c.RetryMinDelayMS < 0 || c.RetryMaxDelayMS < 0 {
		return errors.New("link retry settings cannot be negative")
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 1
	}
	if c.RetryMinDelayMS == 0 {
		c.RetryMinDelayMS = 100
	}
	if c.RetryMaxDelayMS == 0 {
		c.RetryMaxDelayMS = 2000
	}
	if c.RetryMaxDelayMS < c.RetryMinDelayMS {
		return errors.New("link retry max delay must not be less than min delay")
	}

	if c.ReconcileInterval != "" {
		if _, err := time.ParseDuration(c.ReconcileInterval); err != nil {
			return errors.Wrapf(err, "parsing reconcile interval '%s'", c.ReconcileInterval)
		}
	}
	return nil
}

func (c *LinksConfig) RetryMinDelay() time.Duration {
	return time.Duration(c.RetryMinDelayMS) * time.Millisecond
}

func (c *LinksConfig) RetryMaxDelay() time.Duration {
	return time.Duration(c.RetryMaxDelayMS) * time.Millisecond
}
