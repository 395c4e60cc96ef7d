package studio

import "github.com/pkg/errors"

// TracerConfig configures the OpenTelemetry tracer provider. If not enabled traces will not be sent.
type TracerConfig struct {
	Enabled           bool   `yaml:"enabled" json:"enabled"`
	CollectorEndpoint string `yaml:"collector_endpoint" json:"collector_endpoint"`
	Insecure          bool   `yaml:"insecure" json:"insecure"`
}

// SectionId returns the ID of this config section.
func (c *TracerConfig) SectionId() string { return "tracer" }

// ValidateAndDefault validates the tracer configuration.
func (c *TracerConfig) ValidateAndDefault() error {
	if c.Enabled && c.CollectorEndpoint == "" {
		return errors.New("tracer can't be enabled without a collector endpoint")
	}
	return nil
}
