package studio

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultPort      = 3001
	DefaultURLPrefix = "yoga-studio-management-api"
)

// APIConfig configures the HTTP service.
type APIConfig struct {
	Port        int      `yaml:"port" json:"port"`
	URLPrefix   string   `yaml:"url_prefix" json:"url_prefix"`
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`
	// StrictPatch applies the field validators to partial update values.
	StrictPatch bool `yaml:"strict_patch" json:"strict_patch"`
}

func (c *APIConfig) SectionId() string { return "api" }

func (c *APIConfig) ValidateAndDefault() error {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.Errorf("port %d is out of range", c.Port)
	}

	c.URLPrefix = strings.Trim(c.URLPrefix, "/")
	if c.URLPrefix == "" {
		c.URLPrefix = DefaultURLPrefix
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	return nil
}

// ListenAddr is the address the HTTP server binds.
func (c *APIConfig) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
