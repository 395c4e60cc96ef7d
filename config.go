package studio

import (
	"os"
	"strconv"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/util"
	"github.com/joho/godotenv"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// ConfigSection defines a sub-document in the service settings.
type ConfigSection interface {
	// SectionId returns the key of the section in the settings file.
	SectionId() string
	// ValidateAndDefault validates input and sets defaults.
	ValidateAndDefault() error
}

// Settings contains all configuration settings for running the yoga
// studio API. Sections are read from a YAML file and may be overridden by
// environment variables.
type Settings struct {
	Database DBSettings   `yaml:"database" json:"database"`
	Api      APIConfig    `yaml:"api" json:"api"`
	Links    LinksConfig  `yaml:"links" json:"links"`
	Tracer   TracerConfig `yaml:"tracer" json:"tracer"`
	Log      LogConfig    `yaml:"log" json:"log"`
}

// Environment variables consulted by ApplyEnvironment.
const (
	dbConnStringEnv = "DB_CONN_STRING"
	dbNameEnv       = "DB_NAME"
	portEnv         = "PORT"
	legacyPortEnv   = "Port"
)

// NewSettings reads settings from the YAML file at path. An empty path
// or a missing file yields the defaults.
func NewSettings(path string) (*Settings, error) {
	settings := &Settings{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err = util.ReadFromYAMLFile(path, settings); err != nil {
				return nil, errors.Wrapf(err, "reading settings file '%s'", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "checking settings file '%s'", path)
		} else {
			grip.Info(message.Fields{
				"message": "settings file not found, using defaults",
				"path":    path,
			})
		}
	}

	return settings, nil
}

// LoadSettings reads the settings file, loads a .env file from the
// working directory if one exists, applies environment overrides, and
// validates the result.
func LoadSettings(path string) (*Settings, error) {
	settings, err := NewSettings(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err = godotenv.Load(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return nil, errors.Wrap(err, "loading .env file")
	}

	if err = settings.ApplyEnvironment(os.LookupEnv); err != nil {
		return nil, errors.WithStack(err)
	}
	if err = settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating settings")
	}

	return settings, nil
}

// ApplyEnvironment overrides file settings with values from the
// environment.
func (s *Settings) ApplyEnvironment(lookup func(string) (string, bool)) error {
	if v, ok := lookup(dbConnStringEnv); ok && v != "" {
		s.Database.Url = v
	}
	if v, ok := lookup(dbNameEnv); ok && v != "" {
		s.Database.DB = v
	}

	for _, key := range []string{legacyPortEnv, portEnv} {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parsing port from '%s'", key)
		}
		s.Api.Port = port
	}

	return nil
}

// Sections returns every configuration section.
func (s *Settings) Sections() []ConfigSection {
	return []ConfigSection{&s.Database, &s.Api, &s.Links, &s.Tracer, &s.Log}
}

// Validate checks the settings and sets defaults, collecting every
// section's errors.
func (s *Settings) Validate() error {
	catcher := grip.NewBasicCatcher()
	for _, section := range s.Sections() {
		catcher.Wrapf(section.ValidateAndDefault(), "validating section '%s'", section.SectionId())
	}

	return catcher.Resolve()
}
