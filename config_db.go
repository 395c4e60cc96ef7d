package studio

import (
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultDatabaseURL  = "mongodb://localhost:27017"
	DefaultDatabaseName = "yoga-studio-management"

	defaultConnectTimeoutSecs = 10
	defaultQueryTimeoutSecs   = 30
)

// DBSettings locates the document store.
type DBSettings struct {
	Url                string `yaml:"url" json:"url"`
	DB                 string `yaml:"db" json:"db"`
	ConnectTimeoutSecs int    `yaml:"connect_timeout_secs" json:"connect_timeout_secs"`
	QueryTimeoutSecs   int    `yaml:"query_timeout_secs" json:"query_timeout_secs"`
}

func (c *DBSettings) SectionId() string { return "database" }

func (c *DBSettings) ValidateAndDefault() error {
	if c.Url == "" {
		c.Url = DefaultDatabaseURL
	}
	if c.DB == "" {
		c.DB = DefaultDatabaseName
	}
	if c.ConnectTimeoutSecs < 0 || c.QueryTimeoutSecs < 0 {
		return errors.New("database timeouts cannot be negative")
	}
	if c.ConnectTimeoutSecs == 0 {
		c.ConnectTimeoutSecs = defaultConnectTimeoutSecs
	}
	if c.QueryTimeoutSecs == 0 {
		c.QueryTimeoutSecs = defaultQueryTimeoutSecs
	}
	return nil
}

func (c *DBSettings) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSecs) * time.Second
}

func (c *DBSettings) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSecs) * time.Second
}
