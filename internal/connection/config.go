// Package connection holds the registry of configured REST endpoints. Each
// registered connection carries its base URL, default headers, the mapping
// from collection name to resource path, and the HTTP client used to reach it.
package connection

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied to connection configs loaded from files.
const (
	DefaultProtocol     = "http"
	DefaultPort         = 80
	DefaultUpdateMethod = http.MethodPut
)

// Config describes one remote REST endpoint.
type Config struct {
	Identity           string            `mapstructure:"identity" validate:"required"`
	Protocol           string            `mapstructure:"protocol" validate:"omitempty,oneof=http https"`
	Host               string            `mapstructure:"host" validate:"required"`
	Port               int               `mapstructure:"port" validate:"required,min=1,max=65535"`
	Pathname           string            `mapstructure:"pathname"`
	Headers            map[string]string `mapstructure:"headers"`
	UpdateMethod       string            `mapstructure:"update_method" validate:"omitempty,oneof=PUT PATCH POST"`
	Timeout            time.Duration     `mapstructure:"timeout"`
	InsecureSkipVerify bool              `mapstructure:"insecure_skip_verify"`
	Debug              bool              `mapstructure:"debug"`
}

// Collection maps a logical collection name to its REST resource.
type Collection struct {
	URL string `mapstructure:"url" validate:"required"`
}

// DefaultConfig returns a Config populated with the defaults used when a
// field is left out of a configuration file.
func DefaultConfig() Config {
	return Config{
		Protocol:     DefaultProtocol,
		Port:         DefaultPort,
		Headers:      DefaultHeaders(),
		UpdateMethod: DefaultUpdateMethod,
	}
}

// DefaultHeaders returns the headers sent when a connection configures none.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

func validate() *validator.Validate {
	return configValidator
}

// Validate checks the config and reports the first problem found, in the
// order identity, port, host, protocol, update method.
func (c *Config) Validate() error {
	err := validate().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrInvalidConfig.Err(err)
	}
	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		failed[fe.Field()] = true
	}
	switch {
	case failed["Identity"]:
		return ErrMissingIdentity
	case failed["Port"]:
		return ErrMissingPort
	case failed["Host"]:
		return ErrMissingHost
	case failed["Protocol"]:
		return ErrInvalidProtocol
	case failed["UpdateMethod"]:
		return ErrInvalidUpdateMethod
	}
	return ErrInvalidConfig.Err(err)
}

// Validate checks that the collection names a resource.
func (c Collection) Validate() error {
	if err := validate().Struct(c); err != nil {
		return ErrInvalidCollection.Err(err)
	}
	return nil
}

// withDefaults fills the optional fields that Register does not require.
func (c Config) withDefaults() Config {
	if c.Protocol == "" {
		c.Protocol = DefaultProtocol
	}
	if c.UpdateMethod == "" {
		c.UpdateMethod = DefaultUpdateMethod
	}
	c.UpdateMethod = strings.ToUpper(c.UpdateMethod)
	headers := make(map[string]string, len(c.Headers))
	for k, val := range c.Headers {
		headers[k] = val
	}
	if len(headers) == 0 {
		headers = DefaultHeaders()
	}
	c.Headers = headers
	return c
}

// Origin returns scheme://host:port.
func (c Config) Origin() string {
	u := url.URL{
		Scheme: c.Protocol,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
	}
	return u.String()
}

// BaseURL returns the origin followed by the configured pathname, without a
// trailing slash.
func (c Config) BaseURL() string {
	u := url.URL{
		Scheme: c.Protocol,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   c.Pathname,
	}
	return strings.TrimRight(u.String(), "/")
}
