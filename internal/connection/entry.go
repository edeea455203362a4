package connection

import (
	"sort"

	"github.com/tansive/restadapter/internal/common/httpclient"
)

// Entry is a registered connection.
type Entry struct {
	config      Config
	baseURL     string
	origin      string
	collections map[string]Collection
	client      httpclient.Doer
}

func (e *Entry) Identity() string {
	return e.config.Identity
}

// Config returns a copy of the registered configuration.
func (e *Entry) Config() Config {
	cfg := e.config
	cfg.Headers = e.Headers()
	return cfg
}

func (e *Entry) BaseURL() string {
	return e.baseURL
}

// Origin returns scheme://host:port of the connection, used to resolve
// absolute paths such as those found in Location headers.
func (e *Entry) Origin() string {
	return e.origin
}

// Headers returns a copy of the default request headers.
func (e *Entry) Headers() map[string]string {
	h := make(map[string]string, len(e.config.Headers))
	for k, v := range e.config.Headers {
		h[k] = v
	}
	return h
}

func (e *Entry) UpdateMethod() string {
	return e.config.UpdateMethod
}

func (e *Entry) Client() httpclient.Doer {
	return e.client
}

func (e *Entry) Collection(name string) (Collection, bool) {
	c, ok := e.collections[name]
	return c, ok
}

// ResourceURL returns the absolute URL of the named collection.
func (e *Entry) ResourceURL(name string) (string, bool) {
	c, ok := e.collections[name]
	if !ok {
		return "", false
	}
	return httpclient.JoinPath(e.baseURL, c.URL), true
}

// Collections returns the collection names in sorted order.
func (e *Entry) Collections() []string {
	names := make([]string, 0, len(e.collections))
	for name := range e.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
