package connection

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tansive/restadapter/internal/common/httpclient"
)

// ClientFactory builds the HTTP client used for a registered connection.
type ClientFactory func(cfg Config) httpclient.Doer

// Registry holds registered connections keyed by identity. It is safe for
// concurrent use; entries are immutable once registered.
type Registry struct {
	mu        sync.RWMutex
	entries   map[string]*Entry
	newClient ClientFactory
}

// Option configures a Registry.
type Option func(*Registry)

// WithClientFactory replaces the default net/http client factory.
func WithClientFactory(f ClientFactory) Option {
	return func(r *Registry) {
		if f != nil {
			r.newClient = f
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries:   make(map[string]*Entry),
		newClient: defaultClientFactory,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultClientFactory(cfg Config) httpclient.Doer {
	return httpclient.NewClient(httpclient.ClientOptions{
		Timeout:               cfg.Timeout,
		DisableCertValidation: cfg.InsecureSkipVerify,
		DebugLogging:          cfg.Debug,
	})
}

// Register validates cfg and its collections and stores them under
// cfg.Identity. Registering an identity twice is an error.
func (r *Registry) Register(cfg Config, collections map[string]Collection) error {
	if cfg.Identity == "" {
		return ErrMissingIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[cfg.Identity]; exists {
		return ErrAlreadyRegistered
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	cols := make(map[string]Collection, len(collections))
	for name, c := range collections {
		if err := c.Validate(); err != nil {
			return ErrInvalidCollection.Msg("collection " + name + " requires a resource url").Err(err)
		}
		cols[name] = c
	}

	r.entries[cfg.Identity] = &Entry{
		config:      cfg,
		baseURL:     cfg.BaseURL(),
		origin:      cfg.Origin(),
		collections: cols,
		client:      r.newClient(cfg),
	}
	log.Debug().Str("connection", cfg.Identity).Str("base_url", cfg.BaseURL()).Int("collections", len(cols)).Msg("connection registered")
	return nil
}

// Get returns the entry registered under identity.
func (r *Registry) Get(identity string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[identity]
	return e, ok
}

// Teardown removes the connection registered under identity. Unknown
// identities are ignored.
func (r *Registry) Teardown(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, identity)
}

// TeardownAll removes every registered connection.
func (r *Registry) TeardownAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]*Entry)
}

// Identities returns the registered identities in sorted order.
func (r *Registry) Identities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
