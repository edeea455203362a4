package connection

import (
	"context"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/restadapter/internal/common/httpclient"
	"github.com/tansive/restadapter/internal/common/logtrace"
)

func TestMain(m *testing.M) {
	logtrace.InitLogger("error")
	os.Exit(m.Run())
}

func widgetsCollections() map[string]Collection {
	return map[string]Collection{
		"widgets": {URL: "/widgets"},
		"gadgets": {URL: "gadgets/"},
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid config",
			cfg:  Config{Identity: "api", Host: "api.example.com", Port: 8080},
		},
		{
			name:    "missing identity",
			cfg:     Config{Host: "api.example.com", Port: 80},
			wantErr: ErrMissingIdentity,
		},
		{
			name:    "missing port",
			cfg:     Config{Identity: "api", Host: "api.example.com"},
			wantErr: ErrMissingPort,
		},
		{
			name:    "port out of range",
			cfg:     Config{Identity: "api", Host: "api.example.com", Port: 70000},
			wantErr: ErrMissingPort,
		},
		{
			name:    "missing host",
			cfg:     Config{Identity: "api", Port: 80},
			wantErr: ErrMissingHost,
		},
		{
			name:    "bad protocol",
			cfg:     Config{Identity: "api", Host: "h", Port: 80, Protocol: "ftp"},
			wantErr: ErrInvalidProtocol,
		},
		{
			name:    "bad update method",
			cfg:     Config{Identity: "api", Host: "h", Port: 80, UpdateMethod: "delete"},
			wantErr: ErrInvalidUpdateMethod,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.Register(tt.cfg, widgetsCollections())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrConnection)
				assert.Empty(t, r.Identities())
				return
			}
			require.NoError(t, err)
			_, ok := r.Get(tt.cfg.Identity)
			assert.True(t, ok)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	cfg := Config{Identity: "api", Host: "api.example.com", Port: 80}
	require.NoError(t, r.Register(cfg, nil))
	err := r.Register(cfg, nil)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegisterInvalidCollection(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Config{Identity: "api", Host: "h", Port: 80}, map[string]Collection{"widgets": {}})
	assert.ErrorIs(t, err, ErrInvalidCollection)
}

func TestEntry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Config{
		Identity:     "api",
		Host:         "api.example.com",
		Port:         8080,
		Pathname:     "v1/",
		UpdateMethod: "patch",
	}, widgetsCollections()))

	e, ok := r.Get("api")
	require.True(t, ok)
	assert.Equal(t, "http://api.example.com:8080/v1", e.BaseURL())
	assert.Equal(t, "http://api.example.com:8080", e.Origin())
	assert.Equal(t, map[string]string{"Content-Type": "application/json"}, e.Headers())
	assert.Equal(t, http.MethodPatch, e.UpdateMethod())
	assert.Equal(t, []string{"gadgets", "widgets"}, e.Collections())

	u, ok := e.ResourceURL("widgets")
	require.True(t, ok)
	assert.Equal(t, "http://api.example.com:8080/v1/widgets", u)
	u, ok = e.ResourceURL("gadgets")
	require.True(t, ok)
	assert.Equal(t, "http://api.example.com:8080/v1/gadgets", u)
	_, ok = e.ResourceURL("nope")
	assert.False(t, ok)

	h := e.Headers()
	h["X-Mutated"] = "yes"
	assert.NotContains(t, e.Headers(), "X-Mutated")
}

func TestEntryKeepsConfiguredHeaders(t *testing.T) {
	r := NewRegistry()
	headers := map[string]string{"Authorization": "Bearer t"}
	require.NoError(t, r.Register(Config{Identity: "api", Host: "h", Port: 443, Protocol: "https", Headers: headers}, nil))
	headers["Authorization"] = "changed"

	e, _ := r.Get("api")
	assert.Equal(t, map[string]string{"Authorization": "Bearer t"}, e.Headers())
	assert.Equal(t, "https://h:443", e.BaseURL())
	assert.Equal(t, http.MethodPut, e.UpdateMethod())
}

func TestTeardown(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Config{Identity: "a", Host: "h", Port: 80}, nil))
	require.NoError(t, r.Register(Config{Identity: "b", Host: "h", Port: 80}, nil))
	assert.Equal(t, []string{"a", "b"}, r.Identities())

	r.Teardown("a")
	r.Teardown("unknown")
	assert.Equal(t, []string{"b"}, r.Identities())

	require.NoError(t, r.Register(Config{Identity: "a", Host: "h", Port: 80}, nil))
	r.TeardownAll()
	assert.Empty(t, r.Identities())
}

type stubDoer struct{ id string }

func (s *stubDoer) Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error) {
	return &httpclient.Response{StatusCode: http.StatusOK}, nil
}

func TestWithClientFactory(t *testing.T) {
	var seen []string
	r := NewRegistry(WithClientFactory(func(cfg Config) httpclient.Doer {
		seen = append(seen, cfg.Identity)
		return &stubDoer{id: cfg.Identity}
	}))
	require.NoError(t, r.Register(Config{Identity: "api", Host: "h", Port: 80}, nil))
	e, _ := r.Get("api")
	assert.Equal(t, "api", e.Client().(*stubDoer).id)
	assert.Equal(t, []string{"api"}, seen)
}

func TestConcurrentRegistration(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- r.Register(Config{Identity: "api", Host: "h", Port: 80}, nil)
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyRegistered)
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 9, dup)
}
