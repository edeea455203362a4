package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// HTTPClient is the net/http backed Doer.
type HTTPClient struct {
	httpClient *http.Client
}

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	Timeout               time.Duration // zero selects DefaultTimeout
	DisableCertValidation bool          // skip TLS certificate verification
	DebugLogging          bool          // log every request and response at debug level
	Transport             http.RoundTripper
}

// NewClient creates a new HTTP client. At most one ClientOptions is used.
func NewClient(opts ...ClientOptions) *HTTPClient {
	var o ClientOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := o.Transport
	if transport == nil && o.DisableCertValidation {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // explicitly requested
			},
		}
	}
	if o.DebugLogging {
		if transport == nil {
			transport = http.DefaultTransport
		}
		transport = &debugTransport{base: transport}
	}

	return &HTTPClient{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Do sends the request and reads the full response body.
func (c *HTTPClient) Do(ctx context.Context, r Request) (*Response, error) {
	req, err := newHTTPRequest(ctx, r)
	if err != nil {
		return nil, &TransportError{Method: r.Method, URL: r.URL, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: r.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: r.Method, URL: req.URL.String(), Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func newHTTPRequest(ctx context.Context, r Request) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	target, err := BuildURL(r.URL, r.Query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, err
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if r.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
