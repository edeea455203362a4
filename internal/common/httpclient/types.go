package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request describes one outbound HTTP request.
type Request struct {
	Method  string            // HTTP method (GET, POST, PUT, PATCH, DELETE)
	URL     string            // absolute URL; any query it carries is kept
	Query   url.Values        // optional query parameters, merged into URL
	Headers map[string]string // request headers
	Body    []byte            // optional request body
}

// Response is the answer received for a Request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Location returns the Location response header, if any.
func (r *Response) Location() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get("Location")
}

// TransportError reports a request that never produced a response:
// connection failures, timeouts, cancellation, unreadable bodies.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// BuildURL merges query into the query string of rawURL.
func BuildURL(rawURL string, query url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid request URL %q: %w", rawURL, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			q.Del(k)
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// JoinPath appends elem to base with exactly one slash between them.
func JoinPath(base string, elem ...string) string {
	out := strings.TrimRight(base, "/")
	for _, e := range elem {
		e = strings.Trim(e, "/")
		if e == "" {
			continue
		}
		out += "/" + e
	}
	return out
}
