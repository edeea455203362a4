package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
)

// HandlerClient is a Doer that serves requests in-process through an
// http.Handler, capturing responses with httptest.NewRecorder. It is used to
// drive the adapter against the mock API without opening sockets.
type HandlerClient struct {
	handler http.Handler
}

// NewHandlerClient returns a Doer that dispatches every request to h.
func NewHandlerClient(h http.Handler) *HandlerClient {
	return &HandlerClient{handler: h}
}

// Do builds the request exactly as HTTPClient would and serves it with the
// wrapped handler. A canceled context is reported as a transport error.
func (c *HandlerClient) Do(ctx context.Context, r Request) (*Response, error) {
	req, err := newHTTPRequest(ctx, r)
	if err != nil {
		return nil, &TransportError{Method: r.Method, URL: r.URL, Err: err}
	}
	if err := req.Context().Err(); err != nil {
		return nil, &TransportError{Method: r.Method, URL: req.URL.String(), Err: err}
	}

	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)

	return &Response{
		StatusCode: rr.Code,
		Header:     rr.Header(),
		Body:       rr.Body.Bytes(),
	}, nil
}
