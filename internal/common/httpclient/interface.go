// Package httpclient executes single HTTP requests against a REST API and
// reports the outcome in one shape: a Response for every request that got an
// answer (successful or not) and an error only when no answer was received.
package httpclient

import (
	"context"
)

// Doer executes one HTTP request.
//
// Do returns a non-nil Response whenever the server answered, regardless of
// status code; callers use Response.OK to tell success from failure. The
// returned error is non-nil only when no response was received, and is then
// a *TransportError.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Verify that both implementations satisfy Doer.
var _ Doer = &HTTPClient{}
var _ Doer = &HandlerClient{}
