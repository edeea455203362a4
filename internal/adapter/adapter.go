// Package adapter translates abstract record operations into HTTP calls
// against a REST API registered with a connection.Registry.
//
// Every operation returns the decoded response body as raw JSON on
// success. Failures are one of:
//   - an apperrors value derived from ErrAdapter, when the call is invalid
//     and no request is sent
//   - *APIError, when the API answered with a non-success status
//   - *httpclient.TransportError, when no response was received
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/tansive/restadapter/internal/common/httpclient"
	"github.com/tansive/restadapter/internal/common/logtrace"
	"github.com/tansive/restadapter/internal/connection"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Adapter issues requests for the connections held in a registry.
type Adapter struct {
	registry *connection.Registry
}

// New returns an adapter bound to reg.
func New(reg *connection.Registry) *Adapter {
	return &Adapter{registry: reg}
}

// Registry returns the registry the adapter resolves connections from.
func (a *Adapter) Registry() *connection.Registry {
	return a.registry
}

type callOptions struct {
	headers map[string]string
}

// CallOption customizes a single operation.
type CallOption func(*callOptions)

// WithHeader sets a request header for one call, overriding the
// connection's default of the same name.
func WithHeader(name, value string) CallOption {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[name] = value
	}
}

// WithHeaders sets several request headers for one call.
func WithHeaders(h map[string]string) CallOption {
	return func(o *callOptions) {
		for k, v := range h {
			WithHeader(k, v)(o)
		}
	}
}

// target is a resolved (connection, collection) pair.
type target struct {
	entry    *connection.Entry
	resource string
	headers  map[string]string
}

func (a *Adapter) resolve(conn, collection string, opts []CallOption) (*target, error) {
	entry, ok := a.registry.Get(conn)
	if !ok {
		return nil, ErrUnknownConnection.Msg(fmt.Sprintf("unknown connection %q", conn))
	}
	resource, ok := entry.ResourceURL(collection)
	if !ok {
		return nil, ErrUnknownCollection.Msg(fmt.Sprintf("unknown collection %q for connection %q", collection, conn))
	}
	o := &callOptions{}
	for _, opt := range opts {
		opt(o)
	}
	headers := entry.Headers()
	for k, v := range o.headers {
		headers[k] = v
	}
	return &target{entry: entry, resource: resource, headers: headers}, nil
}

func (t *target) request(method, url string) httpclient.Request {
	return httpclient.Request{
		Method:  method,
		URL:     url,
		Headers: t.headers,
	}
}

// send issues req through the connection's client and logs the outcome on
// the operation logger carried by ctx.
func (t *target) send(ctx context.Context, req httpclient.Request) (*httpclient.Response, error) {
	logger := log.Ctx(ctx)
	start := time.Now()
	logger.Debug().Str("method", req.Method).Str("url", req.URL).Msg("sending request")

	rsp, err := t.entry.Client().Do(ctx, req)
	if err != nil {
		logger.Debug().Err(err).Str("method", req.Method).Str("url", req.URL).Msg("request failed")
		return nil, err
	}
	logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status", rsp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("response received")
	return rsp, nil
}

func newOperation(ctx context.Context, op, conn, collection string) context.Context {
	return logtrace.NewOperation(ctx, map[string]string{
		"op":         op,
		"connection": conn,
		"collection": collection,
	})
}

// body returns the response body as raw JSON, or nil if it is empty.
func body(rsp *httpclient.Response) json.RawMessage {
	if len(rsp.Body) == 0 {
		return nil
	}
	return json.RawMessage(rsp.Body)
}
