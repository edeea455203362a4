package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

var schemeHostPrefix = regexp.MustCompile(`^https?://[^/]*`)

// Create posts values to collection.
//
// Some APIs answer a create with an empty or partial body and point to the
// new record with a Location header. When the body carries no id and a
// Location is present, the record is fetched from that location and
// returned instead. If the follow-up fetch fails the original body is
// returned and the failure is only logged.
func (a *Adapter) Create(ctx context.Context, conn, collection string, values any, opts ...CallOption) (json.RawMessage, error) {
	t, err := a.resolve(conn, collection, opts)
	if err != nil {
		return nil, err
	}
	ctx = newOperation(ctx, "create", conn, collection)

	payload, err := jsonAPI.Marshal(values)
	if err != nil {
		return nil, ErrEncodeValues.Err(err)
	}
	req := t.request(http.MethodPost, t.resource)
	req.Body = payload

	rsp, err := t.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if !rsp.OK() {
		return nil, newAPIError(rsp, true)
	}

	location := rsp.Location()
	if hasIdentifier(rsp.Body) || location == "" {
		return body(rsp), nil
	}

	followURL := t.entry.Origin() + locationPath(location)
	logger := log.Ctx(ctx)
	follow, err := t.send(ctx, t.request(http.MethodGet, followURL))
	if err != nil {
		logger.Warn().Err(err).Str("location", location).Msg("unable to fetch created record, returning create response")
		return body(rsp), nil
	}
	if !follow.OK() {
		logger.Warn().Int("status", follow.StatusCode).Str("location", location).Msg("unable to fetch created record, returning create response")
		return body(rsp), nil
	}
	return body(follow), nil
}

// locationPath strips scheme and host from a Location value, leaving an
// absolute path to be resolved against the connection's origin.
func locationPath(location string) string {
	p := schemeHostPrefix.ReplaceAllString(location, "")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// hasIdentifier reports whether body is a JSON object with a truthy id.
func hasIdentifier(body []byte) bool {
	if !gjson.ValidBytes(body) {
		return false
	}
	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		return false
	}
	id := res.Get("id")
	switch id.Type {
	case gjson.String:
		return id.Str != ""
	case gjson.Number:
		return id.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
