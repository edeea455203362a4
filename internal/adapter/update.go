package adapter

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/tansive/restadapter/internal/common/httpclient"
)

// Update sends values to <resource>/<where.id> using the connection's
// update method (PUT unless configured otherwise).
func (a *Adapter) Update(ctx context.Context, conn, collection string, q Query, values any, opts ...CallOption) (json.RawMessage, error) {
	t, err := a.resolve(conn, collection, opts)
	if err != nil {
		return nil, err
	}
	id, ok := q.ID()
	if !ok {
		return nil, ErrMissingID.Msg("update requires where.id")
	}
	ctx = newOperation(ctx, "update", conn, collection)

	payload, err := jsonAPI.Marshal(values)
	if err != nil {
		return nil, ErrEncodeValues.Err(err)
	}
	req := t.request(t.entry.UpdateMethod(), httpclient.JoinPath(t.resource, url.PathEscape(id)))
	req.Body = payload

	rsp, err := t.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if !rsp.OK() {
		return nil, newAPIError(rsp, true)
	}
	return body(rsp), nil
}
