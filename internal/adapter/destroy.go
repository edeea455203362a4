package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/tansive/restadapter/internal/common/httpclient"
)

// Destroy deletes <resource>/<where.id>.
func (a *Adapter) Destroy(ctx context.Context, conn, collection string, q Query, opts ...CallOption) (json.RawMessage, error) {
	t, err := a.resolve(conn, collection, opts)
	if err != nil {
		return nil, err
	}
	id, ok := q.ID()
	if !ok {
		return nil, ErrMissingID.Msg("destroy requires where.id")
	}
	ctx = newOperation(ctx, "destroy", conn, collection)

	rsp, err := t.send(ctx, t.request(http.MethodDelete, httpclient.JoinPath(t.resource, url.PathEscape(id))))
	if err != nil {
		return nil, err
	}
	if !rsp.OK() {
		return nil, newAPIError(rsp, false)
	}
	return body(rsp), nil
}
