package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/tansive/restadapter/internal/common/httpclient"
)

// Find reads records from collection.
//
// With where.id set, it fetches <resource>/<id> and sends the remaining
// filters as query parameters. Otherwise it fetches <resource> with all
// filters plus a page parameter, taken from where.page when supplied and
// computed as skip / limit when not.
func (a *Adapter) Find(ctx context.Context, conn, collection string, q Query, opts ...CallOption) (json.RawMessage, error) {
	t, err := a.resolve(conn, collection, opts)
	if err != nil {
		return nil, err
	}
	ctx = newOperation(ctx, "find", conn, collection)

	where := q.where()
	endpoint := t.resource
	if id, ok := q.ID(); ok {
		delete(where, WhereID)
		endpoint = httpclient.JoinPath(t.resource, url.PathEscape(id))
	} else {
		page, err := q.Page()
		if err != nil {
			return nil, err
		}
		where[WherePage] = page
	}

	query, err := encodeQuery(where)
	if err != nil {
		return nil, err
	}
	req := t.request(http.MethodGet, endpoint)
	req.Query = query

	rsp, err := t.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if !rsp.OK() {
		return nil, newAPIError(rsp, false)
	}
	return body(rsp), nil
}
