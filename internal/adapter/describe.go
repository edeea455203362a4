package adapter

import (
	"context"
	"encoding/json"
)

// Description is what Describe reports about a collection.
type Description struct {
	Connection   string            `json:"connection"`
	Collection   string            `json:"collection"`
	ResourceURL  string            `json:"resource_url"`
	UpdateMethod string            `json:"update_method"`
	Headers      map[string]string `json:"headers"`
}

// Describe reports the resolved resource URL and request settings of
// collection. No request is sent to the API.
func (a *Adapter) Describe(ctx context.Context, conn, collection string, opts ...CallOption) (json.RawMessage, error) {
	t, err := a.resolve(conn, collection, opts)
	if err != nil {
		return nil, err
	}
	b, err := jsonAPI.Marshal(Description{
		Connection:   conn,
		Collection:   collection,
		ResourceURL:  t.resource,
		UpdateMethod: t.entry.UpdateMethod(),
		Headers:      t.headers,
	})
	if err != nil {
		return nil, ErrEncodeValues.Err(err)
	}
	return b, nil
}
