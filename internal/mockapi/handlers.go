package mockapi

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/tansive/restadapter/internal/common/httpclient"
	"github.com/tansive/restadapter/internal/common/httpx"
)

// Listing parameters that are not record filters.
const (
	pageParam    = "page"
	perPageParam = "per_page"
)

func (s *Server) listCollections(r *http.Request) (*httpx.Response, error) {
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   map[string][]string{"collections": s.store.names()},
	}, nil
}

func (s *Server) collectionFromRequest(r *http.Request) (*collection, string, error) {
	name := chi.URLParam(r, "collection")
	c, ok := s.store.collection(name)
	if !ok {
		return nil, name, httpx.ErrNotFound("unknown collection: " + name)
	}
	return c, name, nil
}

func (s *Server) findRecords(r *http.Request) (*httpx.Response, error) {
	c, _, err := s.collectionFromRequest(r)
	if err != nil {
		return nil, err
	}
	query := r.URL.Query()
	page, err := intParam(query, pageParam, 0)
	if err != nil {
		return nil, err
	}
	perPage, err := intParam(query, perPageParam, s.opts.PageSize)
	if err != nil {
		return nil, err
	}
	if perPage <= 0 {
		return nil, httpx.ErrInvalidRequest("per_page must be greater than zero")
	}
	query.Del(pageParam)
	query.Del(perPageParam)

	records := c.list(query)
	start := page * perPage
	end := start + perPage
	if start > len(records) {
		start = len(records)
	}
	if end > len(records) {
		end = len(records)
	}
	log.Ctx(r.Context()).Debug().Int("matched", len(records)).Int("page", page).Msg("listing records")

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   jsonArray(records[start:end]),
	}, nil
}

func (s *Server) getRecord(r *http.Request) (*httpx.Response, error) {
	c, name, err := s.collectionFromRequest(r)
	if err != nil {
		return nil, err
	}
	id := chi.URLParam(r, "id")
	rec, ok := c.get(id)
	if !ok {
		return nil, notFound(name, id)
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: rec}, nil
}

func (s *Server) createRecord(r *http.Request) (*httpx.Response, error) {
	c, name, err := s.collectionFromRequest(r)
	if err != nil {
		return nil, err
	}
	body, err := s.readRecord(r, name, true)
	if err != nil {
		return nil, err
	}
	rec, id, err := c.insert(body)
	if err != nil {
		return nil, err
	}

	rsp := &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   s.recordURL(r, name, id),
		Response:   rec,
	}
	if s.opts.LocationOnly {
		rsp.Response = nil
	}
	return rsp, nil
}

func (s *Server) replaceRecord(r *http.Request) (*httpx.Response, error) {
	c, name, err := s.collectionFromRequest(r)
	if err != nil {
		return nil, err
	}
	body, err := s.readRecord(r, name, true)
	if err != nil {
		return nil, err
	}
	id := chi.URLParam(r, "id")
	rec, ok, err := c.replace(id, body)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound(name, id)
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: rec}, nil
}

func (s *Server) mergeRecord(r *http.Request) (*httpx.Response, error) {
	c, name, err := s.collectionFromRequest(r)
	if err != nil {
		return nil, err
	}
	body, err := s.readRecord(r, name, false)
	if err != nil {
		return nil, err
	}
	id := chi.URLParam(r, "id")
	rec, ok, err := c.merge(id, body)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound(name, id)
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: rec}, nil
}

func (s *Server) deleteRecord(r *http.Request) (*httpx.Response, error) {
	c, name, err := s.collectionFromRequest(r)
	if err != nil {
		return nil, err
	}
	id := chi.URLParam(r, "id")
	rec, ok := c.remove(id)
	if !ok {
		return nil, notFound(name, id)
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: rec}, nil
}

// readRecord reads a JSON object from the request body and, when
// checkRequired is set, verifies the collection's required fields.
func (s *Server) readRecord(r *http.Request, collection string, checkRequired bool) ([]byte, error) {
	body, err := httpx.ReadRequestBody(r)
	if err != nil {
		return nil, err
	}
	if !gjson.ParseBytes(body).IsObject() {
		return nil, httpx.ErrInvalidRequest("request body must be a JSON object")
	}
	if !checkRequired {
		return body, nil
	}
	var missing []httpx.FieldError
	for _, field := range s.opts.Required[collection] {
		if v := gjson.GetBytes(body, field); !v.Exists() || v.Type == gjson.Null || v.String() == "" {
			missing = append(missing, httpx.FieldError{Field: field, Message: "is required"})
		}
	}
	if len(missing) > 0 {
		return nil, httpx.ErrValidation("validation failed for "+collection, missing)
	}
	return body, nil
}

// recordURL returns the absolute URL of a record, as sent in Location.
func (s *Server) recordURL(r *http.Request, collection, id string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return httpclient.JoinPath(scheme+"://"+r.Host, s.opts.BasePath, url.PathEscape(collection), url.PathEscape(id))
}

func notFound(collection, id string) error {
	return httpx.ErrNotFound("no record " + id + " in " + collection)
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, httpx.ErrInvalidRequest(name + " must be a non-negative integer")
	}
	return n, nil
}

func jsonArray(records [][]byte) []byte {
	var b bytes.Buffer
	b.WriteByte('[')
	b.Write(bytes.Join(records, []byte{','}))
	b.WriteByte(']')
	return b.Bytes()
}
