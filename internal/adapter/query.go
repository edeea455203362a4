package adapter

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
)

// Reserved keys of Query.Where.
const (
	WhereID   = "id"
	WherePage = "page"
)

// Query is the abstract description of a read, update or destroy.
type Query struct {
	Where map[string]any // field filters; "id" and "page" are reserved
	Skip  int
	Limit int
	Sort  any // accepted for contract completeness; not sent to the API
}

// ID returns where.id formatted for use as a path segment. An id that is
// absent or falsy (nil, false, zero, empty string) is reported as missing,
// the same rule hasIdentifier applies to create responses.
func (q Query) ID() (string, bool) {
	v, ok := q.Where[WhereID]
	if !ok || !truthy(v) {
		return "", false
	}
	s, err := formatValue(v)
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// Page returns where.page when supplied, otherwise skip / limit using
// integer division.
func (q Query) Page() (any, error) {
	if p, ok := q.Where[WherePage]; ok && p != nil {
		return p, nil
	}
	if q.Limit <= 0 || q.Skip < 0 {
		return nil, ErrInvalidPagination.Msg(fmt.Sprintf("cannot compute page from skip=%d limit=%d", q.Skip, q.Limit))
	}
	return q.Skip / q.Limit, nil
}

// where returns a shallow copy of q.Where so callers' maps are never mutated.
func (q Query) where() map[string]any {
	w := make(map[string]any, len(q.Where)+1)
	for k, v := range q.Where {
		w[k] = v
	}
	return w
}

// encodeQuery converts filter values into query parameters. Slices become
// repeated parameters; everything else is formatted with formatValue.
func encodeQuery(where map[string]any) (url.Values, error) {
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := make(url.Values, len(where))
	for _, k := range keys {
		v := where[k]
		rv := reflect.ValueOf(v)
		if v != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				s, err := formatValue(rv.Index(i).Interface())
				if err != nil {
					return nil, ErrEncodeValues.MsgErr("unable to encode query parameter "+k, err)
				}
				q.Add(k, s)
			}
			continue
		}
		s, err := formatValue(v)
		if err != nil {
			return nil, ErrEncodeValues.MsgErr("unable to encode query parameter "+k, err)
		}
		q.Set(k, s)
	}
	return q, nil
}

// formatValue renders a scalar as text and anything structured as compact
// JSON.
func formatValue(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case fmt.Stringer:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	}
	b, err := jsonAPI.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
