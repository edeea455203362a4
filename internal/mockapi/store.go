package mockapi

import (
	"bytes"
	"sort"
	"strconv"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// collection holds the records of one resource as raw JSON objects, keyed
// by the string form of their id.
type collection struct {
	mu      sync.RWMutex
	records map[string][]byte
	order   []string
	nextID  int64
}

func newCollection() *collection {
	return &collection{records: make(map[string][]byte)}
}

type store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	dynamic     bool // create collections on first use
}

func newStore(names []string) *store {
	s := &store{
		collections: make(map[string]*collection, len(names)),
		dynamic:     len(names) == 0,
	}
	for _, name := range names {
		s.collections[name] = newCollection()
	}
	return s
}

func (s *store) collection(name string) (*collection, bool) {
	s.mu.RLock()
	c, ok := s.collections[name]
	s.mu.RUnlock()
	if ok || !s.dynamic {
		return c, ok
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.collections[name]; !ok {
		c = newCollection()
		s.collections[name] = c
	}
	return c, true
}

func (s *store) names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// list returns the records matching every filter, in insertion order.
func (c *collection) list(filters map[string][]string) [][]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([][]byte, 0, len(c.order))
	for _, id := range c.order {
		rec := c.records[id]
		if matches(rec, filters) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec []byte, filters map[string][]string) bool {
	for field, want := range filters {
		got := gjson.GetBytes(rec, field)
		if !got.Exists() {
			return false
		}
		found := false
		for _, w := range want {
			if got.String() == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (c *collection) get(id string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[id]
	return rec, ok
}

// insert stores body, assigning the next numeric id unless body carries
// one. It returns the stored record and its id.
func (c *collection) insert(body []byte) ([]byte, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id := gjson.GetBytes(body, "id"); id.Exists() && id.String() != "" {
		key := id.String()
		if _, ok := c.records[key]; ok {
			return nil, "", ErrDuplicateID.Msg("record already exists: " + key)
		}
		c.put(key, body)
		return body, key, nil
	}

	for {
		c.nextID++
		if _, ok := c.records[strconv.FormatInt(c.nextID, 10)]; !ok {
			break
		}
	}
	rec, err := sjson.SetBytes(body, "id", c.nextID)
	if err != nil {
		return nil, "", ErrStore.Err(err)
	}
	key := strconv.FormatInt(c.nextID, 10)
	c.put(key, rec)
	return rec, key, nil
}

func (c *collection) put(key string, rec []byte) {
	if _, ok := c.records[key]; !ok {
		c.order = append(c.order, key)
	}
	c.records[key] = bytes.Clone(rec)
}

// replace swaps the record with body, keeping its id.
func (c *collection) replace(id string, body []byte) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, ok := c.records[id]
	if !ok {
		return nil, false, nil
	}
	rec, err := sjson.SetRawBytes(body, "id", []byte(gjson.GetBytes(old, "id").Raw))
	if err != nil {
		return nil, true, ErrStore.Err(err)
	}
	c.put(id, rec)
	return rec, true, nil
}

// merge applies the top-level members of patch to the record. The id is
// never changed.
func (c *collection) merge(id string, patch []byte) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[id]
	if !ok {
		return nil, false, nil
	}
	rec = bytes.Clone(rec)
	var err error
	gjson.ParseBytes(patch).ForEach(func(key, value gjson.Result) bool {
		if key.String() == "id" {
			return true
		}
		rec, err = sjson.SetRawBytes(rec, escapeKey(key.String()), []byte(value.Raw))
		return err == nil
	})
	if err != nil {
		return nil, true, ErrStore.Err(err)
	}
	c.put(id, rec)
	return rec, true, nil
}

func (c *collection) remove(id string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[id]
	if !ok {
		return nil, false
	}
	delete(c.records, id)
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return rec, true
}

// escapeKey escapes the path syntax characters of an sjson key so it is
// set as a single top-level member.
func escapeKey(key string) string {
	var b bytes.Buffer
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
