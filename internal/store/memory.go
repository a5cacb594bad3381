package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is a mutex-guarded in-memory Store. It is the default backend for
// tests and for running without a database file. Records are copied on the
// way in and out so callers never share state with the store.
type Memory struct {
	mu          sync.Mutex
	collections map[string]map[string]Record
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Record)}
}

func (m *Memory) Get(_ context.Context, collection, id string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return cloneRecord(rec), nil
}

func (m *Memory) Put(_ context.Context, collection string, rec Record) error {
	id := ID(rec)
	if id == "" {
		return ErrMissingID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[string]Record)
		m.collections[collection] = coll
	}
	coll[id] = cloneRecord(rec)
	return nil
}

func (m *Memory) Del(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[collection], id)
	return nil
}

func (m *Memory) All(_ context.Context, collection string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll := m.collections[collection]
	out := make([]Record, 0, len(coll))
	for _, rec := range coll {
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

func (m *Memory) Clear(_ context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, collection)
	return nil
}

func (m *Memory) Index(_ context.Context, collection, field string, value any) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, rec := range m.collections[collection] {
		if rec[field] == value {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

// cloneRecord deep-copies through the JSON form; records are JSON-shaped by
// construction so this cannot fail.
func cloneRecord(rec Record) Record {
	data, err := json.Marshal(rec)
	if err != nil {
		panic(err)
	}
	var out Record
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}
