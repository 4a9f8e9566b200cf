package docstore

import (
	"context"
	"maps"
	"sort"
	"sync"
)

// Memory keeps documents in process. All operations, including
// transactions, run under one lock.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]Document)}
}

func (m *Memory) Get(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return maps.Clone(doc), nil
}

func (m *Memory) GetMany(ctx context.Context, ids []string) (map[string]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Document, len(ids))
	for _, id := range ids {
		if doc, ok := m.docs[id]; ok {
			out[id] = maps.Clone(doc)
		}
	}
	return out, nil
}

func (m *Memory) Fetch(ctx context.Context, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	var out []Document
	for _, doc := range m.docs {
		if doc.Type() == q.Type && matches(doc, q.Filters) {
			out = append(out, maps.Clone(doc))
		}
	}
	m.mu.RUnlock()

	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].String(q.OrderBy), out[j].String(q.OrderBy)
			if q.Descending {
				return a > b
			}
			return a < b
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matches(doc Document, filters []Filter) bool {
	for _, f := range filters {
		v, ok := doc[f.Field].(string)
		if !ok {
			return false
		}
		switch f.Op {
		case Eq:
			if v != f.Value {
				return false
			}
		case Gte:
			if v < f.Value {
				return false
			}
		case Lt:
			if v >= f.Value {
				return false
			}
		}
	}
	return true
}

func (m *Memory) CreateIfNotExists(ctx context.Context, doc Document) error {
	return m.Transaction(ctx, CreateIfNotExists(doc))
}

func (m *Memory) Patch(ctx context.Context, id string, set map[string]any) error {
	return m.Transaction(ctx, Patch(id, set))
}

func (m *Memory) Transaction(ctx context.Context, ops ...Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, op := range ops {
		if err := checkOp(op); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Stage on a copy-on-write overlay so a failing op leaves nothing behind.
	staged := make(map[string]Document)
	lookup := func(id string) (Document, bool) {
		if d, ok := staged[id]; ok {
			return d, true
		}
		d, ok := m.docs[id]
		return d, ok
	}
	for _, op := range ops {
		switch op.kind {
		case opCreateIfNotExists:
			if _, exists := lookup(op.id); exists {
				continue
			}
			staged[op.id] = maps.Clone(op.doc)
		case opPatch:
			cur, exists := lookup(op.id)
			if !exists {
				return ErrNotFound
			}
			next := maps.Clone(cur)
			maps.Copy(next, op.set)
			staged[op.id] = next
		}
	}
	maps.Copy(m.docs, staged)
	return nil
}

func (m *Memory) Close(context.Context) error {
	return nil
}

// Len reports how many documents are stored.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func checkOp(op Op) error {
	switch op.kind {
	case opCreateIfNotExists:
		return validateDoc(op.doc)
	case opPatch:
		return validatePatch(op.set)
	}
	return nil
}
