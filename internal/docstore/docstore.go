// Package docstore is a small document database abstraction: flat JSON-like
// documents addressed by a string _id, with create-if-absent as the only
// mutual exclusion primitive.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

const (
	FieldID   = "_id"
	FieldType = "_type"
)

var ErrNotFound = errors.New("document not found")

// Document is a flat document. Values are strings, bools, numbers or
// string slices; absolute times are stored as fixed-width UTC strings.
type Document map[string]any

func (d Document) ID() string {
	return d.String(FieldID)
}

func (d Document) Type() string {
	return d.String(FieldType)
}

// String returns a string field or "".
func (d Document) String(field string) string {
	s, _ := d[field].(string)
	return s
}

// Strings returns a string slice field whatever the backend decoded it as.
func (d Document) Strings(field string) []string {
	switch v := d[field].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

type Operator string

const (
	Eq  Operator = "="
	Gte Operator = ">="
	Lt  Operator = "<"
)

// Filter compares a string field against a value.
type Filter struct {
	Field string
	Op    Operator
	Value string
}

type Query struct {
	Type       string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

type opKind int

const (
	opCreateIfNotExists opKind = iota
	opPatch
)

// Op is one mutation inside a Transaction.
type Op struct {
	kind opKind
	doc  Document
	id   string
	set  map[string]any
}

func CreateIfNotExists(doc Document) Op {
	return Op{kind: opCreateIfNotExists, doc: doc, id: doc.ID()}
}

func Patch(id string, set map[string]any) Op {
	return Op{kind: opPatch, id: id, set: set}
}

// Store is implemented by every backend.
type Store interface {
	Get(ctx context.Context, id string) (Document, error)
	GetMany(ctx context.Context, ids []string) (map[string]Document, error)
	Fetch(ctx context.Context, q Query) ([]Document, error)
	// CreateIfNotExists is a no-op when a document with the same _id exists.
	CreateIfNotExists(ctx context.Context, doc Document) error
	Patch(ctx context.Context, id string, set map[string]any) error
	// Transaction applies all ops or none.
	Transaction(ctx context.Context, ops ...Op) error
	Close(ctx context.Context) error
}

var fieldName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func validateDoc(doc Document) error {
	if doc.ID() == "" {
		return fmt.Errorf("document without %s", FieldID)
	}
	if doc.Type() == "" {
		return fmt.Errorf("document %s without %s", doc.ID(), FieldType)
	}
	return nil
}

func validateQuery(q Query) error {
	if q.Type == "" {
		return fmt.Errorf("query without type")
	}
	for _, f := range q.Filters {
		if !fieldName.MatchString(f.Field) {
			return fmt.Errorf("invalid filter field %q", f.Field)
		}
		switch f.Op {
		case Eq, Gte, Lt:
		default:
			return fmt.Errorf("invalid operator %q", f.Op)
		}
	}
	if q.OrderBy != "" && !fieldName.MatchString(q.OrderBy) {
		return fmt.Errorf("invalid order field %q", q.OrderBy)
	}
	return nil
}

func validatePatch(set map[string]any) error {
	for k := range set {
		if k == FieldID || k == FieldType || !fieldName.MatchString(k) {
			return fmt.Errorf("field %q cannot be patched", k)
		}
	}
	return nil
}
