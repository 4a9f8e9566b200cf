package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	doc_type   TEXT NOT NULL,
	body       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS documents_doc_type_idx ON documents (doc_type);
`

// Postgres stores documents as jsonb rows keyed by _id. The primary key is
// what makes INSERT ... ON CONFLICT DO NOTHING a create-if-absent.
type Postgres struct {
	DB *sql.DB
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func OpenPostgres(ctx context.Context, dbURL string) (*Postgres, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	p := &Postgres{DB: db}
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("error creating documents table: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (Document, error) {
	var body []byte
	err := p.DB.QueryRowContext(ctx, `SELECT body FROM documents WHERE id = $1`, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying document %s: %w", id, err)
	}
	return decodeBody(body)
}

func (p *Postgres) GetMany(ctx context.Context, ids []string) (map[string]Document, error) {
	out := make(map[string]Document, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := p.DB.QueryContext(ctx, `SELECT id, body FROM documents WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error querying documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("error scanning document: %w", err)
		}
		doc, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		out[id] = doc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating documents: %w", err)
	}
	return out, nil
}

func (p *Postgres) Fetch(ctx context.Context, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	query, args := buildSelect(q)
	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error fetching %s documents: %w", q.Type, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("error scanning document: %w", err)
		}
		doc, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating documents: %w", err)
	}
	return docs, nil
}

// buildSelect assumes q passed validateQuery, so field names are safe to inline.
// COLLATE "C" keeps comparisons byte-wise, which is what the UTC timestamp
// layout relies on.
func buildSelect(q Query) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT body FROM documents WHERE doc_type = $1`)
	args := []any{q.Type}
	for _, f := range q.Filters {
		args = append(args, f.Value)
		fmt.Fprintf(&sb, ` AND body->>'%s' COLLATE "C" %s $%d`, f.Field, f.Op, len(args))
	}
	if q.OrderBy != "" {
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, ` ORDER BY body->>'%s' COLLATE "C" %s`, q.OrderBy, dir)
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	}
	return sb.String(), args
}

func (p *Postgres) CreateIfNotExists(ctx context.Context, doc Document) error {
	if err := validateDoc(doc); err != nil {
		return err
	}
	return insertIfAbsent(ctx, p.DB, doc)
}

func (p *Postgres) Patch(ctx context.Context, id string, set map[string]any) error {
	if err := validatePatch(set); err != nil {
		return err
	}
	return patch(ctx, p.DB, id, set)
}

func (p *Postgres) Transaction(ctx context.Context, ops ...Op) error {
	for _, op := range ops {
		if err := checkOp(op); err != nil {
			return err
		}
	}
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, op := range ops {
		switch op.kind {
		case opCreateIfNotExists:
			err = insertIfAbsent(ctx, tx, op.doc)
		case opPatch:
			err = patch(ctx, tx, op.id, op.set)
		}
		if err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (p *Postgres) Close(context.Context) error {
	return p.DB.Close()
}

func insertIfAbsent(ctx context.Context, ex execer, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding document %s: %w", doc.ID(), err)
	}
	_, err = ex.ExecContext(ctx,
		`INSERT INTO documents (id, doc_type, body) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		doc.ID(), doc.Type(), body)
	if err != nil {
		return fmt.Errorf("error creating document %s: %w", doc.ID(), err)
	}
	return nil
}

func patch(ctx context.Context, ex execer, id string, set map[string]any) error {
	body, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("error encoding patch for %s: %w", id, err)
	}
	result, err := ex.ExecContext(ctx,
		`UPDATE documents SET body = body || $2::jsonb, updated_at = NOW() WHERE id = $1`,
		id, body)
	if err != nil {
		return fmt.Errorf("error patching document %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error patching document %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeBody(body []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}
	return doc, nil
}
