package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lalith-99/practicedesk/internal/docstore"
)

// Schema creates the single table every document lives in.
//
// Why one table instead of tasks/users/firms tables?
//   - The web app owns the document shapes and changes them freely. A
//     JSONB column takes whatever it writes without migrations.
//   - The path is the primary key, so a Get is one index lookup, and
//     "collection" lets QueryEqual scan only one logical collection.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
	path       text PRIMARY KEY,
	collection text NOT NULL,
	doc_id     text NOT NULL,
	data       jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents (collection, doc_id);`

// DB is the slice of pgxpool.Pool the store uses. pgxmock satisfies it too.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements docstore.Store on Postgres.
type Store struct {
	db DB
}

var _ docstore.Store = (*Store)(nil)

func New(db DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the documents table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, path string, dst any) error {
	if !docstore.IsDocumentPath(path) {
		return fmt.Errorf("get document: invalid path %q", path)
	}

	query := `
		SELECT data
		FROM documents
		WHERE path = $1`

	var data []byte
	err := s.db.QueryRow(ctx, query, path).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return docstore.ErrNotFound
		}
		return fmt.Errorf("get document: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode document %s: %w", path, err)
	}
	return nil
}

func (s *Store) QueryEqual(ctx context.Context, collection, field, value string, limit int) ([]docstore.Document, error) {
	// data->>$2 compares the field as text, which is all the callers need
	// (tokens and ids). The field name is a bind parameter, never spliced
	// into the SQL.
	query := `
		SELECT path, data
		FROM documents
		WHERE collection = $1 AND data->>$2 = $3
		ORDER BY doc_id
		LIMIT $4`

	rows, err := s.db.Query(ctx, query, collection, field, value, limit)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make([]docstore.Document, 0)
	for rows.Next() {
		var (
			path string
			data []byte
		)
		if err := rows.Scan(&path, &data); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, docstore.NewDocument(path, func(dst any) error {
			return json.Unmarshal(data, dst)
		}))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

func (s *Store) Set(ctx context.Context, path string, doc any) error {
	if !docstore.IsDocumentPath(path) {
		return fmt.Errorf("set document: invalid path %q", path)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", path, err)
	}

	// Set replaces the whole document, matching Firestore's Set without
	// merge options. ON CONFLICT keeps it a single statement.
	query := `
		INSERT INTO documents (path, collection, doc_id, data, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (path) DO UPDATE
		SET data = EXCLUDED.data, updated_at = now()`

	_, err = s.db.Exec(ctx, query, path, docstore.Parent(path), docstore.LastSegment(path), data)
	if err != nil {
		return fmt.Errorf("set document: %w", err)
	}
	return nil
}
