// Package memory is an in-process docstore.Store. It backs STORE_BACKEND=memory
// for local runs and the handler tests; nothing survives a restart.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/lalith-99/practicedesk/internal/docstore"
)

type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

var _ docstore.Store = (*Store)(nil)

func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, path string, dst any) error {
	s.mu.RLock()
	data, ok := s.docs[path]
	s.mu.RUnlock()
	if !ok {
		return docstore.ErrNotFound
	}
	return json.Unmarshal(data, dst)
}

func (s *Store) QueryEqual(_ context.Context, collection, field, value string, limit int) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0)
	for p, data := range s.docs {
		if docstore.Parent(p) != collection {
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", p, err)
		}
		if v, ok := fields[field].(string); ok && v == value {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}

	docs := make([]docstore.Document, 0, len(paths))
	for _, p := range paths {
		data := s.docs[p]
		docs = append(docs, docstore.NewDocument(p, func(dst any) error {
			return json.Unmarshal(data, dst)
		}))
	}
	return docs, nil
}

func (s *Store) Set(_ context.Context, path string, doc any) error {
	if !docstore.IsDocumentPath(path) {
		return fmt.Errorf("set document: invalid path %q", path)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", path, err)
	}

	s.mu.Lock()
	s.docs[path] = data
	s.mu.Unlock()
	return nil
}

// Paths lists stored document paths under prefix, sorted. Used by tests and
// debugging; not part of docstore.Store.
func (s *Store) Paths(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0)
	for p := range s.docs {
		if len(p) >= len(prefix) && p[:len(prefix)] == prefix {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
