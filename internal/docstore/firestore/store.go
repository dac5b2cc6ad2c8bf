// Package firestore backs docstore.Store with Cloud Firestore, the database
// the practice web app itself runs on.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/lalith-99/practicedesk/internal/docstore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Store struct {
	client *firestore.Client
}

var _ docstore.Store = (*Store)(nil)

// New opens a Firestore client. Credentials come from the environment
// (GOOGLE_APPLICATION_CREDENTIALS or the metadata server), as with any
// Google client library.
func New(ctx context.Context, projectID string) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Health reads a document that never exists. NotFound proves the client
// reached Firestore and is authorised.
func (s *Store) Health(ctx context.Context) error {
	_, err := s.client.Doc("_health/probe").Get(ctx)
	if err == nil || status.Code(err) == codes.NotFound {
		return nil
	}
	return fmt.Errorf("firestore health: %w", err)
}

func (s *Store) Get(ctx context.Context, path string, dst any) error {
	ref, err := s.doc(path)
	if err != nil {
		return err
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return docstore.ErrNotFound
		}
		return fmt.Errorf("get document: %w", err)
	}

	if err := snap.DataTo(dst); err != nil {
		return fmt.Errorf("decode document %s: %w", path, err)
	}
	return nil
}

func (s *Store) QueryEqual(ctx context.Context, collection, field, value string, limit int) ([]docstore.Document, error) {
	if !isCollectionPath(collection) {
		return nil, fmt.Errorf("query documents: invalid collection %q", collection)
	}
	col := s.client.Collection(collection)
	if col == nil {
		return nil, fmt.Errorf("query documents: invalid collection %q", collection)
	}

	snaps, err := col.Where(field, "==", value).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	docs := make([]docstore.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, docstore.NewDocument(relativePath(collection, snap.Ref.ID), snap.DataTo))
	}
	return docs, nil
}

func (s *Store) Set(ctx context.Context, path string, doc any) error {
	ref, err := s.doc(path)
	if err != nil {
		return err
	}
	if _, err := ref.Set(ctx, doc); err != nil {
		return fmt.Errorf("set document: %w", err)
	}
	return nil
}

// doc resolves a document reference. client.Doc returns nil for paths with
// an odd number of segments, which would otherwise panic on use.
func (s *Store) doc(path string) (*firestore.DocumentRef, error) {
	if !docstore.IsDocumentPath(path) {
		return nil, fmt.Errorf("invalid document path %q", path)
	}
	ref := s.client.Doc(path)
	if ref == nil {
		return nil, fmt.Errorf("invalid document path %q", path)
	}
	return ref, nil
}

// isCollectionPath reports whether path names a collection: adding one id
// to it must give a document path.
func isCollectionPath(path string) bool {
	return path != "" && docstore.IsDocumentPath(docstore.Join(path, "id"))
}

// relativePath rebuilds the store-relative path. snap.Ref.Path is the fully
// qualified "projects/.../documents/..." name, which callers never see.
func relativePath(collection, id string) string {
	return docstore.Join(collection, id)
}
