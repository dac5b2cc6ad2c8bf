// Package docstore is the document-database contract the intake service
// writes through. Backends live in subpackages (postgres, firestore, memory).
package docstore

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when no document exists at the path.
var ErrNotFound = errors.New("document not found")

// Store is the minimal surface the service needs from a document database.
//
// Paths are slash separated and alternate collection and document ids, the
// way Firestore addresses documents: "firms/abc/tasks/123". A document path
// always has an even number of segments, a collection path an odd number.
type Store interface {
	// Get decodes the document at path into dst. Returns ErrNotFound when
	// the document does not exist.
	Get(ctx context.Context, path string, dst any) error

	// QueryEqual returns up to limit documents in collection whose field
	// equals value, ordered by document id.
	QueryEqual(ctx context.Context, collection, field, value string, limit int) ([]Document, error)

	// Set writes doc at path, replacing any existing document.
	Set(ctx context.Context, path string, doc any) error
}

// Document is one query result.
type Document struct {
	ID   string
	Path string

	decode func(dst any) error
}

// NewDocument is used by backends to build query results.
func NewDocument(path string, decode func(dst any) error) Document {
	return Document{ID: LastSegment(path), Path: path, decode: decode}
}

// DataTo decodes the document body into dst.
func (d Document) DataTo(dst any) error {
	if d.decode == nil {
		return errors.New("document has no data")
	}
	return d.decode(dst)
}

// ValidID reports whether s can be used as a single path segment.
//
// Ids reach us from request headers, so anything that could change the
// shape of a path ("a/b", "..") is refused before it is joined.
func ValidID(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	if strings.ContainsRune(s, '/') {
		return false
	}
	if strings.HasPrefix(s, "__") && strings.HasSuffix(s, "__") {
		return false // reserved by Firestore
	}
	return len(s) <= 1500
}

// Join builds a path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// Parent returns the collection path that contains the document at path.
func Parent(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return ""
	}
	return path[:i]
}

// LastSegment returns the document id of path.
func LastSegment(path string) string {
	return path[strings.LastIndexByte(path, '/')+1:]
}

// IsDocumentPath reports whether path names a document rather than a
// collection.
func IsDocumentPath(path string) bool {
	if path == "" {
		return false
	}
	parts := strings.Split(path, "/")
	if len(parts)%2 != 0 {
		return false
	}
	for _, p := range parts {
		if !ValidID(p) {
			return false
		}
	}
	return true
}
