package docrepo

import (
	"context"
	"fmt"

	"github.com/lalith-99/practicedesk/internal/docstore"
	"github.com/lalith-99/practicedesk/internal/models"
)

type TaskStore struct {
	store docstore.Store
}

func NewTaskStore(store docstore.Store) *TaskStore {
	return &TaskStore{store: store}
}

func (s *TaskStore) Create(ctx context.Context, path string, task *models.Task) error {
	if err := s.store.Set(ctx, path, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

type NoteStore struct {
	store docstore.Store
}

func NewNoteStore(store docstore.Store) *NoteStore {
	return &NoteStore{store: store}
}

func (s *NoteStore) Create(ctx context.Context, path string, note *models.Note) error {
	if err := s.store.Set(ctx, path, note); err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}
