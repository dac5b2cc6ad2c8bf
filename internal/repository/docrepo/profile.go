package docrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/lalith-99/practicedesk/internal/docstore"
	"github.com/lalith-99/practicedesk/internal/models"
)

const UserCollection = "users"

type ProfileStore struct {
	store docstore.Store
}

func NewProfileStore(store docstore.Store) *ProfileStore {
	return &ProfileStore{store: store}
}

func (s *ProfileStore) GetByID(ctx context.Context, uid string) (*models.Profile, error) {
	if !docstore.ValidID(uid) {
		return nil, fmt.Errorf("get profile: invalid uid %q", uid)
	}

	var p models.Profile
	err := s.store.Get(ctx, docstore.Join(UserCollection, uid), &p)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}
