package docrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/lalith-99/practicedesk/internal/docstore"
	"github.com/lalith-99/practicedesk/internal/models"
)

// CredentialCollection holds one document per Siri token, keyed by the
// token itself so resolution is a single point read.
const CredentialCollection = "siriTokens"

type CredentialStore struct {
	store docstore.Store
}

func NewCredentialStore(store docstore.Store) *CredentialStore {
	return &CredentialStore{store: store}
}

func (s *CredentialStore) GetByToken(ctx context.Context, token string) (*models.Credential, error) {
	// A token that is not a valid path segment cannot have been issued.
	// Refusing it here also stops "../users/x" style path games.
	if !docstore.ValidID(token) {
		return nil, nil
	}

	var cred models.Credential
	err := s.store.Get(ctx, docstore.Join(CredentialCollection, token), &cred)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return &cred, nil
}

// Create stores a credential for token. Only the issue-token tool calls it;
// the intake endpoint never writes credentials.
func (s *CredentialStore) Create(ctx context.Context, token string, cred *models.Credential) error {
	if !docstore.ValidID(token) {
		return fmt.Errorf("create credential: invalid token")
	}
	if err := s.store.Set(ctx, docstore.Join(CredentialCollection, token), cred); err != nil {
		return fmt.Errorf("create credential: %w", err)
	}
	return nil
}
