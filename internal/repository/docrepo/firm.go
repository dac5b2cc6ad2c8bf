package docrepo

import (
	"context"
	"fmt"

	"github.com/lalith-99/practicedesk/internal/docstore"
	"github.com/lalith-99/practicedesk/internal/models"
)

const FirmCollection = "firms"

type FirmStore struct {
	store docstore.Store
}

func NewFirmStore(store docstore.Store) *FirmStore {
	return &FirmStore{store: store}
}

func (s *FirmStore) GetBySiriToken(ctx context.Context, token string) (*models.Firm, error) {
	docs, err := s.store.QueryEqual(ctx, FirmCollection, "siriToken", token, 1)
	if err != nil {
		return nil, fmt.Errorf("find firm by token: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	var firm models.Firm
	if err := docs[0].DataTo(&firm); err != nil {
		return nil, fmt.Errorf("decode firm %s: %w", docs[0].ID, err)
	}
	firm.ID = docs[0].ID
	return &firm, nil
}
