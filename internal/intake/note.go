package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/lalith-99/practicedesk/internal/docstore"
	"github.com/lalith-99/practicedesk/internal/models"
	"go.uber.org/zap"
)

// NoteOutcome reports a created firm note.
type NoteOutcome struct {
	ID   string
	Path string
}

// AddNote pins a sticky note on the firm dashboard. Notes only exist at
// firm level, so independent users are refused.
func (s *Service) AddNote(ctx context.Context, p models.Principal, text string) (*NoteOutcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationError("Missing or empty text field")
	}
	if p.Independent() {
		return nil, forbidden("Notes require a firm account")
	}
	if !docstore.ValidID(p.FirmID) {
		return nil, internalError("route note", fmt.Errorf("invalid firm id %q", p.FirmID))
	}

	id := s.newNoteID()
	path := docstore.Join("firms", p.FirmID, "notes", id)
	note := &models.Note{
		Text:      text,
		CreatedBy: p.UID,
		CreatedAt: timestamp(s.now()),
	}

	if err := s.write(ctx, func(ctx context.Context) error {
		return s.repos.Notes.Create(ctx, path, note)
	}); err != nil {
		return nil, internalError("create note", err)
	}

	s.metrics.NoteCreated()
	s.logger.Info("note created", zap.String("note_id", id), zap.String("firm_id", p.FirmID))

	return &NoteOutcome{ID: id, Path: path}, nil
}
