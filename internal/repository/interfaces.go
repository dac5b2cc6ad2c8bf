package repository

import (
	"context"

	"github.com/lalith-99/practicedesk/internal/models"
)

// Lookups return (nil, nil) when the record does not exist.
//
// Why not an error?
//   - "No such token" is an expected answer on the auth path, not a
//     failure. The caller turns it into a 401; only real store failures
//     come back as errors and become a 500.

// CredentialRepository resolves Siri tokens.
type CredentialRepository interface {
	// GetByToken returns the credential stored for token.
	GetByToken(ctx context.Context, token string) (*models.Credential, error)
}

// ProfileRepository reads user profiles.
type ProfileRepository interface {
	// GetByID returns the profile of the user with the given uid.
	GetByID(ctx context.Context, uid string) (*models.Profile, error)
}

// FirmRepository reads firm (tenant) documents.
type FirmRepository interface {
	// GetBySiriToken finds the firm whose siriToken equals token. Only used
	// by the legacy firm-token auth mode.
	GetBySiriToken(ctx context.Context, token string) (*models.Firm, error)
}

// TaskRepository persists new tasks.
//
// Why does the caller pass the full path?
//   - Where a task goes (firm collection or the user's own) is a business
//     rule of the intake service. The repository only writes where told.
type TaskRepository interface {
	Create(ctx context.Context, path string, task *models.Task) error
}

// NoteRepository persists firm sticky notes.
type NoteRepository interface {
	Create(ctx context.Context, path string, note *models.Note) error
}
