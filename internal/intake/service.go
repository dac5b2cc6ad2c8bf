// Package intake is the Siri shortcut pipeline: resolve the token to a
// principal, normalise what was dictated, build the task and write it
// where the principal's tasks live.
package intake

import (
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/practicedesk/internal/observ"
	"github.com/lalith-99/practicedesk/internal/repository"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// AuthMode selects how a token is resolved.
//
// The practice app has shipped two token models and they cannot be merged
// safely, so the deployment picks exactly one:
//   - AuthModePrincipal: the token belongs to a user; the user's profile
//     says which firm, if any, they are in.
//   - AuthModeFirm: the token is a firm-wide secret stored on the firm
//     document. Kept for shortcuts set up before per-user tokens.
type AuthMode string

const (
	AuthModePrincipal AuthMode = "principal"
	AuthModeFirm      AuthMode = "firm"
)

const defaultWriteTimeout = 10 * time.Second

// Repositories bundles the data access the service needs.
type Repositories struct {
	Credentials repository.CredentialRepository
	Profiles    repository.ProfileRepository
	Firms       repository.FirmRepository
	Tasks       repository.TaskRepository
	Notes       repository.NoteRepository
}

type Options struct {
	AuthMode AuthMode
	// WriteTimeout bounds a task or note write. The write runs detached
	// from the request context, so this is its only deadline.
	WriteTimeout time.Duration
	Metrics      *observ.Metrics
}

// Service keeps no per-request state and is safe for concurrent use.
type Service struct {
	repos        Repositories
	authMode     AuthMode
	writeTimeout time.Duration
	metrics      *observ.Metrics
	logger       *zap.Logger

	now       func() time.Time
	newTaskID func() string
	newNoteID func() string
}

func NewService(repos Repositories, opts Options, logger *zap.Logger) *Service {
	if opts.AuthMode == "" {
		opts.AuthMode = AuthModePrincipal
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	return &Service{
		repos:        repos,
		authMode:     opts.AuthMode,
		writeTimeout: opts.WriteTimeout,
		metrics:      opts.Metrics,
		logger:       logger,
		now:          time.Now,
		// KSUIDs are a timestamp plus 128 random bits: sortable by creation
		// time, and collisions are negligible without any registry.
		newTaskID: func() string { return ksuid.New().String() },
		newNoteID: uuid.NewString,
	}
}

// timestamp formats t like JavaScript's Date.toISOString, which is what
// the web app writes for createdAt.
func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
