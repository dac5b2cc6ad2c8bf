package intake

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lalith-99/practicedesk/internal/models"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockCredentials struct{ mock.Mock }

func (m *MockCredentials) GetByToken(ctx context.Context, token string) (*models.Credential, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

type MockProfiles struct{ mock.Mock }

func (m *MockProfiles) GetByID(ctx context.Context, uid string) (*models.Profile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

type MockFirms struct{ mock.Mock }

func (m *MockFirms) GetBySiriToken(ctx context.Context, token string) (*models.Firm, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Firm), args.Error(1)
}

type MockTasks struct{ mock.Mock }

func (m *MockTasks) Create(ctx context.Context, path string, task *models.Task) error {
	args := m.Called(ctx, path, task)
	if fn, ok := args.Get(0).(func(context.Context, string, *models.Task) error); ok {
		return fn(ctx, path, task)
	}
	return args.Error(0)
}

type MockNotes struct{ mock.Mock }

func (m *MockNotes) Create(ctx context.Context, path string, note *models.Note) error {
	return m.Called(ctx, path, note).Error(0)
}

type testEnv struct {
	svc         *Service
	credentials *MockCredentials
	profiles    *MockProfiles
	firms       *MockFirms
	tasks       *MockTasks
	notes       *MockNotes
}

var fixedNow = time.Date(2024, 12, 1, 22, 30, 15, 123_000_000, time.UTC)

func newTestEnv(t *testing.T, mode AuthMode) *testEnv {
	t.Helper()
	env := &testEnv{
		credentials: &MockCredentials{},
		profiles:    &MockProfiles{},
		firms:       &MockFirms{},
		tasks:       &MockTasks{},
		notes:       &MockNotes{},
	}
	env.svc = NewService(Repositories{
		Credentials: env.credentials,
		Profiles:    env.profiles,
		Firms:       env.firms,
		Tasks:       env.tasks,
		Notes:       env.notes,
	}, Options{AuthMode: mode, WriteTimeout: time.Second}, zap.NewNop())
	env.svc.now = func() time.Time { return fixedNow }

	seq := 0
	env.svc.newTaskID = func() string {
		seq++
		return fmt.Sprintf("task-%d", seq)
	}
	env.svc.newNoteID = func() string { return "note-1" }
	return env
}

func (e *testEnv) assertExpectations(t *testing.T) {
	t.Helper()
	e.credentials.AssertExpectations(t)
	e.profiles.AssertExpectations(t)
	e.firms.AssertExpectations(t)
	e.tasks.AssertExpectations(t)
	e.notes.AssertExpectations(t)
}

func strPtr(s string) *string { return &s }
