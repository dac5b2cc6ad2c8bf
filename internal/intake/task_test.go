package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lalith-99/practicedesk/internal/jobtype"
	"github.com/lalith-99/practicedesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	firmMember  = models.Principal{UID: "user-1", FirmID: "firm-1"}
	independent = models.Principal{UID: "user-2"}
	firmWide    = models.Principal{UID: "siri", FirmID: "firm-1", Anonymous: true}
)

func TestCreateTask_Validation(t *testing.T) {
	ctx := context.Background()

	for _, client := range []*string{nil, strPtr(""), strPtr("   ")} {
		env := newTestEnv(t, AuthModePrincipal)
		_, err := env.svc.CreateTask(ctx, firmMember, TaskInput{Client: client, JobType: strPtr("BAS")})

		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Equal(t, "Missing or empty client field", PublicMessage(err))
		env.tasks.AssertNumberOfCalls(t, "Create", 0)
	}
}

func TestCreateTask_Routing(t *testing.T) {
	ctx := context.Background()

	t.Run("Should write firm members into the firm collection", func(t *testing.T) {
		env := newTestEnv(t, AuthModePrincipal)
		env.tasks.On("Create", mock.Anything, "firms/firm-1/tasks/task-1", mock.Anything).Return(nil).Once()

		out, err := env.svc.CreateTask(ctx, firmMember, TaskInput{Client: strPtr("Acme Pty Ltd")})
		require.NoError(t, err)
		assert.Equal(t, "task-1", out.ID)
		assert.Equal(t, "firms/firm-1/tasks/task-1", out.Path)
		assert.Equal(t, ScopeFirm, out.Scope)
		env.assertExpectations(t)
	})

	t.Run("Should write independent users into their own collection", func(t *testing.T) {
		env := newTestEnv(t, AuthModePrincipal)
		env.tasks.On("Create", mock.Anything, "users/user-2/tasks/task-1", mock.Anything).Return(nil).Once()

		out, err := env.svc.CreateTask(ctx, independent, TaskInput{Client: strPtr("Jane Smith")})
		require.NoError(t, err)
		assert.Equal(t, ScopeUser, out.Scope)
		env.assertExpectations(t)
	})

	t.Run("Should refuse a principal whose firm id is not a path segment", func(t *testing.T) {
		env := newTestEnv(t, AuthModePrincipal)
		_, err := env.svc.CreateTask(ctx, models.Principal{UID: "u", FirmID: "a/b"}, TaskInput{Client: strPtr("X")})
		assert.Equal(t, KindInternal, KindOf(err))
		env.tasks.AssertNumberOfCalls(t, "Create", 0)
	})
}

func TestCreateTask_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("Should build the full default record for a firm member", func(t *testing.T) {
		env := newTestEnv(t, AuthModePrincipal)
		var got *models.Task
		env.tasks.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { got = args.Get(2).(*models.Task) }).
			Return(nil).Once()

		_, err := env.svc.CreateTask(ctx, firmMember, TaskInput{
			Client:  strPtr("  Acme Pty Ltd "),
			JobType: strPtr("itr"),
			DueDate: strPtr("30/06/2025"),
			Notes:   strPtr("  needs receipts "),
		})
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, "Acme Pty Ltd", got.Client)
		assert.Equal(t, string(jobtype.TaxReturn), got.JobType)
		assert.Equal(t, "2025-06-30", got.DueDate)
		assert.Equal(t, "needs receipts", got.Description)
		assert.Equal(t, StatusNotStarted, got.Status)
		assert.Equal(t, DefaultPriority, got.Priority)
		assert.True(t, got.Billable)
		assert.False(t, got.Completed)
		assert.Zero(t, got.Seconds)
		assert.Empty(t, got.Notes)
		assert.NotNil(t, got.Items)
		assert.NotNil(t, got.Schedules)
		assert.NotNil(t, got.DependsOn)
		assert.Equal(t, []models.TeamMember{{UID: "user-1", Role: RolePreparer}}, got.Team)
		assert.Equal(t, []string{"user-1"}, got.TeamMemberUIDs)
		require.NotNil(t, got.AssignedTo)
		assert.Equal(t, "user-1", *got.AssignedTo)
		assert.Equal(t, "user-1", got.CreatedBy)
		assert.Equal(t, "2024-12-01T22:30:15.123Z", got.CreatedAt)
		assert.Nil(t, got.ArchivedAt)
		assert.False(t, got.IsRecurring)
		assert.Nil(t, got.RecurrencePattern)
		assert.Nil(t, got.NextOccurrence)
		assert.Nil(t, got.ParentTaskID)
		assert.Zero(t, got.SortOrder)
		assert.Equal(t, SourceSiri, got.Source)
	})

	t.Run("Should leave firm-wide tasks unassigned", func(t *testing.T) {
		env := newTestEnv(t, AuthModeFirm)
		var got *models.Task
		env.tasks.On("Create", mock.Anything, "firms/firm-1/tasks/task-1", mock.Anything).
			Run(func(args mock.Arguments) { got = args.Get(2).(*models.Task) }).
			Return(nil).Once()

		_, err := env.svc.CreateTask(ctx, firmWide, TaskInput{Client: strPtr("Acme")})
		require.NoError(t, err)
		assert.Empty(t, got.Team)
		assert.NotNil(t, got.Team)
		assert.Empty(t, got.TeamMemberUIDs)
		assert.Nil(t, got.AssignedTo)
		assert.Equal(t, "siri", got.CreatedBy)
	})

	t.Run("Should keep a dictated priority", func(t *testing.T) {
		env := newTestEnv(t, AuthModePrincipal)
		var got *models.Task
		env.tasks.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { got = args.Get(2).(*models.Task) }).
			Return(nil).Once()

		out, err := env.svc.CreateTask(ctx, firmMember, TaskInput{Client: strPtr("Acme"), Priority: strPtr("High")})
		require.NoError(t, err)
		assert.Equal(t, "High", got.Priority)
		assert.Equal(t, "High", out.Priority)
	})
}

func TestCreateTask_UnmatchedJobType(t *testing.T) {
	env := newTestEnv(t, AuthModePrincipal)
	var got *models.Task
	env.tasks.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(2).(*models.Task) }).
		Return(nil).Once()

	out, err := env.svc.CreateTask(context.Background(), firmMember, TaskInput{
		Client:  strPtr("Acme"),
		JobType: strPtr("xyz123"),
		Notes:   strPtr("call first"),
	})
	require.NoError(t, err)

	assert.Equal(t, jobtype.Other, out.JobType)
	assert.False(t, out.Matched)
	assert.Equal(t, "xyz123", out.RawJobType)
	assert.Equal(t, `Job type: "xyz123" | call first`, got.Description)
	assert.Equal(t, `Task added: Other for Acme. Due: No due date. (Job type "xyz123" mapped to Other)`, out.Summary)
}

func TestCreateTask_Summary(t *testing.T) {
	tests := []struct {
		name    string
		in      TaskInput
		summary string
		desc    string
	}{
		{
			name:    "matched with due date",
			in:      TaskInput{Client: strPtr("Acme"), JobType: strPtr("BAS"), DueDate: strPtr("2025-07-28")},
			summary: "Task added: BAS for Acme. Due: 2025-07-28.",
		},
		{
			name:    "no job type is Other without annotation",
			in:      TaskInput{Client: strPtr("Acme")},
			summary: "Task added: Other for Acme. Due: No due date.",
		},
		{
			name:    "explicit other is a match",
			in:      TaskInput{Client: strPtr("Acme"), JobType: strPtr("other")},
			summary: "Task added: Other for Acme. Due: No due date.",
		},
		{
			name:    "unparseable date is dropped",
			in:      TaskInput{Client: strPtr("Acme"), JobType: strPtr("payroll"), DueDate: strPtr("next tuesday")},
			summary: "Task added: Payroll for Acme. Due: No due date.",
		},
		{
			name:    "dictated quotes are kept verbatim",
			in:      TaskInput{Client: strPtr("Acme"), JobType: strPtr(`the "big" one`)},
			summary: `Task added: Other for Acme. Due: No due date. (Job type "the "big" one" mapped to Other)`,
			desc:    `Job type: "the "big" one"`,
		},
		{
			name:    "notes only",
			in:      TaskInput{Client: strPtr("Acme"), JobType: strPtr("bookkeeping"), Notes: strPtr("Q3 reconciliation")},
			summary: "Task added: Bookkeeping for Acme. Due: No due date.",
			desc:    "Q3 reconciliation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, AuthModePrincipal)
			var got *models.Task
			env.tasks.On("Create", mock.Anything, mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) { got = args.Get(2).(*models.Task) }).
				Return(nil).Once()

			out, err := env.svc.CreateTask(context.Background(), firmMember, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.summary, out.Summary)
			assert.Equal(t, tt.desc, got.Description)
		})
	}
}

func TestCreateTask_NoDeduplication(t *testing.T) {
	env := newTestEnv(t, AuthModePrincipal)
	env.tasks.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	in := TaskInput{Client: strPtr("Acme"), JobType: strPtr("BAS")}
	first, err := env.svc.CreateTask(context.Background(), firmMember, in)
	require.NoError(t, err)
	second, err := env.svc.CreateTask(context.Background(), firmMember, in)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Path, second.Path)
	env.tasks.AssertNumberOfCalls(t, "Create", 2)
}

func TestCreateTask_DefaultIDsAreUnique(t *testing.T) {
	svc := NewService(Repositories{}, Options{}, zap.NewNop())
	seen := map[string]bool{}
	for range 100 {
		id := svc.newTaskID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestCreateTask_StoreFailure(t *testing.T) {
	env := newTestEnv(t, AuthModePrincipal)
	boom := errors.New(`insert into documents: relation "documents" does not exist`)
	env.tasks.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(boom).Once()

	out, err := env.svc.CreateTask(context.Background(), firmMember, TaskInput{Client: strPtr("Acme")})
	assert.Nil(t, out)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "Internal error", PublicMessage(err))
}

func TestCreateTask_WriteOutlivesRequest(t *testing.T) {
	env := newTestEnv(t, AuthModePrincipal)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var writeErr error
	var hasDeadline bool
	env.tasks.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			wctx := args.Get(0).(context.Context)
			writeErr = wctx.Err()
			_, hasDeadline = wctx.Deadline()
		}).
		Return(nil).Once()

	_, err := env.svc.CreateTask(ctx, firmMember, TaskInput{Client: strPtr("Acme")})
	require.NoError(t, err)
	assert.NoError(t, writeErr, "write context must not inherit the request's cancellation")
	assert.True(t, hasDeadline, "write context must be bounded by the write timeout")
}

func TestCreateTask_WriteTimeout(t *testing.T) {
	env := newTestEnv(t, AuthModePrincipal)
	env.svc.writeTimeout = 10 * time.Millisecond

	env.tasks.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(func(ctx context.Context, _ string, _ *models.Task) error {
			<-ctx.Done()
			return ctx.Err()
		}).Once()

	_, err := env.svc.CreateTask(context.Background(), firmMember, TaskInput{Client: strPtr("Acme")})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
