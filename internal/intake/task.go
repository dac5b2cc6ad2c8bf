package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lalith-99/practicedesk/internal/docstore"
	"github.com/lalith-99/practicedesk/internal/duedate"
	"github.com/lalith-99/practicedesk/internal/jobtype"
	"github.com/lalith-99/practicedesk/internal/models"
	"go.uber.org/zap"
)

const (
	StatusNotStarted = "Not Started"
	DefaultPriority  = "Medium"
	RolePreparer     = "Preparer"
	SourceSiri       = "siri"

	// Storage scopes, also used as the metrics label.
	ScopeFirm = "firm"
	ScopeUser = "user"
)

// TaskInput is what the shortcut dictated. Every field is optional at the
// type level; CreateTask decides which ones are required.
type TaskInput struct {
	Client   *string
	JobType  *string
	DueDate  *string
	Priority *string
	Notes    *string
}

// TaskOutcome reports a created task back to the shortcut.
type TaskOutcome struct {
	ID      string
	Path    string
	Scope   string
	Summary string

	Client     string
	JobType    jobtype.Type
	RawJobType string
	Matched    bool
	DueDate    string
	Priority   string
}

// CreateTask validates and normalises in, then writes one task for p.
//
// Nothing is deduplicated: the same sentence said twice is two tasks, each
// attributable by its own id and timestamp.
func (s *Service) CreateTask(ctx context.Context, p models.Principal, in TaskInput) (*TaskOutcome, error) {
	client := strings.TrimSpace(deref(in.Client))
	if client == "" {
		return nil, validationError("Missing or empty client field")
	}

	rawJobType := strings.TrimSpace(deref(in.JobType))
	jt, matched := jobtype.Normalize(rawJobType)
	due := duedate.Normalize(deref(in.DueDate))

	priority := strings.TrimSpace(deref(in.Priority))
	if priority == "" {
		priority = DefaultPriority
	}
	notes := strings.TrimSpace(deref(in.Notes))

	id := s.newTaskID()
	path, scope, err := taskPath(p, id)
	if err != nil {
		return nil, internalError("route task", err)
	}

	task := newTask(p, s.now())
	task.Client = client
	task.JobType = string(jt)
	task.DueDate = due
	task.Priority = priority
	task.Description = describe(rawJobType, matched, notes)

	if err := s.write(ctx, func(ctx context.Context) error {
		return s.repos.Tasks.Create(ctx, path, task)
	}); err != nil {
		return nil, internalError("create task", err)
	}

	s.metrics.TaskCreated(scope, string(jt), matched)
	s.logger.Info("task created",
		zap.String("task_id", id),
		zap.String("scope", scope),
		zap.String("job_type", string(jt)),
		zap.Bool("job_type_matched", matched),
	)

	return &TaskOutcome{
		ID:         id,
		Path:       path,
		Scope:      scope,
		Summary:    summarize(client, jt, rawJobType, matched, due),
		Client:     client,
		JobType:    jt,
		RawJobType: rawJobType,
		Matched:    matched,
		DueDate:    due,
		Priority:   priority,
	}, nil
}

// taskPath is the routing rule: firm members write into the firm's shared
// task collection, independent users into their own. It is evaluated once
// per task.
func taskPath(p models.Principal, id string) (path, scope string, err error) {
	if !docstore.ValidID(id) {
		return "", "", fmt.Errorf("invalid task id %q", id)
	}
	if !p.Independent() {
		if !docstore.ValidID(p.FirmID) {
			return "", "", fmt.Errorf("invalid firm id %q", p.FirmID)
		}
		return docstore.Join("firms", p.FirmID, "tasks", id), ScopeFirm, nil
	}
	if !docstore.ValidID(p.UID) {
		return "", "", fmt.Errorf("invalid uid %q", p.UID)
	}
	return docstore.Join("users", p.UID, "tasks", id), ScopeUser, nil
}

// newTask returns a task with every field the web app expects already set.
func newTask(p models.Principal, now time.Time) *models.Task {
	t := &models.Task{
		Status:         StatusNotStarted,
		Priority:       DefaultPriority,
		Billable:       true,
		Items:          []map[string]any{},
		Schedules:      []map[string]any{},
		Team:           []models.TeamMember{},
		TeamMemberUIDs: []string{},
		DependsOn:      []string{},
		CreatedBy:      p.UID,
		CreatedAt:      timestamp(now),
		Source:         SourceSiri,
	}

	// A firm-wide token has no person behind it to assign the work to.
	if !p.Anonymous {
		uid := p.UID
		t.Team = []models.TeamMember{{UID: uid, Role: RolePreparer}}
		t.TeamMemberUIDs = []string{uid}
		t.AssignedTo = &uid
	}
	return t
}

// describe keeps the dictated job type when it did not map to a category,
// so whoever triages "Other" tasks can see what was actually said.
func describe(rawJobType string, matched bool, notes string) string {
	parts := make([]string, 0, 2)
	if rawJobType != "" && !matched {
		parts = append(parts, fmt.Sprintf(`Job type: "%s"`, rawJobType))
	}
	if notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, " | ")
}

// summarize is the sentence Siri reads back to the user.
func summarize(client string, jt jobtype.Type, rawJobType string, matched bool, due string) string {
	dueText := due
	if dueText == "" {
		dueText = "No due date"
	}
	out := fmt.Sprintf("Task added: %s for %s. Due: %s.", jt, client, dueText)
	if rawJobType != "" && !matched {
		out += fmt.Sprintf(` (Job type "%s" mapped to Other)`, rawJobType)
	}
	return out
}

// write runs fn on a context that survives the caller hanging up. Once a
// write is issued it is allowed to finish, bounded by the write timeout,
// so a dropped Siri connection cannot leave the outcome unknown.
func (s *Service) write(ctx context.Context, fn func(context.Context) error) error {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()
	return fn(wctx)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
