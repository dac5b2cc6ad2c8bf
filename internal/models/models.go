package models

// Every document type carries both json and firestore tags with the SAME
// field names.
//
// Why both?
//   - The Postgres document store marshals with encoding/json into a JSONB
//     column. The Firestore store uses the firestore tags.
//   - The practice web app reads these documents directly, so the field
//     names are a contract. Keeping the two tag sets identical means a query
//     like "siriToken == x" works the same way on either backend.

// Credential is the record behind a Siri token, stored at siriTokens/{token}.
//
// It is created out of band (cmd/issue-token or the web app settings page),
// never by the intake endpoint. A credential without a UID is treated as
// invalid even though the document exists.
type Credential struct {
	UID       string `json:"uid" firestore:"uid"`
	FirmID    string `json:"firmId,omitempty" firestore:"firmId,omitempty"`
	Label     string `json:"label,omitempty" firestore:"label,omitempty"`
	CreatedAt string `json:"createdAt,omitempty" firestore:"createdAt,omitempty"`
}

// Profile is a user document at users/{uid}.
//
// FirmID is empty for independent users (sole practitioners who never
// joined a firm). That is a normal state, not a data error.
type Profile struct {
	FirmID      string `json:"firmId,omitempty" firestore:"firmId,omitempty"`
	DisplayName string `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	Email       string `json:"email,omitempty" firestore:"email,omitempty"`
}

// Firm is the tenant document at firms/{firmId}.
//
// SiriToken is only consulted in the legacy firm-token auth mode, where the
// token identifies the whole firm rather than a user.
type Firm struct {
	ID        string `json:"-" firestore:"-"`
	Name      string `json:"name,omitempty" firestore:"name,omitempty"`
	SiriToken string `json:"siriToken,omitempty" firestore:"siriToken,omitempty"`
}

// Principal is who a request acts for, resolved from the token.
//
// Anonymous is set when the token named a whole firm (legacy firm-token
// mode). There is no real user behind it, so UID holds the creator tag
// "siri" and tasks get no team or assignee.
type Principal struct {
	UID       string
	FirmID    string
	Anonymous bool
}

// Independent reports whether the principal has no firm. Independent users
// keep their tasks under their own user document.
func (p Principal) Independent() bool {
	return p.FirmID == ""
}

// TeamMember is one entry in a task's team list.
type TeamMember struct {
	UID  string `json:"uid" firestore:"uid"`
	Role string `json:"role" firestore:"role"`
}

// Task is the job document the practice app lists and works on.
//
// Why so many fields for a task created from one sentence?
//   - The web app reads tasks without null checks on most fields. A task
//     missing "items" or "team" breaks its task board, so every field is
//     written with a concrete default at creation.
//   - Nullable fields are pointers so they serialise as null, not "".
//   - Slices must be non-nil so they serialise as [] rather than null.
type Task struct {
	Client            string           `json:"client" firestore:"client"`
	Description       string           `json:"description" firestore:"description"`
	JobType           string           `json:"jobType" firestore:"jobType"`
	Status            string           `json:"status" firestore:"status"`
	DueDate           string           `json:"dueDate" firestore:"dueDate"`
	Priority          string           `json:"priority" firestore:"priority"`
	Billable          bool             `json:"billable" firestore:"billable"`
	Completed         bool             `json:"completed" firestore:"completed"`
	Seconds           int64            `json:"seconds" firestore:"seconds"`
	Notes             string           `json:"notes" firestore:"notes"`
	Items             []map[string]any `json:"items" firestore:"items"`
	Schedules         []map[string]any `json:"schedules" firestore:"schedules"`
	Team              []TeamMember     `json:"team" firestore:"team"`
	TeamMemberUIDs    []string         `json:"teamMemberUids" firestore:"teamMemberUids"`
	AssignedTo        *string          `json:"assignedTo" firestore:"assignedTo"`
	CreatedBy         string           `json:"createdBy" firestore:"createdBy"`
	CreatedAt         string           `json:"createdAt" firestore:"createdAt"`
	ArchivedAt        *string          `json:"archivedAt" firestore:"archivedAt"`
	IsRecurring       bool             `json:"isRecurring" firestore:"isRecurring"`
	RecurrencePattern *string          `json:"recurrencePattern" firestore:"recurrencePattern"`
	NextOccurrence    *string          `json:"nextOccurrence" firestore:"nextOccurrence"`
	ParentTaskID      *string          `json:"parentTaskId" firestore:"parentTaskId"`
	DependsOn         []string         `json:"dependsOn" firestore:"dependsOn"`
	SortOrder         int              `json:"sortOrder" firestore:"sortOrder"`
	Source            string           `json:"source" firestore:"source"`
}

// Note is a sticky note on the firm dashboard, at firms/{firmId}/notes/{id}.
type Note struct {
	Text      string `json:"text" firestore:"text"`
	CreatedBy string `json:"createdBy" firestore:"createdBy"`
	CreatedAt string `json:"createdAt" firestore:"createdAt"`
}
