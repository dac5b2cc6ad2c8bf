package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/practicedesk/internal/intake"
	"github.com/lalith-99/practicedesk/internal/middleware"
	"github.com/lalith-99/practicedesk/internal/models"
	"go.uber.org/zap"
)

const (
	ActionAddTask = "addTask"
	ActionAddNote = "addNote"
)

// maxBodyBytes caps what is read before decoding. The binding max tags
// only run after the whole body is decoded.
const maxBodyBytes = 64 << 10

// IntakeService is the part of *intake.Service the handler calls.
type IntakeService interface {
	CreateTask(ctx context.Context, p models.Principal, in intake.TaskInput) (*intake.TaskOutcome, error)
	AddNote(ctx context.Context, p models.Principal, text string) (*intake.NoteOutcome, error)
}

// IntakeHandler serves the Siri shortcut endpoint.
type IntakeHandler struct {
	svc    IntakeService
	logger *zap.Logger
}

func NewIntakeHandler(svc IntakeService, logger *zap.Logger) *IntakeHandler {
	return &IntakeHandler{svc: svc, logger: logger}
}

// intakeRequest is the JSON body a shortcut sends.
//
// Why pointers?
//   - Shortcuts send "" for a dictation prompt the user skipped and omit
//     the key entirely in older versions. Both mean "not given", and the
//     service treats nil and blank the same way. Pointers keep that
//     decision in one place instead of here.
//
// The max lengths keep one dictation from writing a megabyte document.
type intakeRequest struct {
	Action   *string `json:"action" binding:"omitempty,max=32"`
	Client   *string `json:"client" binding:"omitempty,max=200"`
	JobType  *string `json:"jobType" binding:"omitempty,max=100"`
	DueDate  *string `json:"dueDate" binding:"omitempty,max=32"`
	Priority *string `json:"priority" binding:"omitempty,max=32"`
	Notes    *string `json:"notes" binding:"omitempty,max=4000"`
	Text     *string `json:"text" binding:"omitempty,max=4000"`
}

// Handle serves POST /v1/siri/tasks and the legacy POST /addTask.
//
// The principal was resolved by middleware.SiriToken; the body's action
// picks between creating a task (the default) and pinning a firm note.
func (h *IntakeHandler) Handle(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		// Routing bug: the route was registered without SiriToken.
		h.logger.Error("intake route reached without a principal")
		middleware.Abort(c, http.StatusInternalServerError, "Internal error")
		return
	}

	// An empty body is an empty request: it fails validation on the
	// missing client like any other request without one.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.Abort(c, http.StatusBadRequest, "Request body too large")
			return
		}
		middleware.Abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	action := ActionAddTask
	if req.Action != nil && *req.Action != "" {
		action = *req.Action
	}

	switch action {
	case ActionAddTask:
		h.createTask(c, principal, req)
	case ActionAddNote:
		h.addNote(c, principal, req)
	default:
		middleware.Abort(c, http.StatusBadRequest, `Invalid action. Use "addTask" or "addNote".`)
	}
}

func (h *IntakeHandler) createTask(c *gin.Context, p models.Principal, req intakeRequest) {
	// Early shortcuts dictated the free text into "text".
	notes := req.Notes
	if notes == nil {
		notes = req.Text
	}

	out, err := h.svc.CreateTask(c.Request.Context(), p, intake.TaskInput{
		Client:   req.Client,
		JobType:  req.JobType,
		DueDate:  req.DueDate,
		Priority: req.Priority,
		Notes:    notes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ok":      true,
		"id":      out.ID,
		"taskId":  out.ID,
		"summary": out.Summary,
		"path":    out.Path,
		"task": gin.H{
			"client":   out.Client,
			"jobType":  out.JobType,
			"dueDate":  out.DueDate,
			"priority": out.Priority,
			"matched":  out.Matched,
		},
	})
}

func (h *IntakeHandler) addNote(c *gin.Context, p models.Principal, req intakeRequest) {
	text := req.Text
	if text == nil || *text == "" {
		text = req.Notes
	}
	var body string
	if text != nil {
		body = *text
	}

	out, err := h.svc.AddNote(c.Request.Context(), p, body)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ok":      true,
		"action":  ActionAddNote,
		"noteId":  out.ID,
		"path":    out.Path,
	})
}

// fail answers with the error's status. The cause of a 500 goes to the
// log, never to the caller.
func (h *IntakeHandler) fail(c *gin.Context, err error) {
	status := intake.StatusCode(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("intake request failed", zap.Error(err))
	}
	middleware.Abort(c, status, intake.PublicMessage(err))
}
