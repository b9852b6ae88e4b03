package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/task"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/middleware"
)

// TasksHandler serves the task tree endpoints.
type TasksHandler struct {
	create   *task.CreateTask
	list     *task.ListTasks
	complete *task.SetCompleted
	reorder  *task.Reorder
	move     *task.MoveTask
	delete   *task.DeleteTask
	validate *validator.Validate
	log      zerolog.Logger
}

func NewTasksHandler(create *task.CreateTask, list *task.ListTasks, complete *task.SetCompleted, reorder *task.Reorder, move *task.MoveTask, del *task.DeleteTask, log zerolog.Logger) *TasksHandler {
	return &TasksHandler{
		create:   create,
		list:     list,
		complete: complete,
		reorder:  reorder,
		move:     move,
		delete:   del,
		validate: newValidator(),
		log:      log,
	}
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.list.Execute(r.Context(), middleware.ScopeFromContext(r.Context()), r.URL.Query().Get("projectId"))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskList(tasks))
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	var body struct {
		Title        string `json:"title" validate:"required"`
		ProjectID    string `json:"projectId" validate:"required"`
		ParentTaskID string `json:"parentTaskId"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	t, err := h.create.Execute(r.Context(), task.CreateTaskInput{
		Scope:        scope,
		ProjectID:    body.ProjectID,
		Title:        body.Title,
		ParentTaskID: body.ParentTaskID,
	})
	middleware.RecordTaskOp("task.create", scope.Kind().String(), err == nil)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskJSON(t))
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	var body struct {
		ID        string `json:"id" validate:"required"`
		Completed *bool  `json:"completed"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	t, err := h.complete.Execute(r.Context(), task.SetCompletedInput{Scope: scope, TaskID: body.ID, Completed: body.Completed})
	middleware.RecordTaskOp("task.complete", scope.Kind().String(), err == nil)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskJSON(t))
}

func (h *TasksHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	var body struct {
		Updates []struct {
			ID        string `json:"id"`
			Order     int    `json:"order"`
			ProjectID string `json:"projectId"`
		} `json:"updates" validate:"required"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	updates := make([]ports.OrderUpdate, len(body.Updates))
	for i, u := range body.Updates {
		updates[i] = ports.OrderUpdate{ID: u.ID, Order: u.Order, ProjectID: u.ProjectID}
	}
	res, err := h.reorder.Execute(r.Context(), task.ReorderInput{Scope: scope, Updates: updates})
	middleware.RecordTaskOp("task.reorder", scope.Kind().String(), err == nil)
	h.writeBulk(w, r, res, err)
}

// Move drags an active top-level task before another one, or to the tail of a project.
func (h *TasksHandler) Move(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	var body struct {
		ID           string `json:"id" validate:"required"`
		ToProjectID  string `json:"toProjectId" validate:"required"`
		BeforeTaskID string `json:"beforeTaskId"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	res, err := h.move.Execute(r.Context(), task.MoveTaskInput{
		Scope:        scope,
		TaskID:       body.ID,
		ToProjectID:  body.ToProjectID,
		BeforeTaskID: body.BeforeTaskID,
	})
	middleware.RecordTaskOp("task.move", scope.Kind().String(), err == nil)
	h.writeBulk(w, r, res, err)
}

// writeBulk reports matched/modified counts. Entries that failed while others were applied
// are logged and flagged with ok=false; a batch that failed as a whole is an error response.
func (h *TasksHandler) writeBulk(w http.ResponseWriter, r *http.Request, res ports.BulkResult, err error) {
	var partial *ports.PartialWriteError
	if errors.As(err, &partial) {
		h.log.Warn().Err(partial.Err).Int("failed", partial.Failed).Str("path", r.URL.Path).Msg("bulk reorder partially applied")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":       false,
			"matched":  res.Matched,
			"modified": res.Modified,
			"failed":   partial.Failed,
		})
		return
	}
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "matched": res.Matched, "modified": res.Modified})
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	var body struct {
		ID string `json:"id" validate:"required"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	n, err := h.delete.Execute(r.Context(), task.DeleteTaskInput{Scope: scope, TaskID: body.ID})
	middleware.RecordTaskOp("task.delete", scope.Kind().String(), err == nil)
	if err != nil {
		AuditLog(h.log, r, "task.delete", scope, false, err.Error())
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "deleted": n})
}
