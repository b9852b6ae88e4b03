package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/project"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/middleware"
)

type ProjectsHandler struct {
	create   *project.CreateProject
	list     *project.ListProjects
	update   *project.UpdateColor
	delete   *project.DeleteProject
	validate *validator.Validate
	log      zerolog.Logger
}

func NewProjectsHandler(create *project.CreateProject, list *project.ListProjects, update *project.UpdateColor, del *project.DeleteProject, log zerolog.Logger) *ProjectsHandler {
	return &ProjectsHandler{create: create, list: list, update: update, delete: del, validate: newValidator(), log: log}
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	var body struct {
		Name        string `json:"name" validate:"required"`
		HeaderColor string `json:"headerColor"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	p, err := h.create.Execute(r.Context(), project.CreateProjectInput{Scope: scope, Name: body.Name, HeaderColor: body.HeaderColor})
	middleware.RecordTaskOp("project.create", scope.Kind().String(), err == nil)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectJSON(p))
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.list.Execute(r.Context(), middleware.ScopeFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	out := make([]projectJSON, len(list))
	for i, p := range list {
		out[i] = toProjectJSON(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID          string `json:"id" validate:"required"`
		HeaderColor string `json:"headerColor"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	p, err := h.update.Execute(r.Context(), project.UpdateColorInput{
		Scope:       middleware.ScopeFromContext(r.Context()),
		ProjectID:   body.ID,
		HeaderColor: body.HeaderColor,
	})
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectJSON(p))
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	var body struct {
		ID string `json:"id" validate:"required"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	res, err := h.delete.Execute(r.Context(), project.DeleteProjectInput{Scope: scope, ProjectID: body.ID})
	middleware.RecordTaskOp("project.delete", scope.Kind().String(), err == nil)
	if err != nil {
		AuditLog(h.log, r, "project.delete", scope, false, err.Error())
		writeError(w, h.log, r, err)
		return
	}
	AuditLog(h.log, r, "project.delete", scope, true, "")
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "tasksDeleted": res.TasksDeleted})
}
