package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/label"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/middleware"
)

// LabelsHandler serves one label collection (brands or milestones).
type LabelsHandler struct {
	kind     domain.LabelKind
	create   *label.CreateLabel
	list     *label.ListLabels
	validate *validator.Validate
	log      zerolog.Logger
}

func NewLabelsHandler(kind domain.LabelKind, create *label.CreateLabel, list *label.ListLabels, log zerolog.Logger) *LabelsHandler {
	return &LabelsHandler{kind: kind, create: create, list: list, validate: newValidator(), log: log}
}

func (h *LabelsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name" validate:"required"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	l, err := h.create.Execute(r.Context(), label.CreateLabelInput{
		Scope: middleware.ScopeFromContext(r.Context()),
		Kind:  h.kind,
		Name:  body.Name,
	})
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLabelJSON(l))
}

func (h *LabelsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.list.Execute(r.Context(), middleware.ScopeFromContext(r.Context()), h.kind)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	out := make([]labelJSON, len(list))
	for i, l := range list {
		out[i] = toLabelJSON(l)
	}
	writeJSON(w, http.StatusOK, out)
}
