package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/session"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/middleware"
)

// SessionsHandler records pomodoro sessions and serves range analytics.
type SessionsHandler struct {
	record   *session.RecordSession
	list     *session.ListSessions
	query    *session.QueryRange
	validate *validator.Validate
	log      zerolog.Logger
}

func NewSessionsHandler(record *session.RecordSession, list *session.ListSessions, query *session.QueryRange, log zerolog.Logger) *SessionsHandler {
	return &SessionsHandler{record: record, list: list, query: query, validate: newValidator(), log: log}
}

type rangeResponse struct {
	Sessions    []sessionJSON `json:"sessions"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	StartOfWeek *time.Time    `json:"startOfWeek,omitempty"`
}

func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	var body struct {
		FocusTime      int               `json:"focusTime" validate:"min=0"`
		BreakTime      int               `json:"breakTime" validate:"min=0"`
		Tasks          []sessionTaskJSON `json:"tasks" validate:"max=500,dive"`
		CurrentProject *labelRefJSON     `json:"currentProject"`
		Date           *time.Time        `json:"date"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	input := session.RecordSessionInput{
		Scope:     scope,
		FocusTime: body.FocusTime,
		BreakTime: body.BreakTime,
		Tasks:     make([]domain.SessionTask, len(body.Tasks)),
	}
	for i, t := range body.Tasks {
		input.Tasks[i] = domain.SessionTask{TaskID: t.Task, Completed: t.Completed, Brand: domain.LabelRef(t.Brand)}
	}
	if body.CurrentProject != nil {
		cp := domain.LabelRef(*body.CurrentProject)
		input.CurrentProject = &cp
	}
	if body.Date != nil {
		input.Date = *body.Date
	}
	s, err := h.record.Execute(r.Context(), input)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	AuditLog(h.log, r, "session.record", scope, true, "")
	writeJSON(w, http.StatusCreated, toSessionJSON(s))
}

func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.list.Execute(r.Context(), middleware.ScopeFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionList(list))
}

func (h *SessionsHandler) Week(w http.ResponseWriter, r *http.Request) {
	week, err := intParam(r, "week")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	h.serveRange(w, r, session.QueryRangeInput{Period: session.PeriodWeek, Week: week})
}

func (h *SessionsHandler) Month(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	month, err := intParam(r, "month")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	h.serveRange(w, r, session.QueryRangeInput{Period: session.PeriodMonth, Year: year, Month: month})
}

func (h *SessionsHandler) Year(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	h.serveRange(w, r, session.QueryRangeInput{Period: session.PeriodYear, Year: year})
}

func (h *SessionsHandler) serveRange(w http.ResponseWriter, r *http.Request, input session.QueryRangeInput) {
	input.Scope = middleware.ScopeFromContext(r.Context())
	res, err := h.query.Execute(r.Context(), input)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	out := rangeResponse{Sessions: toSessionList(res.Sessions), Start: res.Range.Start, End: res.Range.End}
	if input.Period == session.PeriodWeek {
		start := res.Range.Start
		out.StartOfWeek = &start
	}
	writeJSON(w, http.StatusOK, out)
}

func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, domerrors.NewValidationError(name, "must be an integer")
	}
	return v, nil
}
