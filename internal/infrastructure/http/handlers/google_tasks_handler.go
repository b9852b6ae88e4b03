package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/googletasks"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/middleware"
)

// GoogleTasksHandler proxies the caller's default Google Tasks list.
type GoogleTasksHandler struct {
	list *googletasks.ListTasks
	log  zerolog.Logger
}

func NewGoogleTasksHandler(list *googletasks.ListTasks, log zerolog.Logger) *GoogleTasksHandler {
	return &GoogleTasksHandler{list: list, log: log}
}

func (h *GoogleTasksHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.list.Execute(r.Context(), middleware.ScopeFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if tasks == nil {
		tasks = []ports.GoogleTask{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}
