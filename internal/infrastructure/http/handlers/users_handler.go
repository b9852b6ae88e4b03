package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/auth"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/middleware"
)

// UsersHandler handles /api/users.
type UsersHandler struct {
	upsert   *auth.UpsertUser
	users    ports.UserRepository
	validate *validator.Validate
	log      zerolog.Logger
}

func NewUsersHandler(upsert *auth.UpsertUser, users ports.UserRepository, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{upsert: upsert, users: users, validate: newValidator(), log: log}
}

// Upsert creates the user for an email or refreshes its profile.
func (h *UsersHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name" validate:"required,max=200"`
		Email    string `json:"email" validate:"required,email,max=254"`
		ImageURL string `json:"imageUrl" validate:"omitempty,url,max=2048"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	user, err := h.upsert.Execute(r.Context(), auth.UpsertUserInput{
		Name:     body.Name,
		Email:    body.Email,
		ImageURL: body.ImageURL,
	})
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserJSON(user))
}

// Me returns the user behind the user-id header.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.ScopeFromContext(r.Context()).UserID()
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if user == nil {
		writeError(w, h.log, r, domerrors.ErrUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toUserJSON(user))
}
