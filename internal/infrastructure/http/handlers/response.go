package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

type errorResponse struct {
	Error        string                 `json:"error"`
	Code         string                 `json:"code"`
	Details      []domerrors.FieldError `json:"details,omitempty"`
	Instructions string                 `json:"instructions,omitempty"`
}

// writeErr sends JSON { "error": message, "code": errCode }. If errCode is empty, a default is used from code.
func writeErr(w http.ResponseWriter, code int, errCode string, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	writeJSON(w, code, errorResponse{Error: message, Code: errCode})
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusInternalServerError:
		return ErrCodeInternal
	default:
		return ErrCodeUpstream
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates an application error into the API error taxonomy.
// Anything unrecognised is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, log zerolog.Logger, r *http.Request, err error) {
	var (
		verr *domerrors.ValidationError
		uerr *domerrors.UpstreamError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Code: ErrCodeValidation, Details: verr.Details})
	case errors.As(err, &uerr):
		status := uerr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorResponse{Error: uerr.Message, Code: ErrCodeUpstream, Instructions: uerr.Instructions})
	case errors.Is(err, domerrors.ErrRefreshTokenReuse):
		writeErr(w, http.StatusUnauthorized, ErrCodeTokenReuse, err.Error())
	case errors.Is(err, domerrors.ErrInvalidToken):
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidToken, err.Error())
	case errors.Is(err, domerrors.ErrUnauthorized),
		errors.Is(err, domerrors.ErrGoogleNotLinked),
		errors.Is(err, domerrors.ErrGoogleReauth):
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, domerrors.ErrNotFound),
		errors.Is(err, domerrors.ErrProjectNotFound),
		errors.Is(err, domerrors.ErrTaskNotFound),
		errors.Is(err, domerrors.ErrParentNotFound),
		errors.Is(err, domerrors.ErrUserNotFound):
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domerrors.ErrLimitExceeded):
		writeErr(w, http.StatusBadRequest, ErrCodeLimitExceeded, err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("method", r.Method).Msg("request failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}
