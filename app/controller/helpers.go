package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/saatgomi1/secondsense/models"
	"github.com/saatgomi1/secondsense/repository"
	"github.com/saatgomi1/secondsense/service"
)

// SessionIDHeader carries the session id for clients that keep it out of the path
const SessionIDHeader = "X-Session-ID"

// sessionIDFromPath extracts {id} from /sessions/{id}[/...]; the header is used when the path has none
func sessionIDFromPath(r *http.Request) string {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path != r.URL.Path {
		if id, _, _ := strings.Cut(path, "/"); id != "" {
			return id
		}
	}
	return r.Header.Get(SessionIDHeader)
}

// statusForError maps service errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoImages),
		errors.Is(err, service.ErrInvalidImage),
		errors.Is(err, service.ErrUnknownField),
		errors.Is(err, service.ErrFieldNotEditable),
		errors.Is(err, service.ErrInvalidFieldName),
		errors.Is(err, service.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAlreadyConfirmed),
		errors.Is(err, service.ErrNotConfirmed),
		errors.Is(err, service.ErrDuplicateField):
		return http.StatusConflict
	case errors.Is(err, service.ErrDescriptionService):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrArchiveDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, message string, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		log.Printf("❌ %s: %v", message, err)
	}
	http.Error(w, message+": "+err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// sessionView builds the client view; image and raw text stay server-side
func sessionView(session *models.Session, prompts []models.FieldPrompt) models.SessionView {
	if prompts == nil {
		prompts = []models.FieldPrompt{}
	}
	return models.SessionView{
		ID:        session.ID,
		Confirmed: session.Confirmed,
		Fields:    session.Record.DisplayRow(),
		Prompts:   prompts,
		Pending:   session.Pending,
		ImageURL:  "/sessions/" + session.ID + "/image",
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}
