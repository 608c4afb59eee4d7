package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/heartmarshall/bugtracker/internal/domain"
	"github.com/heartmarshall/bugtracker/internal/faults"
)

// SuccessResponse is the body of every successful bug response.
type SuccessResponse struct {
	Success bool `json:"success"`
	Count   *int `json:"count,omitempty"`
	Data    any  `json:"data"`
}

// ErrorResponse is the body of every failed response. Kind, Details and
// Stack are omitted when empty; Details and Stack are set only for
// diagnostic configurations.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Kind    string   `json:"kind,omitempty"`
	Error   string   `json:"error"`
	Errors  []string `json:"errors,omitempty"`
	Details string   `json:"details,omitempty"`
	Stack   string   `json:"stack,omitempty"`
}

// BugResponse is the wire form of a bug record.
type BugResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Reporter    string    `json:"reporter"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toBugResponse(b *domain.Bug) BugResponse {
	return BugResponse{
		ID:          b.ID.String(),
		Title:       b.Title,
		Description: b.Description,
		Reporter:    b.Reporter,
		Status:      b.Status.String(),
		Priority:    b.Priority.String(),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessResponse{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, data []BugResponse) {
	n := len(data)
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Count: &n, Data: data})
}

// WriteError writes env with the status of its kind. Raw cause and stack
// are included only when diagnostic is set.
func WriteError(w http.ResponseWriter, env *faults.Envelope, diagnostic bool) {
	resp := ErrorResponse{
		Kind:  env.Kind.String(),
		Error: env.Message,
	}
	if len(env.Messages) > 1 {
		resp.Errors = env.Messages
	}
	if diagnostic {
		resp.Details = env.Detail()
		resp.Stack = env.Stack()
	}
	writeJSON(w, env.Kind.HTTPStatus(), resp)
}

// WriteMessage writes a failure body that carries no envelope.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// NotFound answers every request no route matched.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteMessage(w, http.StatusNotFound, "Not Found - "+r.URL.Path)
}
