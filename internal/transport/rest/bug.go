package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/bugtracker/internal/domain"
	"github.com/heartmarshall/bugtracker/internal/faults"
	bugsvc "github.com/heartmarshall/bugtracker/internal/service/bug"
)

type bugService interface {
	Create(ctx context.Context, d domain.BugDraft) (*domain.Bug, error)
	Get(ctx context.Context, rawID string) (*domain.Bug, error)
	Update(ctx context.Context, rawID string, d domain.BugDraft) (*domain.Bug, error)
	Delete(ctx context.Context, rawID string) error
	List(ctx context.Context, f domain.BugFilter) ([]domain.Bug, error)
}

type faultReporter interface {
	Report(ctx context.Context, env *faults.Envelope, intent faults.Intent)
}

// HandlerConfig carries the settings shared by the bug endpoints.
type HandlerConfig struct {
	// Diagnostic adds raw failure detail and stacks to error bodies.
	Diagnostic   bool
	MaxBodyBytes int64
}

// BugHandler serves the /bugs endpoints.
type BugHandler struct {
	bugs     bugService
	reporter faultReporter
	cfg      HandlerConfig
	log      *slog.Logger
}

// NewBugHandler creates a BugHandler.
func NewBugHandler(logger *slog.Logger, bugs bugService, reporter faultReporter, cfg HandlerConfig) *BugHandler {
	return &BugHandler{
		bugs:     bugs,
		reporter: reporter,
		cfg:      cfg,
		log:      logger.With("handler", "bug"),
	}
}

// List handles GET /bugs?status=&priority=&sort=.
func (h *BugHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.BugFilter{Sort: domain.ParseBugSort(q.Get("sort"))}
	if q.Has("status") {
		v := q.Get("status")
		f.Status = &v
	}
	if q.Has("priority") {
		v := q.Get("priority")
		f.Priority = &v
	}

	bugs, err := h.bugs.List(r.Context(), f)
	if err != nil {
		h.handleError(w, err)
		return
	}

	out := make([]BugResponse, len(bugs))
	for i := range bugs {
		out[i] = toBugResponse(&bugs[i])
	}
	writeList(w, out)
}

// Get handles GET /bugs/{id}.
func (h *BugHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.bugs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, toBugResponse(b))
}

// Create handles POST /bugs.
func (h *BugHandler) Create(w http.ResponseWriter, r *http.Request) {
	d, err := decodeDraft(w, r, h.cfg.MaxBodyBytes)
	if err != nil {
		h.rejectBody(w, r, err, faults.Intent{Operation: bugsvc.OpCreate})
		return
	}

	b, err := h.bugs.Create(r.Context(), d)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toBugResponse(b))
}

// Update handles PUT /bugs/{id}.
func (h *BugHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	d, err := decodeDraft(w, r, h.cfg.MaxBodyBytes)
	if err != nil {
		h.rejectBody(w, r, err, faults.Intent{Operation: bugsvc.OpUpdate, TargetID: id})
		return
	}

	b, err := h.bugs.Update(r.Context(), id, d)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, toBugResponse(b))
}

// Delete handles DELETE /bugs/{id}.
func (h *BugHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.bugs.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, struct{}{})
}

// rejectBody reports and answers a body that never reached the service.
func (h *BugHandler) rejectBody(w http.ResponseWriter, r *http.Request, err error, intent faults.Intent) {
	env := faults.New(err)
	h.reporter.Report(r.Context(), env, intent)
	WriteError(w, env, h.cfg.Diagnostic)
}

// handleError writes a service failure. Service errors are already
// reported envelopes; anything else is classified here.
func (h *BugHandler) handleError(w http.ResponseWriter, err error) {
	env := faults.New(err)
	if env.Kind.Expected() {
		h.log.Debug("request rejected", slog.String("kind", env.Kind.String()))
	}
	WriteError(w, env, h.cfg.Diagnostic)
}
