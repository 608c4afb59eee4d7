package rest

import "net/http"

// Routes groups the handlers mounted by NewRouter. Metrics may be nil.
type Routes struct {
	Bugs    *BugHandler
	Health  *HealthHandler
	Metrics http.Handler
}

// NewRouter registers the bug, health and metrics endpoints. Every other
// path answers with the JSON not-found body.
func NewRouter(rt Routes) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /bugs", rt.Bugs.List)
	mux.HandleFunc("POST /bugs", rt.Bugs.Create)
	mux.HandleFunc("GET /bugs/{id}", rt.Bugs.Get)
	mux.HandleFunc("PUT /bugs/{id}", rt.Bugs.Update)
	mux.HandleFunc("DELETE /bugs/{id}", rt.Bugs.Delete)

	mux.HandleFunc("GET /live", rt.Health.Live)
	mux.HandleFunc("GET /ready", rt.Health.Ready)
	mux.HandleFunc("GET /health", rt.Health.Health)

	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}

	mux.HandleFunc("/", NotFound)
	return mux
}
