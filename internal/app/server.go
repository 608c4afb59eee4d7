package app

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/bugtracker/internal/config"
	"github.com/heartmarshall/bugtracker/internal/faults"
	bugsvc "github.com/heartmarshall/bugtracker/internal/service/bug"
	"github.com/heartmarshall/bugtracker/internal/transport/middleware"
	"github.com/heartmarshall/bugtracker/internal/transport/rest"
)

// Server is the assembled HTTP surface over one store.
type Server struct {
	Handler http.Handler

	limiter *middleware.RateLimiter
}

// Stop releases background resources of the middleware.
func (s *Server) Stop() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// NewServer wires the bug service, REST handlers and middleware over store.
// Request id is outermost so every later layer can report it; metrics sit
// directly on the mux to see the matched route.
func NewServer(cfg *config.Config, log *slog.Logger, store *Store) *Server {
	reporter := faults.NewReporter(log)
	diagnostic := cfg.App.Diagnostic()

	svc := bugsvc.NewService(log, store.Bugs, store.Tx, reporter)
	metrics := middleware.NewMetrics()

	mux := rest.NewRouter(rest.Routes{
		Bugs: rest.NewBugHandler(log, svc, reporter, rest.HandlerConfig{
			Diagnostic:   diagnostic,
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
		}),
		Health:  rest.NewHealthHandler(store, store.Driver, BuildVersion()),
		Metrics: metrics.Handler(),
	})

	s := &Server{}
	var limit middleware.Middleware
	if cfg.RateLimit.Enabled {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit)
		limit = s.limiter.Limit()
	}

	s.Handler = middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(reporter, diagnostic),
		middleware.CORS(cfg.CORS),
		limit,
		metrics.Instrument(),
	)(mux)
	return s
}
