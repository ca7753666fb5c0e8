package server

import (
	"align/auth"
	"align/domain"
	"align/observability"
	"align/services"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators of the HTTP surface, constructed once at process start.
type Deps struct {
	Conversations services.IConversationService
	Gate          *auth.Gate
	Stats         *observability.MonitoringManager
	// Pages renders the marketing and app surfaces. Nil serves 404.
	Pages        http.Handler
	AppSubdomain string
	Log          *slog.Logger
}

type Server struct {
	conversations services.IConversationService
	stats         *observability.MonitoringManager
	writeError    func(w http.ResponseWriter, r *http.Request, err error)
}

// NewServer wires the JSON API under /api and the routing gate in front of every page.
func NewServer(deps Deps) http.Handler {
	s := &Server{
		conversations: deps.Conversations,
		stats:         deps.Stats,
		writeError:    errorWriter(deps.Log),
	}

	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(withLogging(deps.Log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(api chi.Router) {
		api.Use(deps.Gate.Middleware(s.writeError))

		api.Post("/vent", s.handleVentTurn)
		api.Get("/vent", s.handleList(domain.KindVent))
		api.Get("/vent/{id}", s.handleGet(domain.KindVent))

		api.Post("/mediate", s.handleMediateTurn)
		api.Get("/mediate", s.handleList(domain.KindMediation))
		api.Get("/mediate/{id}", s.handleGet(domain.KindMediation))
	})

	pages := deps.Pages
	if pages == nil {
		pages = http.NotFoundHandler()
	}
	authenticated := AuthenticatorFunc(func(r *http.Request) bool {
		_, err := deps.Gate.Authenticate(r)
		return err == nil
	})
	r.NotFound(NewRoutingGate(deps.AppSubdomain, authenticated, pages, deps.Log).ServeHTTP)

	return r
}
