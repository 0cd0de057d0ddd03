package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	articleHandler "newstyping/internal/article"
	"newstyping/internal/article/service"
	"newstyping/internal/ports"
	testHandler "newstyping/internal/testresult"
	testService "newstyping/internal/testresult/service"
	"newstyping/middleware"
	"newstyping/socket"
)

// Services are the collaborators the HTTP surface is built on.
type Services struct {
	Serving     *service.ServingService
	Ingestion   *service.IngestionService
	Maintenance *service.MaintenanceService
	Tests       *testService.TestResultService
	Identity    ports.IdentityProvider
	Hub         *socket.Hub
}

type Options struct {
	AllowedOrigins []string
	TestsPerMinute int
}

func Setup(s Services, opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))

	// WebSocket
	if s.Hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			socket.ServeWs(s.Hub, w, r)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, render.M{"message": "News Typing API", "status": "running"})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, render.M{"status": "healthy", "timestamp": time.Now().Format(time.RFC3339)})
		})

		articles := articleHandler.NewArticleHandler(s.Serving, s.Ingestion, s.Maintenance)
		r.Route("/api", func(r chi.Router) {
			r.Get("/news", articles.GetNews)
			r.Get("/db-status", articles.DBStatus)
			r.Post("/db-cleanup", articles.DBCleanup)
			r.Post("/db-reset", articles.DBReset)
			r.Post("/preload-articles", articles.PreloadArticles)

			tests := testHandler.NewTestResultHandler(s.Tests)
			r.Route("/tests", func(r chi.Router) {
				r.Use(middleware.Auth(s.Identity))
				r.Get("/history", tests.History)
				r.Get("/stats", tests.Stats)

				limit := opts.TestsPerMinute
				if limit <= 0 {
					limit = 10
				}
				r.With(middleware.RateLimit(limit, time.Minute)).Post("/", tests.Save)
			})
		})
	})

	return r
}
