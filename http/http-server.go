package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"

	"github.com/llmarena/backend/problem"
	"github.com/llmarena/backend/subm"
)

// ProblemLister serves the curated problem catalog.
type ProblemLister interface {
	List(n int) ([]problem.Listing, error)
}

type HttpServer struct {
	submSrvc *subm.SubmissionSrvc
	problems ProblemLister
	router   *chi.Mux
	server   *http.Server
}

func NewHttpServer(
	submSrvc *subm.SubmissionSrvc,
	problems ProblemLister,
	allowedOrigins []string,
) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("llmarena", httplog.Options{
		LogLevel:         slog.LevelInfo,
		Concise:          true,
		MessageFieldName: "message",
	})

	router.Use(httplog.RequestLogger(logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	server := &HttpServer{
		submSrvc: submSrvc,
		problems: problems,
		router:   router,
	}

	server.routes()

	return server
}

func (httpserver *HttpServer) routes() {
	r := httpserver.router
	r.Post("/api/submit", httpserver.createSubmission)
	r.Get("/api/submit/{submUuid}", httpserver.getSubmission)
	r.Get("/api/problems", httpserver.listProblems)
}

func (httpserver *HttpServer) Start(address string) error {
	httpserver.server = &http.Server{Addr: address, Handler: httpserver.router}
	return httpserver.server.ListenAndServe()
}

func (httpserver *HttpServer) Shutdown(ctx context.Context) error {
	if httpserver.server == nil {
		return nil
	}
	return httpserver.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (httpserver *HttpServer) Handler() http.Handler {
	return httpserver.router
}
