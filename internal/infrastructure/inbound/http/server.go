package http_server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/afero"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	ports "pinstack-blog-service/internal/domain/ports/output"
	"pinstack-blog-service/internal/infrastructure/config"
	post_http "pinstack-blog-service/internal/infrastructure/inbound/http/post"
)

type RouterDeps struct {
	CreatePost     *post_http.CreatePostHandler
	ListPosts      *post_http.ListPostsHandler
	UploadsFs      afero.Fs
	UploadsRoot    string
	AllowedOrigins []string
	Log            ports.Logger
	Metrics        ports.MetricsProvider
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(deps.Log, deps.Metrics))
	r.Use(middleware.Recoverer)

	r.Get("/health_check", HealthCheck)
	r.Get(post_http.HomePath, deps.ListPosts.Home)
	r.Post("/posts", deps.CreatePost.CreatePost)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/posts", deps.ListPosts.ListPosts)
	})

	uploads := http.FileServer(afero.NewHttpFs(deps.UploadsFs).Dir(deps.UploadsRoot))
	r.Handle(post_http.UploadsPrefix+"*", http.StripPrefix(post_http.UploadsPrefix, noDirListing(uploads)))

	return otelhttp.NewHandler(r, "blog-http")
}

func HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello World!"))
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type Server struct {
	server *http.Server
	log    ports.Logger
}

func NewServer(cfg config.HTTPServer, handler http.Handler, log ports.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

func (s *Server) Run() error {
	s.log.Info("Starting HTTP server", slog.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
