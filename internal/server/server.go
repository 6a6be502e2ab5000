package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/julianstephens/habitlit/internal/coach"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/utils"
)

// Options tunes a Server. Zero values fall back to defaults.
type Options struct {
	AllowedOrigins       []string
	MoodWindowDays       int
	CompletionWindowDays int
	// Now is the wall clock; Today turns it into the user's calendar day.
	Now   func() time.Time
	Today func() string
}

// Server exposes the analytics engines over a small JSON API.
type Server struct {
	store storage.Provider
	coach *coach.Coach
	opts  Options
}

func New(store storage.Provider, c *coach.Coach, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Today == nil {
		now := opts.Now
		opts.Today = func() string { return utils.Today(now()) }
	}
	if opts.MoodWindowDays <= 0 {
		opts.MoodWindowDays = constants.DefaultMoodWindowDays
	}
	if opts.CompletionWindowDays <= 0 {
		opts.CompletionWindowDays = constants.DefaultCompletionWindowDays
	}
	if c == nil {
		c = coach.New(coach.OfflineProvider{}, store)
	}
	return &Server{store: store, coach: c, opts: opts}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/habits", func(r chi.Router) {
			r.Get("/", s.listHabits)
			r.Get("/{id}/stats", s.habitStats)
			r.Post("/{id}/toggle", s.toggleHabit)
		})
		r.Get("/moods", s.listMoods)
		r.Post("/moods", s.createMood)
		r.Get("/predict", s.predict)
		r.Get("/insights", s.insights)
		r.Post("/chat", s.chat)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("Server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
