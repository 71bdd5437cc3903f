// Package server is a reference implementation of the catalog service: videogames CRUD behind
// cookie sessions, plus user registration and login.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"vgdb-cli/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const SessionCookie = "sessionId"

type Config struct {
	Store *store.Store
	// Sessions defaults to the sqlite store itself.
	Sessions store.SessionStore
	Logger   logrus.FieldLogger
	// Now is overridable for tests.
	Now func() time.Time
}

type Server struct {
	db       *store.Store
	sessions store.SessionStore
	log      logrus.FieldLogger
	now      func() time.Time
}

func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("server: store is nil")
	}
	s := &Server{db: cfg.Store, sessions: cfg.Sessions, log: cfg.Logger, now: cfg.Now}
	if s.sessions == nil {
		s.sessions = cfg.Store
	}
	if s.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		s.log = l
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(LogRequests(s.log))
	r.Use(CORS)
	r.Use(s.loadSession)

	r.Get("/health", s.handleHealth)

	r.Route("/videogames", func(r chi.Router) {
		r.Delete("/", s.handleDeleteCollection)
		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			r.Get("/", s.handleListGames)
			r.Post("/", s.handleCreateGame)
			r.Get("/{id}", s.handleGetGame)
			r.Put("/{id}", s.handleUpdateGame)
			r.Delete("/{id}", s.handleDeleteGame)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleRegister)
		r.With(requireSession).Get("/", s.handleCurrentUser)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleLogin)
		r.Delete("/", s.handleLogout)
		r.With(requireSession).Get("/", s.handleCurrentUser)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})
	return r
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.WithField("addr", ln.Addr().String()).Info("catalog server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithError(err).WithField("request_id", RequestIDFrom(r.Context())).Error("request failed")
	respondError(w, http.StatusInternalServerError, "internal error")
}
