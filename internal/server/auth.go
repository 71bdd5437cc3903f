package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"vgdb-cli/internal/store"

	"github.com/google/uuid"
)

type sessionKey struct{}

// loadSession attaches the session named by the cookie, when it exists, to the request context.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := s.sessions.GetSession(r.Context(), c.Value)
		switch {
		case errors.Is(err, store.ErrSessionNotFound):
		case err != nil:
			s.internalError(w, r, err)
			return
		default:
			r = r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess))
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFrom(ctx context.Context) (store.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(store.Session)
	return sess, ok
}

func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := sessionFrom(r.Context()); !ok {
			respondError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	vals, missing := formFields(r, "username", "email", "password")
	if missing != "" {
		respondError(w, http.StatusBadRequest, "missing field: "+missing)
		return
	}
	u, err := s.db.CreateUser(r.Context(), vals["username"], vals["email"], vals["password"])
	if errors.Is(err, store.ErrEmailTaken) {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	vals, missing := formFields(r, "email", "password")
	if missing != "" {
		respondError(w, http.StatusBadRequest, "missing field: "+missing)
		return
	}
	u, err := s.db.Authenticate(r.Context(), vals["email"], vals["password"])
	if errors.Is(err, store.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	if old, ok := sessionFrom(r.Context()); ok {
		_ = s.sessions.DeleteSession(r.Context(), old.ID)
	}
	sess := store.Session{ID: uuid.NewString(), UserID: u.ID, CreatedAt: s.now().UTC()}
	if err := s.sessions.CreateSession(r.Context(), sess); err != nil {
		s.internalError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.WithField("user_id", u.ID).Info("login")
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := sessionFrom(r.Context()); ok {
		if err := s.sessions.DeleteSession(r.Context(), sess.ID); err != nil {
			s.internalError(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	u, err := s.db.GetUser(r.Context(), sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}
