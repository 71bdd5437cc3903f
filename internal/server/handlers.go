package server

import (
	"errors"
	"net/http"

	"vgdb-cli/internal/model"
	"vgdb-cli/internal/store"

	"github.com/go-chi/chi/v5"
)

var gameFormKeys = []string{"name", "genre", "size", "date", "publisher"}

// formFields reads keys from the form body. It reports the first missing key.
func formFields(r *http.Request, keys ...string) (map[string]string, string) {
	if err := r.ParseForm(); err != nil {
		return nil, keys[0]
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		vs, ok := r.PostForm[k]
		if !ok || len(vs) == 0 {
			return nil, k
		}
		out[k] = vs[0]
	}
	return out, ""
}

func gameInput(r *http.Request) (store.GameInput, string) {
	vals, missing := formFields(r, gameFormKeys...)
	if missing != "" {
		return store.GameInput{}, "missing field: " + missing
	}
	in, err := store.ParseGameFields(model.GameFields{
		Name:      vals["name"],
		Genre:     vals["genre"],
		Size:      vals["size"],
		Date:      vals["date"],
		Publisher: vals["publisher"],
	})
	if err != nil {
		return store.GameInput{}, err.Error()
	}
	return in, ""
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.db.ListGames(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, games)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := store.ParseID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	g, err := s.db.GetGame(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	in, problem := gameInput(r)
	if problem != "" {
		respondError(w, http.StatusBadRequest, problem)
		return
	}
	g, err := s.db.CreateGame(r.Context(), in)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, g)
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := store.ParseID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	in, problem := gameInput(r)
	if problem != "" {
		respondError(w, http.StatusBadRequest, problem)
		return
	}
	err := s.db.UpdateGame(r.Context(), id, in)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, store.GameRecord{ID: id, Name: in.Name, Genre: in.Genre, Size: in.Size, Date: in.Date, Publisher: in.Publisher})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := store.ParseID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	err := s.db.DeleteGame(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, "not allowed to delete the collection")
}
