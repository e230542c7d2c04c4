package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/jorbDehmel/OOP-final-project/internal/store"
)

// mountMatches registers the read-only match routes.
func (s *Server) mountMatches(r chi.Router) {
	r.Get("/matches", s.handleListMatches)
	r.Get("/matches/{id}", s.handleGetMatch)
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	list, err := s.matches.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list matches")
		writeErr(w, http.StatusInternalServerError, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	st, err := s.matches.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("get match")
		writeErr(w, http.StatusInternalServerError, "get_failed")
		return
	}
	writeJSON(w, http.StatusOK, st)
}
