// internal/httpserver/routes_presets.go
//
// HTTP routes for setup layouts:
//   - GET    /presets        → saved presets and built-in layouts
//   - GET    /presets/{name} → one layout as text (saved first, then built-in)
//   - PUT    /presets/{name} → validate and save a layout (auth)
//   - DELETE /presets/{name} → remove a saved preset (auth)

package httpserver

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/jorbDehmel/OOP-final-project/internal/layout"
	"github.com/jorbDehmel/OOP-final-project/internal/presets"
)

const maxBody = 1 << 16

type presetInfo struct {
	Name      string     `json:"name"`
	Builtin   bool       `json:"builtin"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type presetBody struct {
	Name   string `json:"name,omitempty"`
	Layout string `json:"layout"`
}

func (s *Server) mountPresets(r chi.Router) {
	r.Route("/presets", func(r chi.Router) {
		r.Get("/", s.handleListPresets)
		r.Get("/{name}", s.handleGetPreset)
		r.With(s.auth.Require).Put("/{name}", s.handlePutPreset)
		r.With(s.auth.Require).Delete("/{name}", s.handleDeletePreset)
	})
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	if err := layout.Init(); err != nil {
		log.Error().Err(err).Msg("load layouts")
		writeErr(w, http.StatusInternalServerError, "layouts_unavailable")
		return
	}
	out := []presetInfo{}
	if s.presets != nil {
		saved, err := s.presets.List(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("list presets")
			writeErr(w, http.StatusInternalServerError, "list_failed")
			return
		}
		for _, p := range saved {
			updated := p.UpdatedAt
			out = append(out, presetInfo{Name: p.Name, UpdatedAt: &updated})
		}
	}
	for _, name := range layout.Names() {
		out = append(out, presetInfo{Name: name, Builtin: true})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	l, err := presets.Resolve(r.Context(), s.presets, name)
	if errors.Is(err, presets.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("preset", name).Msg("resolve preset")
		writeErr(w, http.StatusInternalServerError, "get_failed")
		return
	}
	writeJSON(w, http.StatusOK, presetBody{Name: name, Layout: l.String()})
}

func (s *Server) handlePutPreset(w http.ResponseWriter, r *http.Request) {
	if s.presets == nil {
		writeErr(w, http.StatusServiceUnavailable, "presets_disabled")
		return
	}
	name := chi.URLParam(r, "name")
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad_body")
		return
	}
	var body presetBody
	if err := sonic.Unmarshal(raw, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	l, err := layout.Parse(body.Layout)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.presets.Save(r.Context(), name, l)
	switch {
	case errors.Is(err, presets.ErrInvalidName), errors.Is(err, layout.ErrInvalidLayout):
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Str("preset", name).Msg("save preset")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("preset", name).Str("by", Subject(r)).Msg("preset saved")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if s.presets == nil {
		writeErr(w, http.StatusServiceUnavailable, "presets_disabled")
		return
	}
	name := chi.URLParam(r, "name")
	err := s.presets.Delete(r.Context(), name)
	if errors.Is(err, presets.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("preset", name).Msg("delete preset")
		writeErr(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
