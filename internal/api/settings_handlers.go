package api

import (
	"net/http"

	"github.com/studyflash/studyflash/internal/services"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	view, err := s.SettingsService.GetSettings(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var update services.SettingsUpdate
	if err := decodeJSON(r, &update); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.SettingsService.UpdateSettings(r.Context(), update)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}
