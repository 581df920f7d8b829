package http

import (
	"net/http"

	applog "fintrack/internal/log"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.deps.Settings.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, r, "get_settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	current, err := s.deps.Settings.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, r, "get_settings", err)
		return
	}
	updated, err := req.apply(current)
	if err != nil {
		writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	if err := s.deps.Settings.UpdateSettings(r.Context(), updated); err != nil {
		writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
