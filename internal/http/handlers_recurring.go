package http

import (
	"errors"
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	defs, err := s.deps.Recurring.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list_recurring", err)
		return
	}
	if defs == nil {
		defs = []core.RecurringDefinition{}
	}
	writeJSON(w, http.StatusOK, defs)
}

func (s *Server) handleGetRecurring(w http.ResponseWriter, r *http.Request) {
	def, err := s.deps.Recurring.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get_recurring", err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// readDefinition decodes and converts a recurring request body, writing the
// error response itself when it fails.
func readDefinition(w http.ResponseWriter, r *http.Request) (core.RecurringDefinition, bool) {
	var req recurringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.RecurringDefinition{}, false
	}
	def, err := req.toDefinition()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return core.RecurringDefinition{}, false
	}
	return def, true
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	def, ok := readDefinition(w, r)
	if !ok {
		return
	}

	created, err := s.deps.Recurring.Create(r.Context(), def)
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Recurring definition created",
		applog.NewFields().
			WithRecurring(created.ID, created.Name, string(created.Frequency)).
			WithOperation(applog.OpCreate).
			ToSlice()...)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	def, ok := readDefinition(w, r)
	if !ok {
		return
	}

	updated, err := s.deps.Recurring.Update(r.Context(), r.PathValue("id"), def)
	if err != nil {
		writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Recurring.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, applog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleRecurring(w http.ResponseWriter, r *http.Request) {
	def, err := s.deps.Recurring.Toggle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, applog.OpToggle, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleRecurringStats(w http.ResponseWriter, r *http.Request) {
	totals, err := s.deps.Recurring.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, totals.Round(2))
}

func (s *Server) handleRecurringNotifications(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.Recurring.Upcoming(r.Context(), s.deps.Now())
	if err != nil {
		writeServiceError(w, r, applog.OpClassify, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type processResponse struct {
	Created int `json:"created"`
}

func (s *Server) handleProcessRecurring(w http.ResponseWriter, r *http.Request) {
	if s.deps.Processor == nil {
		writeServiceError(w, r, applog.OpProcess, errors.New("recurring processor not configured"))
		return
	}
	created, err := s.deps.Processor.ProcessDue(r.Context(), s.deps.Now())
	if err != nil {
		writeServiceError(w, r, applog.OpProcess, err)
		return
	}
	writeJSON(w, http.StatusOK, processResponse{Created: created})
}
