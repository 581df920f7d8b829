package http

import (
	"net/http"

	applog "fintrack/internal/log"
)

// handleListNotifications raises any pending reminders before listing, so
// the list reflects today's due and upcoming occurrences.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.deps.Reminders != nil {
		if _, err := s.deps.Reminders.Sync(ctx, s.deps.Now()); err != nil {
			applog.FromContext(ctx).LogOperation(ctx, "Reminder sync failed, listing stored notifications", applog.OpSync, err)
		}
	}

	list, err := s.deps.Notifications.ListNotifications(ctx)
	if err != nil {
		writeServiceError(w, r, "list_notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Notifications.MarkNotificationRead(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Notifications.DeleteNotification(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, applog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
