package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/metrics"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/service"
)

type NotificationHandler struct {
	notifications service.NotificationService
	log           logger.Logger
	metrics       *metrics.Manager
}

func NewNotificationHandler(notifications service.NotificationService, log logger.Logger, m *metrics.Manager) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, log: log, metrics: m}
}

func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := h.notifications.List(r.Context(), actorFrom(r.Context()), limit, offset)
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifications.UnreadCount(r.Context(), actorFrom(r.Context()))
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int64{"unread": count})
}

func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	err := h.notifications.MarkRead(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "notificationID"))
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}

func (h *NotificationHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.MarkAllRead(r.Context(), actorFrom(r.Context())); err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
