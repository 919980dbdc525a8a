package api

import (
	"net/http"
	"time"

	"example.com/lifeboard/internal/auth"
	"example.com/lifeboard/internal/domain"
)

// NotificationView exposes a feed entry.
type NotificationView struct {
	NotificationID string     `json:"notification_id"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	Type           string     `json:"type"`
	Link           string     `json:"link"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toNotificationView(n domain.Notification) NotificationView {
	return NotificationView{
		NotificationID: n.ID,
		Title:          n.Title,
		Message:        n.Message,
		Type:           string(n.Type),
		Link:           n.Link,
		ReadAt:         n.ReadAt,
		CreatedAt:      n.CreatedAt,
	}
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	notifications, err := h.notifications.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]NotificationView, 0, len(notifications))
	unread := 0
	for _, n := range notifications {
		if n.ReadAt == nil {
			unread++
		}
		items = append(items, toNotificationView(n))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":        items,
		"unread_count": unread,
	})
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllRead(r.Context(), userID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
