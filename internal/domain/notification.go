package domain

import (
	"context"
	"fmt"
	"time"
)

// NotificationType classifies why a notification was raised.
type NotificationType string

const (
	NotificationOverdue  NotificationType = "overdue"
	NotificationDueToday NotificationType = "due_today"
)

// Notification is a persisted alert shown in the user's notification feed.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      NotificationType
	Link      string
	ReadAt    *time.Time
	CreatedAt time.Time
}

// NotificationDraft is a planned notification the caller is responsible for
// persisting.
type NotificationDraft struct {
	UserID  string
	Title   string
	Message string
	Type    NotificationType
	Link    string
}

// TaskLink is the in-app link notifications point at for a task.
func TaskLink(taskID string) string {
	return "/tasks/" + taskID
}

// PlanNotifications decides which due-date notifications a user should
// receive, deduplicated against what already exists. Overdue alerts are
// suppressed when one with the same link was already created today; due-today
// alerts are suppressed when one with the same link exists at all, with no
// day bound. The asymmetry reproduces the original behaviour on purpose: a
// task due today notifies once ever, not once per day.
func PlanNotifications(userID string, tasks []Task, existing []Notification, now time.Time) []NotificationDraft {
	todayStart := startOfDay(now)
	tomorrowStart := todayStart.AddDate(0, 0, 1)

	var drafts []NotificationDraft
	for _, task := range tasks {
		if task.CompletedAt != nil || task.DueDate == nil {
			continue
		}

		due := *task.DueDate
		link := TaskLink(task.ID)

		switch {
		case due.Before(todayStart):
			if hasNotification(existing, NotificationOverdue, link, &todayStart) {
				continue
			}
			drafts = append(drafts, NotificationDraft{
				UserID:  userID,
				Title:   fmt.Sprintf("Overdue Task: %s", task.Title),
				Message: fmt.Sprintf("Task %q was due on %s.", task.Title, due.Format("Jan 2, 2006")),
				Type:    NotificationOverdue,
				Link:    link,
			})
		case due.Before(tomorrowStart):
			if hasNotification(existing, NotificationDueToday, link, nil) {
				continue
			}
			drafts = append(drafts, NotificationDraft{
				UserID:  userID,
				Title:   fmt.Sprintf("Task Due Today: %s", task.Title),
				Message: fmt.Sprintf("Task %q is due today.", task.Title),
				Type:    NotificationDueToday,
				Link:    link,
			})
		}
	}
	return drafts
}

// hasNotification reports whether a matching notification exists, optionally
// bounded to entries created at or after since.
func hasNotification(existing []Notification, typ NotificationType, link string, since *time.Time) bool {
	for _, n := range existing {
		if n.Type != typ || n.Link != link {
			continue
		}
		if since == nil || !n.CreatedAt.Before(*since) {
			return true
		}
	}
	return false
}

// NotificationRepository captures notification persistence operations.
type NotificationRepository interface {
	Insert(ctx context.Context, draft NotificationDraft) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// NotificationService exposes the notification feed operations.
type NotificationService struct {
	repo NotificationRepository
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// List returns the user's notifications, unread first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// MarkRead sets read_at for a single notification.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead sets read_at for every unread notification of the user.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}
