// Package notify periodically plans and persists due-date notifications.
package notify

import (
	"context"
	"errors"
	"log"
	"time"

	"example.com/lifeboard/internal/domain"
)

type taskSource interface {
	ListIncompleteDue(ctx context.Context, userID string) ([]domain.Task, error)
}

type notificationSink interface {
	Insert(ctx context.Context, draft domain.NotificationDraft) error
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	UsersWithDueTasks(ctx context.Context, before time.Time) ([]string, error)
}

// Scanner walks users with due tasks and records the notifications they are
// owed, deduplicated against the existing feed.
type Scanner struct {
	tasks         taskSource
	notifications notificationSink
	interval      time.Duration
	logger        *log.Logger
}

// NewScanner constructs a Scanner.
func NewScanner(tasks taskSource, notifications notificationSink, interval time.Duration) *Scanner {
	return &Scanner{
		tasks:         tasks,
		notifications: notifications,
		interval:      interval,
		logger:        log.New(log.Writer(), "[notify] ", log.LstdFlags),
	}
}

// Start launches the periodic scan loop. It should be called in a goroutine.
func (s *Scanner) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx, time.Now().UTC()); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Printf("scan error: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs one scan pass and returns the number of notifications
// created. A failed insert for one user does not abort the others.
func (s *Scanner) RunOnce(ctx context.Context, now time.Time) (int, error) {
	tomorrowStart := startOfDay(now).AddDate(0, 0, 1)

	users, err := s.notifications.UsersWithDueTasks(ctx, tomorrowStart)
	if err != nil {
		return 0, err
	}

	created := 0
	var errs error
	for _, userID := range users {
		n, userErr := s.scanUser(ctx, userID, now)
		created += n
		if userErr != nil {
			errs = errors.Join(errs, userErr)
		}
	}

	scanCounter.Inc()
	createdCounter.Add(float64(created))
	return created, errs
}

func (s *Scanner) scanUser(ctx context.Context, userID string, now time.Time) (int, error) {
	tasks, err := s.tasks.ListIncompleteDue(ctx, userID)
	if err != nil {
		return 0, err
	}

	existing, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	created := 0
	var errs error
	for _, draft := range domain.PlanNotifications(userID, tasks, existing, now) {
		if err := s.notifications.Insert(ctx, draft); err != nil {
			s.logger.Printf("insert failed (user=%s, link=%s): %v", userID, draft.Link, err)
			errs = errors.Join(errs, err)
			continue
		}
		created++
	}
	return created, errs
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
