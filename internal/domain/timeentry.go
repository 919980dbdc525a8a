package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrTimeEntryNotFound is returned when a time entry cannot be located for the user.
var ErrTimeEntryNotFound = errors.New("time entry not found")

// TimeEntry records tracked time, optionally attached to a project or task.
// A nil EndTime means the timer is still running.
type TimeEntry struct {
	ID          string
	UserID      string
	ProjectID   *string
	TaskID      *string
	StartTime   time.Time
	EndTime     *time.Time
	Duration    *int // seconds, set when stopped
	Description string
	CreatedAt   time.Time
}

// TimeCursor is the pagination token for time entry listings.
type TimeCursor struct {
	StartTime time.Time
	ID        string
}

// TimeEntryRepository captures time entry persistence operations.
type TimeEntryRepository interface {
	Insert(ctx context.Context, entry TimeEntry) error
	Get(ctx context.Context, userID, entryID string) (*TimeEntry, error)
	Update(ctx context.Context, entry TimeEntry) error
	Delete(ctx context.Context, userID, entryID string) error
	ListRunning(ctx context.Context, userID string) ([]TimeEntry, error)
	ListByUser(ctx context.Context, userID string, cursor *TimeCursor, limit int) ([]TimeEntry, *TimeCursor, error)
}

// TimeService orchestrates the timer workflows. Only one timer runs per user:
// starting a new one stops whatever is running first.
type TimeService struct {
	repo TimeEntryRepository
}

// NewTimeService constructs a TimeService.
func NewTimeService(repo TimeEntryRepository) *TimeService {
	return &TimeService{repo: repo}
}

// StartTimer stops any running entries for the user and opens a new one.
func (s *TimeService) StartTimer(ctx context.Context, userID string, projectID, taskID *string, description string) (*TimeEntry, error) {
	running, err := s.repo.ListRunning(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, entry := range running {
		if _, err := s.stop(ctx, entry); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	entry := TimeEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		ProjectID:   projectID,
		TaskID:      taskID,
		StartTime:   now,
		Description: description,
		CreatedAt:   now,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// StopTimer closes an owned entry, computing its duration in seconds.
func (s *TimeService) StopTimer(ctx context.Context, userID, entryID string) (*TimeEntry, error) {
	entry, err := s.repo.Get(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrTimeEntryNotFound
	}
	return s.stop(ctx, *entry)
}

func (s *TimeService) stop(ctx context.Context, entry TimeEntry) (*TimeEntry, error) {
	now := time.Now().UTC()
	duration := int(now.Sub(entry.StartTime).Seconds())
	entry.EndTime = &now
	entry.Duration = &duration
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RunningTimer returns the user's active entry, or nil when none is running.
func (s *TimeService) RunningTimer(ctx context.Context, userID string) (*TimeEntry, error) {
	running, err := s.repo.ListRunning(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(running) == 0 {
		return nil, nil
	}
	return &running[0], nil
}

// ListEntries returns time entries newest-first with cursor pagination.
func (s *TimeService) ListEntries(ctx context.Context, userID string, cursor *TimeCursor, limit int) ([]TimeEntry, *TimeCursor, error) {
	return s.repo.ListByUser(ctx, userID, cursor, limit)
}

// DeleteEntry removes an owned time entry.
func (s *TimeService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	return s.repo.Delete(ctx, userID, entryID)
}
