package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/lifeboard/internal/domain"
)

var scanNow = time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)

func overdueTask(id string) domain.Task {
	due := scanNow.AddDate(0, 0, -2)
	return domain.Task{ID: id, Title: "Pay rent", Status: domain.TaskStatusTodo, DueDate: &due}
}

func TestRunOnceCreatesOverdueNotifications(t *testing.T) {
	tasks := &stubTasks{due: map[string][]domain.Task{
		"user-1": {overdueTask("t1")},
	}}
	sink := &stubSink{users: []string{"user-1"}}

	scanner := NewScanner(tasks, sink, time.Minute)

	created, err := scanner.RunOnce(context.Background(), scanNow)
	require.NoError(t, err)
	require.Equal(t, 1, created)
	require.Len(t, sink.inserted, 1)
	require.Equal(t, domain.NotificationOverdue, sink.inserted[0].Type)
	require.Equal(t, "/tasks/t1", sink.inserted[0].Link)
}

func TestRunOnceIsIdempotentWithinADay(t *testing.T) {
	tasks := &stubTasks{due: map[string][]domain.Task{
		"user-1": {overdueTask("t1")},
	}}
	sink := &stubSink{users: []string{"user-1"}}

	scanner := NewScanner(tasks, sink, time.Minute)

	created, err := scanner.RunOnce(context.Background(), scanNow)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	// The second pass sees the notification the first pass created.
	created, err = scanner.RunOnce(context.Background(), scanNow.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, 0, created)
	require.Len(t, sink.inserted, 1)
}

func TestRunOnceContinuesPastFailingUser(t *testing.T) {
	tasks := &stubTasks{due: map[string][]domain.Task{
		"user-1": {overdueTask("t1")},
		"user-2": {overdueTask("t2")},
	}}
	sink := &stubSink{
		users:      []string{"user-1", "user-2"},
		insertErrs: map[string]error{"/tasks/t1": errors.New("insert failed")},
	}

	scanner := NewScanner(tasks, sink, time.Minute)

	created, err := scanner.RunOnce(context.Background(), scanNow)
	require.Error(t, err)
	require.Equal(t, 1, created)
	require.Len(t, sink.inserted, 1)
	require.Equal(t, "/tasks/t2", sink.inserted[0].Link)
}

type stubTasks struct {
	due map[string][]domain.Task
}

func (s *stubTasks) ListIncompleteDue(_ context.Context, userID string) ([]domain.Task, error) {
	return s.due[userID], nil
}

type stubSink struct {
	users      []string
	inserted   []domain.NotificationDraft
	insertErrs map[string]error
}

func (s *stubSink) Insert(_ context.Context, draft domain.NotificationDraft) error {
	if err := s.insertErrs[draft.Link]; err != nil {
		return err
	}
	s.inserted = append(s.inserted, draft)
	return nil
}

func (s *stubSink) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	out := []domain.Notification{}
	for i, draft := range s.inserted {
		if draft.UserID != userID {
			continue
		}
		out = append(out, domain.Notification{
			ID:        draft.Link,
			UserID:    draft.UserID,
			Title:     draft.Title,
			Message:   draft.Message,
			Type:      draft.Type,
			Link:      draft.Link,
			CreatedAt: scanNow.Add(time.Duration(i) * time.Second),
		})
	}
	return out, nil
}

func (s *stubSink) UsersWithDueTasks(_ context.Context, _ time.Time) ([]string, error) {
	return s.users, nil
}
