//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/lifeboard/internal/domain"
)

func TestRepositoryScopesRowsToOwner(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("lifeboard"),
		postgrescontainer.WithUsername("lifeboard"),
		postgrescontainer.WithPassword("lifeboard"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, Migrate(ctx, pool))

	repo := NewRepository(pool)

	userID := uuid.NewString()
	otherUser := uuid.NewString()
	now := time.Now().UTC()

	area := domain.LifeArea{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      "Health",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Kanban.CreateArea(ctx, area))

	board := domain.Board{
		ID:        uuid.NewString(),
		AreaID:    area.ID,
		Name:      "Fitness",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Kanban.CreateBoard(ctx, userID, board))

	column := domain.Column{
		ID:        uuid.NewString(),
		BoardID:   board.ID,
		Name:      "Doing",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Kanban.CreateColumn(ctx, userID, column))

	project := domain.Project{
		ID:        uuid.NewString(),
		ColumnID:  column.ID,
		Title:     "Marathon prep",
		Priority:  domain.PriorityHigh,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Kanban.CreateProject(ctx, userID, project))

	task := domain.Task{
		ID:        uuid.NewString(),
		ProjectID: project.ID,
		Title:     "Long run",
		Status:    domain.TaskStatusTodo,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Tasks.Create(ctx, userID, task))

	stored, err := repo.Tasks.Get(ctx, userID, task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, task.Title, stored.Title)

	crossUser, err := repo.Tasks.Get(ctx, otherUser, task.ID)
	require.NoError(t, err)
	require.Nil(t, crossUser, "ownership join chain should hide other users' tasks")

	// Task creation must leave a task.created row in the outbox.
	var eventType string
	err = pool.QueryRow(ctx,
		`SELECT event_type FROM outbox WHERE aggregate_id = $1`, task.ID).Scan(&eventType)
	require.NoError(t, err)
	require.Equal(t, "task.created", eventType)

	// Completing the task records task.completed alongside the status write.
	completed := task
	completed.Status = domain.TaskStatusDone
	completedAt := time.Now().UTC()
	completed.CompletedAt = &completedAt
	completed.UpdatedAt = completedAt
	require.NoError(t, repo.Tasks.UpdateStatus(ctx, userID, completed))

	var count int
	err = pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM outbox WHERE aggregate_id = $1 AND event_type = 'task.completed'`, task.ID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestHabitLogIncrementsSameDay(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("lifeboard"),
		postgrescontainer.WithUsername("lifeboard"),
		postgrescontainer.WithPassword("lifeboard"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, Migrate(ctx, pool))

	repo := NewRepository(pool)
	service := domain.NewHabitService(repo.Habits)

	userID := uuid.NewString()
	habit, err := service.CreateHabit(ctx, userID, domain.CreateHabitInput{Name: "Stretch"})
	require.NoError(t, err)

	day := time.Now().UTC()
	require.NoError(t, service.LogHabit(ctx, userID, habit.ID, day))
	require.NoError(t, service.LogHabit(ctx, userID, habit.ID, day))

	logs, err := repo.Habits.ListLogs(ctx, userID, habit.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, 2, logs[0].Value)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
