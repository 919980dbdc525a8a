package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func logsAt(times ...time.Time) []HabitLog {
	logs := make([]HabitLog, 0, len(times))
	for i, ts := range times {
		logs = append(logs, HabitLog{ID: string(rune('a' + i)), HabitID: "habit-1", CompletedAt: ts, Value: 1})
	}
	return logs
}

func TestComputeStreaksEmpty(t *testing.T) {
	now := time.Date(2026, time.February, 20, 15, 0, 0, 0, time.UTC)
	require.Equal(t, Streaks{}, ComputeStreaks(nil, now))
}

func TestComputeStreaksSingleDayToday(t *testing.T) {
	now := time.Date(2026, time.February, 20, 15, 0, 0, 0, time.UTC)

	got := ComputeStreaks(logsAt(now.Add(-2*time.Hour)), now)
	require.Equal(t, Streaks{Current: 1, Best: 1}, got)
}

func TestComputeStreaksThreeConsecutiveDays(t *testing.T) {
	now := time.Date(2026, time.February, 20, 15, 0, 0, 0, time.UTC)

	got := ComputeStreaks(logsAt(
		now,
		now.AddDate(0, 0, -1),
		now.AddDate(0, 0, -2),
	), now)
	require.Equal(t, Streaks{Current: 3, Best: 3}, got)
}

func TestComputeStreaksGapResetsRun(t *testing.T) {
	now := time.Date(2026, time.February, 20, 15, 0, 0, 0, time.UTC)

	// Logged today and two days ago; yesterday skipped.
	got := ComputeStreaks(logsAt(now, now.AddDate(0, 0, -2)), now)
	require.Equal(t, Streaks{Current: 1, Best: 1}, got)
}

func TestComputeStreaksYesterdayAnchorStillCounts(t *testing.T) {
	now := time.Date(2026, time.February, 20, 15, 0, 0, 0, time.UTC)

	// No log today yet; yesterday and the day before still form a live streak.
	got := ComputeStreaks(logsAt(now.AddDate(0, 0, -1), now.AddDate(0, 0, -2)), now)
	require.Equal(t, Streaks{Current: 2, Best: 2}, got)
}

func TestComputeStreaksTwoDayGapResetsCurrent(t *testing.T) {
	now := time.Date(2026, time.February, 20, 15, 0, 0, 0, time.UTC)

	got := ComputeStreaks(logsAt(
		now.AddDate(0, 0, -3),
		now.AddDate(0, 0, -4),
		now.AddDate(0, 0, -5),
	), now)
	require.Equal(t, 0, got.Current)
	require.Equal(t, 3, got.Best)
}

func TestComputeStreaksSameDayLogsCollapse(t *testing.T) {
	now := time.Date(2026, time.February, 20, 17, 0, 0, 0, time.UTC)

	morning := time.Date(2026, time.February, 20, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, time.February, 20, 17, 0, 0, 0, time.UTC)

	got := ComputeStreaks(logsAt(morning, evening), now)
	require.Equal(t, Streaks{Current: 1, Best: 1}, got)
}

func TestComputeStreaksBestInHistoryBeatsCurrent(t *testing.T) {
	now := time.Date(2026, time.February, 20, 15, 0, 0, 0, time.UTC)

	got := ComputeStreaks(logsAt(
		now, // current run of 1
		now.AddDate(0, 0, -10),
		now.AddDate(0, 0, -11),
		now.AddDate(0, 0, -12),
		now.AddDate(0, 0, -13),
	), now)
	require.Equal(t, 1, got.Current)
	require.Equal(t, 4, got.Best)
}

func TestComputeStreaksUnsortedInput(t *testing.T) {
	now := time.Date(2026, time.February, 20, 15, 0, 0, 0, time.UTC)

	got := ComputeStreaks(logsAt(
		now.AddDate(0, 0, -2),
		now,
		now.AddDate(0, 0, -1),
	), now)
	require.Equal(t, Streaks{Current: 3, Best: 3}, got)
}
