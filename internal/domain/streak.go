package domain

import (
	"sort"
	"time"
)

// Streaks holds the consecutive-day counters for a habit.
type Streaks struct {
	Current int
	Best    int
}

// ComputeStreaks derives the current and best consecutive-day streaks from a
// habit's completion log. Multiple logs on the same calendar day count as one
// occurrence. The current streak is anchored at today or yesterday relative
// to now; a gap of two or more days resets it to zero.
func ComputeStreaks(logs []HabitLog, now time.Time) Streaks {
	if len(logs) == 0 {
		return Streaks{}
	}

	days := uniqueDaysDesc(logs)

	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	var current int
	if days[0].Equal(today) || days[0].Equal(yesterday) {
		check := days[0]
		for _, day := range days {
			if !day.Equal(check) {
				break
			}
			current++
			check = check.AddDate(0, 0, -1)
		}
	}

	best := 0
	run := 0
	var prev time.Time
	for i, day := range days {
		if i == 0 || prev.AddDate(0, 0, -1).Equal(day) {
			run++
		} else {
			if run > best {
				best = run
			}
			run = 1
		}
		prev = day
	}
	if run > best {
		best = run
	}

	return Streaks{Current: current, Best: best}
}

// uniqueDaysDesc collapses logs to distinct calendar days, newest first.
func uniqueDaysDesc(logs []HabitLog) []time.Time {
	seen := make(map[time.Time]struct{}, len(logs))
	days := make([]time.Time, 0, len(logs))
	for _, log := range logs {
		day := startOfDay(log.CompletedAt)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
