package services

import (
	"sort"
	"time"
)

// calculateStreaks returns the current and longest run of consecutive days in
// days. The current streak is alive while its most recent day is today or
// yesterday. days must be unique midnight-UTC dates.
func calculateStreaks(days []time.Time, today time.Time) (int, int) {
	if len(days) == 0 {
		return 0, 0
	}

	sorted := make([]time.Time, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].After(sorted[j])
	})

	consecutive := func(later, earlier time.Time) bool {
		return earlier.AddDate(0, 0, 1).Equal(later)
	}

	currentStreak := 0
	latest := sorted[0]
	if latest.Equal(today) || consecutive(today, latest) {
		currentStreak = 1
		for i := 0; i < len(sorted)-1; i++ {
			if !consecutive(sorted[i], sorted[i+1]) {
				break
			}
			currentStreak++
		}
	}

	longestStreak := 0
	tempStreak := 1
	for i := 0; i < len(sorted)-1; i++ {
		if consecutive(sorted[i], sorted[i+1]) {
			tempStreak++
			continue
		}
		if tempStreak > longestStreak {
			longestStreak = tempStreak
		}
		tempStreak = 1
	}
	if tempStreak > longestStreak {
		longestStreak = tempStreak
	}

	return currentStreak, longestStreak
}
