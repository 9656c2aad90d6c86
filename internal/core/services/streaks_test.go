package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateStreaks(t *testing.T) {
	today := time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)
	daysAgo := func(n int) time.Time {
		return today.AddDate(0, 0, -n)
	}

	tests := []struct {
		name        string
		days        []time.Time
		wantCurrent int
		wantLongest int
	}{
		{name: "No days", days: nil, wantCurrent: 0, wantLongest: 0},
		{name: "Only today", days: []time.Time{today}, wantCurrent: 1, wantLongest: 1},
		{name: "Only yesterday (still alive)", days: []time.Time{daysAgo(1)}, wantCurrent: 1, wantLongest: 1},
		{name: "Two days ago (broken)", days: []time.Time{daysAgo(2)}, wantCurrent: 0, wantLongest: 1},
		{
			name:        "Unsorted run ending today",
			days:        []time.Time{daysAgo(2), today, daysAgo(1)},
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "Old long run, short current run",
			days:        []time.Time{today, daysAgo(5), daysAgo(6), daysAgo(7), daysAgo(8)},
			wantCurrent: 1,
			wantLongest: 4,
		},
		{
			name:        "Across a month boundary",
			days:        []time.Time{daysAgo(20), daysAgo(21), daysAgo(22)},
			wantCurrent: 0,
			wantLongest: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := calculateStreaks(tt.days, today)
			assert.Equal(t, tt.wantCurrent, current)
			assert.Equal(t, tt.wantLongest, longest)
		})
	}
}
