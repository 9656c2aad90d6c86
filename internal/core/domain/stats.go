package domain

import "math"

type DailyStats struct {
	Date           string          `json:"date"`
	CompletedCount int             `json:"completedCount"`
	TotalCount     int             `json:"totalCount"`
	CompletionRate int             `json:"completionRate"`
	Prayers        map[Prayer]bool `json:"prayers"`
}

type WeeklyStats struct {
	WeekStart        string       `json:"weekStart"`
	WeekEnd          string       `json:"weekEnd"`
	TotalPrayers     int          `json:"totalPrayers"`
	CompletedPrayers int          `json:"completedPrayers"`
	DailyStats       []DailyStats `json:"dailyStats"`
}

type MonthlyStats struct {
	Month             string         `json:"month"`
	TotalPrayers      int            `json:"totalPrayers"`
	CompletedPrayers  int            `json:"completedPrayers"`
	CompletionRate    int            `json:"completionRate"`
	PrayerCompletions map[Prayer]int `json:"prayerCompletions"`
}

// OverallStats summarises every record held by the tracker. Streaks count
// consecutive days on which all five prayers were completed.
type OverallStats struct {
	TotalRecords     int    `json:"totalRecords"`
	CompletedRecords int    `json:"completedRecords"`
	CompletionRate   int    `json:"completionRate"`
	FirstDate        string `json:"firstDate"`
	LastDate         string `json:"lastDate"`
	CurrentStreak    int    `json:"currentStreak"`
	LongestStreak    int    `json:"longestStreak"`
}

// CompletionRate returns completed/total as a rounded integer percentage, 0 when total is 0.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
