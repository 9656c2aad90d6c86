package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidPrayer = errors.New("invalid prayer (must be fajr, dhuhr, asr, maghrib or isha)")
	ErrInvalidDate   = errors.New("invalid date format (must be YYYY-MM-DD)")
	ErrInvalidMonth  = errors.New("invalid month format (must be YYYY-MM)")
	ErrInvalidRange  = errors.New("start date cannot be after end date")
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

type Prayer string

const (
	Fajr    Prayer = "fajr"
	Dhuhr   Prayer = "dhuhr"
	Asr     Prayer = "asr"
	Maghrib Prayer = "maghrib"
	Isha    Prayer = "isha"
)

// Prayers lists the tracked daily prayers in the order they occur.
var Prayers = []Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha}

// PrayersPerDay is the fixed denominator for daily completion.
const PrayersPerDay = 5

func (p Prayer) Valid() bool {
	switch p {
	case Fajr, Dhuhr, Asr, Maghrib, Isha:
		return true
	}
	return false
}

func ParsePrayer(s string) (Prayer, error) {
	p := Prayer(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", ErrInvalidPrayer
	}
	return p, nil
}

// ParseDate validates a YYYY-MM-DD key. Keys must stay zero-padded so that
// lexicographic order matches chronological order.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil || t.Format(MonthLayout) != s {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a date key by n calendar days, rolling over month and year.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return DateKey(t.AddDate(0, 0, n)), nil
}
