package domain

import "time"

type PrayerRecord struct {
	Date        string     `json:"date"`
	Prayer      Prayer     `json:"prayer"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func NewPrayerRecord(date string, prayer Prayer) *PrayerRecord {
	return &PrayerRecord{
		Date:   date,
		Prayer: prayer,
	}
}

func (r *PrayerRecord) MarkCompleted(at time.Time) {
	at = at.UTC()
	r.Completed = true
	r.CompletedAt = &at
}

func (r *PrayerRecord) MarkIncomplete() {
	r.Completed = false
	r.CompletedAt = nil
}

func (r *PrayerRecord) Matches(date string, prayer Prayer) bool {
	return r.Date == date && r.Prayer == prayer
}
