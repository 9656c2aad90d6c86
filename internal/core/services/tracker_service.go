package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/comitanigiacomo/salah-sync-engine/internal/core/domain"
)

// StorageKey is the key under which the whole record set is persisted as one JSON array.
const StorageKey = "prayer_records"

// TrackerService keeps the sparse set of prayer records in memory and answers
// statistics queries over it. Every mutation is written to the store before it
// becomes visible in memory, so a failed write never leaves the two diverged.
type TrackerService struct {
	store  domain.KeyValueStore
	logger *log.Logger
	now    func() time.Time

	mu      sync.RWMutex
	records []*domain.PrayerRecord
}

func NewTrackerService(store domain.KeyValueStore, logger *log.Logger, now func() time.Time) *TrackerService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if now == nil {
		now = time.Now
	}

	return &TrackerService{
		store:  store,
		logger: logger,
		now:    now,
	}
}

// Initialize (re)loads the persisted record set. Read failures and corrupt
// data are logged and leave the tracker empty rather than failing startup.
func (s *TrackerService) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil

	raw, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			s.logger.Debug("no persisted prayer records, starting empty")
			return
		}
		s.logger.Warn("failed to load prayer records, starting empty", "err", err)
		return
	}

	var stored []*domain.PrayerRecord
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("corrupted prayer records, starting empty", "err", err)
		return
	}

	s.records = s.normalize(stored)
	s.logger.Info("prayer records loaded", "count", len(s.records))
}

// normalize drops malformed entries and collapses duplicate (date, prayer)
// pairs, keeping the last occurrence in its first position.
func (s *TrackerService) normalize(stored []*domain.PrayerRecord) []*domain.PrayerRecord {
	out := make([]*domain.PrayerRecord, 0, len(stored))
	index := make(map[string]int, len(stored))

	for _, r := range stored {
		if r == nil || !r.Prayer.Valid() {
			s.logger.Warn("skipping persisted record with invalid prayer")
			continue
		}
		if _, err := domain.ParseDate(r.Date); err != nil {
			s.logger.Warn("skipping persisted record with invalid date", "date", r.Date)
			continue
		}
		if !r.Completed {
			r.CompletedAt = nil
		}

		key := r.Date + "/" + string(r.Prayer)
		if i, ok := index[key]; ok {
			out[i] = r
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}

	return out
}

func (s *TrackerService) MarkPrayerCompleted(ctx context.Context, prayer domain.Prayer, date string) error {
	return s.mark(ctx, prayer, date, true)
}

func (s *TrackerService) MarkPrayerIncomplete(ctx context.Context, prayer domain.Prayer, date string) error {
	return s.mark(ctx, prayer, date, false)
}

func (s *TrackerService) mark(ctx context.Context, prayer domain.Prayer, date string, completed bool) error {
	if !prayer.Valid() {
		return domain.ErrInvalidPrayer
	}
	if _, err := domain.ParseDate(date); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneRecords(s.records)

	var record *domain.PrayerRecord
	for _, r := range next {
		if r.Matches(date, prayer) {
			record = r
			break
		}
	}
	if record == nil {
		record = domain.NewPrayerRecord(date, prayer)
		next = append(next, record)
	}

	if completed {
		record.MarkCompleted(s.now())
	} else {
		record.MarkIncomplete()
	}

	if err := s.persist(ctx, next); err != nil {
		s.logger.Error("failed to persist prayer record", "date", date, "prayer", prayer, "err", err)
		return err
	}

	s.records = next
	return nil
}

func (s *TrackerService) persist(ctx context.Context, records []*domain.PrayerRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistFailed, err)
	}

	if err := s.store.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistFailed, err)
	}

	return nil
}

// GetRecordsForDate returns the records stored for date in creation order.
func (s *TrackerService) GetRecordsForDate(date string) ([]domain.PrayerRecord, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(r *domain.PrayerRecord) bool {
		return r.Date == date
	}), nil
}

// GetRecordsForDateRange returns records dated within [startDate, endDate].
func (s *TrackerService) GetRecordsForDateRange(startDate, endDate string) ([]domain.PrayerRecord, error) {
	if _, err := domain.ParseDate(startDate); err != nil {
		return nil, err
	}
	if _, err := domain.ParseDate(endDate); err != nil {
		return nil, err
	}
	if startDate > endDate {
		return nil, domain.ErrInvalidRange
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(r *domain.PrayerRecord) bool {
		return r.Date >= startDate && r.Date <= endDate
	}), nil
}

func (s *TrackerService) filter(keep func(*domain.PrayerRecord) bool) []domain.PrayerRecord {
	out := make([]domain.PrayerRecord, 0)
	for _, r := range s.records {
		if keep(r) {
			out = append(out, *r)
		}
	}
	return out
}

func (s *TrackerService) GetDailyStats(date string) (*domain.DailyStats, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := s.dailyStats(date)
	return &stats, nil
}

func (s *TrackerService) dailyStats(date string) domain.DailyStats {
	prayers := make(map[domain.Prayer]bool, domain.PrayersPerDay)
	for _, p := range domain.Prayers {
		prayers[p] = false
	}

	completed := 0
	for _, r := range s.records {
		if r.Date != date {
			continue
		}
		prayers[r.Prayer] = r.Completed
		if r.Completed {
			completed++
		}
	}

	return domain.DailyStats{
		Date:           date,
		CompletedCount: completed,
		TotalCount:     domain.PrayersPerDay,
		CompletionRate: domain.CompletionRate(completed, domain.PrayersPerDay),
		Prayers:        prayers,
	}
}

// GetWeeklyStats aggregates the seven days starting at weekStart. weekStart is
// used as given; aligning it to a week boundary is up to the caller.
func (s *TrackerService) GetWeeklyStats(weekStart string) (*domain.WeeklyStats, error) {
	start, err := domain.ParseDate(weekStart)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.WeeklyStats{
		WeekStart:    weekStart,
		WeekEnd:      domain.DateKey(start.AddDate(0, 0, 6)),
		TotalPrayers: domain.PrayersPerDay * 7,
		DailyStats:   make([]domain.DailyStats, 0, 7),
	}

	currentDate := start
	for i := 0; i < 7; i++ {
		day := s.dailyStats(domain.DateKey(currentDate))
		stats.CompletedPrayers += day.CompletedCount
		stats.DailyStats = append(stats.DailyStats, day)

		currentDate = currentDate.AddDate(0, 0, 1)
	}

	return stats, nil
}

// GetMonthlyStats counts only the records that exist in month, so days that
// were never touched do not lower the completion rate.
func (s *TrackerService) GetMonthlyStats(month string) (*domain.MonthlyStats, error) {
	if _, err := domain.ParseMonth(month); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.MonthlyStats{
		Month:             month,
		PrayerCompletions: make(map[domain.Prayer]int, domain.PrayersPerDay),
	}
	for _, p := range domain.Prayers {
		stats.PrayerCompletions[p] = 0
	}

	prefix := month + "-"
	for _, r := range s.records {
		if !strings.HasPrefix(r.Date, prefix) {
			continue
		}
		stats.TotalPrayers++
		if r.Completed {
			stats.CompletedPrayers++
			stats.PrayerCompletions[r.Prayer]++
		}
	}

	stats.CompletionRate = domain.CompletionRate(stats.CompletedPrayers, stats.TotalPrayers)

	return stats, nil
}

// GetStats summarises all records, or returns nil when there is no history.
func (s *TrackerService) GetStats() *domain.OverallStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return nil
	}

	stats := &domain.OverallStats{
		TotalRecords: len(s.records),
		FirstDate:    s.records[0].Date,
		LastDate:     s.records[0].Date,
	}

	completedPerDay := make(map[string]int)
	for _, r := range s.records {
		if r.Date < stats.FirstDate {
			stats.FirstDate = r.Date
		}
		if r.Date > stats.LastDate {
			stats.LastDate = r.Date
		}
		if r.Completed {
			stats.CompletedRecords++
			completedPerDay[r.Date]++
		}
	}

	stats.CompletionRate = domain.CompletionRate(stats.CompletedRecords, stats.TotalRecords)

	var fullDays []time.Time
	for date, n := range completedPerDay {
		if n < domain.PrayersPerDay {
			continue
		}
		if d, err := domain.ParseDate(date); err == nil {
			fullDays = append(fullDays, d)
		}
	}

	today, _ := domain.ParseDate(domain.DateKey(s.now()))
	stats.CurrentStreak, stats.LongestStreak = calculateStreaks(fullDays, today)

	return stats
}

// ClearAllData removes the persisted record set and then empties memory.
func (s *TrackerService) ClearAllData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Remove(ctx, StorageKey); err != nil {
		s.logger.Error("failed to clear prayer records", "err", err)
		return fmt.Errorf("%w: %w", domain.ErrPersistFailed, err)
	}

	s.records = nil
	s.logger.Info("prayer records cleared")
	return nil
}

func cloneRecords(records []*domain.PrayerRecord) []*domain.PrayerRecord {
	out := make([]*domain.PrayerRecord, len(records), len(records)+1)
	for i, r := range records {
		c := *r
		out[i] = &c
	}
	return out
}
