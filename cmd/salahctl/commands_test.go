package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/salah-sync-engine/internal/adapters/storage"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/services"
	"github.com/comitanigiacomo/salah-sync-engine/internal/logger"
)

// Wednesday.
func fixedNow() time.Time {
	return time.Date(2024, 1, 17, 9, 30, 0, 0, time.UTC)
}

func newTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()

	tracker := services.NewTrackerService(storage.NewMemoryStore(), logger.Discard(), fixedNow)
	tracker.Initialize(context.Background())

	out := &bytes.Buffer{}
	return &Context{
		Ctx:     context.Background(),
		Tracker: tracker,
		Tokens:  services.NewTokenService("cli-secret", "salahctl-test", time.Hour),
		Out:     out,
		Now:     fixedNow,
	}, out
}

// runArgs parses args with the real command grammar and runs the selected command.
func runArgs(t *testing.T, appCtx *Context, args ...string) error {
	t.Helper()

	parser, err := kong.New(&CLI, kong.Name("salahctl"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(appCtx)
}

func TestMarkAndDay(t *testing.T) {
	appCtx, out := newTestContext(t)

	require.NoError(t, runArgs(t, appCtx, "mark", "fajr"))
	require.NoError(t, runArgs(t, appCtx, "mark", "Isha", "2024-01-17"))

	var stats domain.DailyStats
	out.Reset()
	require.NoError(t, runArgs(t, appCtx, "day"))
	require.NoError(t, json.Unmarshal(out.Bytes(), &stats))

	assert.Equal(t, "2024-01-17", stats.Date)
	assert.Equal(t, 2, stats.CompletedCount)
	assert.Equal(t, 40, stats.CompletionRate)
}

func TestUnmarkYesterday(t *testing.T) {
	appCtx, out := newTestContext(t)

	require.NoError(t, runArgs(t, appCtx, "mark", "asr", "yesterday"))
	require.NoError(t, runArgs(t, appCtx, "unmark", "asr", "yesterday"))

	records, err := appCtx.Tracker.GetRecordsForDate("2024-01-16")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Completed)
	assert.NotEmpty(t, out.String())
}

func TestMark_Invalid(t *testing.T) {
	appCtx, _ := newTestContext(t)

	assert.ErrorIs(t, runArgs(t, appCtx, "mark", "witr"), domain.ErrInvalidPrayer)
	assert.ErrorIs(t, runArgs(t, appCtx, "mark", "fajr", "17/01/2024"), domain.ErrInvalidDate)
}

func TestWeek_DefaultsToMonday(t *testing.T) {
	appCtx, out := newTestContext(t)

	require.NoError(t, runArgs(t, appCtx, "week"))

	var stats domain.WeeklyStats
	require.NoError(t, json.Unmarshal(out.Bytes(), &stats))
	assert.Equal(t, "2024-01-15", stats.WeekStart)
	assert.Equal(t, "2024-01-21", stats.WeekEnd)
}

func TestMonth_DefaultsToCurrent(t *testing.T) {
	appCtx, out := newTestContext(t)
	require.NoError(t, runArgs(t, appCtx, "mark", "dhuhr"))
	out.Reset()

	require.NoError(t, runArgs(t, appCtx, "month"))

	var stats domain.MonthlyStats
	require.NoError(t, json.Unmarshal(out.Bytes(), &stats))
	assert.Equal(t, "2024-01", stats.Month)
	assert.Equal(t, 1, stats.CompletedPrayers)
}

func TestStatsAndClear(t *testing.T) {
	appCtx, out := newTestContext(t)

	require.NoError(t, runArgs(t, appCtx, "stats"))
	assert.Contains(t, out.String(), "no prayer records yet")

	require.NoError(t, runArgs(t, appCtx, "mark", "maghrib"))

	assert.Error(t, runArgs(t, appCtx, "clear"))
	assert.NotNil(t, appCtx.Tracker.GetStats())

	require.NoError(t, runArgs(t, appCtx, "clear", "--yes"))
	assert.Nil(t, appCtx.Tracker.GetStats())
}

func TestToken(t *testing.T) {
	appCtx, out := newTestContext(t)

	require.NoError(t, runArgs(t, appCtx, "token", "phone-1"))

	deviceID, err := appCtx.Tokens.ValidateToken(string(bytes.TrimSpace(out.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, "phone-1", deviceID)

	appCtx.Tokens = nil
	assert.Error(t, runArgs(t, appCtx, "token", "phone-1"))
}
