package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/comitanigiacomo/salah-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/services"
)

// Context is handed to every command's Run method.
type Context struct {
	Ctx     context.Context
	Tracker *services.TrackerService
	Tokens  *services.TokenService
	Out     io.Writer
	Now     func() time.Time
}

func (c *Context) print(v any) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolveDate accepts YYYY-MM-DD, "today" or "yesterday".
func (c *Context) resolveDate(s string) (string, error) {
	switch s {
	case "", "today":
		return domain.DateKey(c.Now()), nil
	case "yesterday":
		return domain.DateKey(c.Now().AddDate(0, 0, -1)), nil
	}
	if _, err := domain.ParseDate(s); err != nil {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD, 'today' or 'yesterday': %w", s, err)
	}
	return s, nil
}

type MarkCmd struct {
	Prayer string `arg:"" help:"Prayer name (fajr, dhuhr, asr, maghrib, isha)."`
	Date   string `arg:"" optional:"" help:"Date (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (m *MarkCmd) Run(ctx *Context) error {
	return setCompleted(ctx, m.Prayer, m.Date, true)
}

type UnmarkCmd struct {
	Prayer string `arg:"" help:"Prayer name (fajr, dhuhr, asr, maghrib, isha)."`
	Date   string `arg:"" optional:"" help:"Date (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (u *UnmarkCmd) Run(ctx *Context) error {
	return setCompleted(ctx, u.Prayer, u.Date, false)
}

func setCompleted(ctx *Context, name, dateArg string, completed bool) error {
	prayer, err := domain.ParsePrayer(name)
	if err != nil {
		return fmt.Errorf("unknown prayer %q: %w", name, err)
	}
	date, err := ctx.resolveDate(dateArg)
	if err != nil {
		return err
	}

	if completed {
		err = ctx.Tracker.MarkPrayerCompleted(ctx.Ctx, prayer, date)
	} else {
		err = ctx.Tracker.MarkPrayerIncomplete(ctx.Ctx, prayer, date)
	}
	if err != nil {
		return err
	}

	stats, err := ctx.Tracker.GetDailyStats(date)
	if err != nil {
		return err
	}
	return ctx.print(stats)
}

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (d *DayCmd) Run(ctx *Context) error {
	date, err := ctx.resolveDate(d.Date)
	if err != nil {
		return err
	}
	stats, err := ctx.Tracker.GetDailyStats(date)
	if err != nil {
		return err
	}
	return ctx.print(stats)
}

type WeekCmd struct {
	Start string `arg:"" optional:"" help:"First day of the week (YYYY-MM-DD). Defaults to the Monday of the current week."`
}

func (w *WeekCmd) Run(ctx *Context) error {
	start := w.Start
	if start == "" {
		now := ctx.Now()
		offset := (int(now.Weekday()) + 6) % 7
		start = domain.DateKey(now.AddDate(0, 0, -offset))
	} else if _, err := domain.ParseDate(start); err != nil {
		return fmt.Errorf("invalid week start %q: %w", start, err)
	}

	stats, err := ctx.Tracker.GetWeeklyStats(start)
	if err != nil {
		return err
	}
	return ctx.print(stats)
}

type MonthCmd struct {
	Month string `arg:"" optional:"" help:"Month (YYYY-MM). Defaults to the current month."`
}

func (m *MonthCmd) Run(ctx *Context) error {
	month := m.Month
	if month == "" {
		month = ctx.Now().Format(domain.MonthLayout)
	}

	stats, err := ctx.Tracker.GetMonthlyStats(month)
	if err != nil {
		return err
	}
	return ctx.print(stats)
}

type StatsCmd struct{}

func (s *StatsCmd) Run(ctx *Context) error {
	stats := ctx.Tracker.GetStats()
	if stats == nil {
		_, err := fmt.Fprintln(ctx.Out, "no prayer records yet")
		return err
	}
	return ctx.print(stats)
}

type ClearCmd struct {
	Yes bool `help:"Confirm deletion of every record." short:"y"`
}

func (c *ClearCmd) Run(ctx *Context) error {
	if !c.Yes {
		return errors.New("refusing to delete every record without --yes")
	}
	if err := ctx.Tracker.ClearAllData(ctx.Ctx); err != nil {
		return err
	}
	_, err := fmt.Fprintln(ctx.Out, "all prayer records deleted")
	return err
}

type TokenCmd struct {
	DeviceID string `arg:"" help:"Device the token is issued for."`
}

func (t *TokenCmd) Run(ctx *Context) error {
	if ctx.Tokens == nil {
		return errors.New("AUTH_SECRET is not set")
	}
	token, err := ctx.Tokens.GenerateToken(t.DeviceID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.Out, token)
	return err
}
