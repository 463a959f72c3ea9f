package refresh

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Scheduler invokes a callback on a 5-field cron schedule. It polls
// rather than sleeping until the exact fire time, so a suspended host
// catches up within one poll interval.
type Scheduler struct {
	expr string
	run  func(ctx context.Context)

	mu   sync.Mutex
	next time.Time
}

// NewScheduler creates a scheduler firing run per the cron expression.
func NewScheduler(expr string, run func(ctx context.Context)) *Scheduler {
	return &Scheduler{expr: expr, run: run}
}

// Run blocks until ctx is cancelled. An invalid expression logs a warning
// and returns immediately.
func (s *Scheduler) Run(ctx context.Context) {
	first := nextCronRun(s.expr, time.Now())
	if first.IsZero() {
		slog.Warn("invalid refresh schedule", "expr", s.expr)
		return
	}
	s.setNext(first)
	slog.Info("refresh scheduler started", "expr", s.expr, "next", first.Format(time.RFC3339))

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.onTimer(ctx)
		}
	}
}

// Next reports the upcoming fire time, zero when not running.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

func (s *Scheduler) setNext(t time.Time) {
	s.mu.Lock()
	s.next = t
	s.mu.Unlock()
}

func (s *Scheduler) onTimer(ctx context.Context) {
	due := s.Next()
	if due.IsZero() || time.Now().Before(due) {
		return
	}

	start := time.Now()
	s.run(ctx)
	slog.Info("scheduled refresh finished", "took", time.Since(start).Round(time.Millisecond))

	s.setNext(nextCronRun(s.expr, time.Now()))
}

// nextCronRun computes the next fire time for a standard 5-field cron
// expression (minute hour day-of-month month day-of-week) in now's
// location. Returns the zero time when the expression is invalid or
// nothing matches within a year.
func nextCronRun(expr string, now time.Time) time.Time {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return time.Time{}
	}

	minutes := parseCronField(fields[0], 0, 59)
	hours := parseCronField(fields[1], 0, 23)
	doms := parseCronField(fields[2], 1, 31)
	months := parseCronField(fields[3], 1, 12)
	dows := parseCronField(fields[4], 0, 6)
	if minutes == nil || hours == nil || doms == nil || months == nil || dows == nil {
		return time.Time{}
	}

	loc := now.Location()
	// Start from the next whole minute
	t := now.Truncate(time.Minute).Add(time.Minute)

	// Search up to 366 days ahead
	end := t.Add(366 * 24 * time.Hour)
	for t.Before(end) {
		if months[int(t.Month())] && doms[t.Day()] && dows[int(t.Weekday())] &&
			hours[t.Hour()] && minutes[t.Minute()] {
			return t
		}

		// Skip whole months and days that cannot match before stepping
		// minute by minute.
		if !months[int(t.Month())] {
			t = time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, loc)
			continue
		}
		if !doms[t.Day()] || !dows[int(t.Weekday())] {
			t = time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, loc)
			continue
		}
		if !hours[t.Hour()] {
			t = t.Truncate(time.Hour).Add(time.Hour)
			continue
		}
		t = t.Add(time.Minute)
	}

	return time.Time{}
}

// parseCronField parses a single cron field into the set of matching
// values. Fields support numbers, *, */N, ranges (a-b, a-b/N) and lists
// (a,b,c). Returns nil on invalid input.
func parseCronField(field string, min, max int) map[int]bool {
	result := make(map[int]bool)

	for _, part := range strings.Split(field, ",") {
		part = strings.TrimSpace(part)

		if strings.HasPrefix(part, "*/") {
			step, err := strconv.Atoi(part[2:])
			if err != nil || step <= 0 {
				return nil
			}
			for i := min; i <= max; i += step {
				result[i] = true
			}
			continue
		}

		if part == "*" {
			for i := min; i <= max; i++ {
				result[i] = true
			}
			continue
		}

		if strings.Contains(part, "-") {
			rangeParts := strings.SplitN(part, "/", 2)
			bounds := strings.SplitN(rangeParts[0], "-", 2)
			if len(bounds) != 2 {
				return nil
			}
			lo, err1 := strconv.Atoi(bounds[0])
			hi, err2 := strconv.Atoi(bounds[1])
			if err1 != nil || err2 != nil || lo < min || hi > max {
				return nil
			}
			step := 1
			if len(rangeParts) == 2 {
				s, err := strconv.Atoi(rangeParts[1])
				if err != nil || s <= 0 {
					return nil
				}
				step = s
			}
			for i := lo; i <= hi; i += step {
				result[i] = true
			}
			continue
		}

		val, err := strconv.Atoi(part)
		if err != nil || val < min || val > max {
			return nil
		}
		result[val] = true
	}

	return result
}
