package refresh

import (
	"context"
	"testing"
	"time"
)

func TestParseCronField(t *testing.T) {
	tests := []struct {
		field string
		min   int
		max   int
		want  []int
	}{
		{"*", 0, 59, nil},
		{"5", 0, 59, []int{5}},
		{"0", 0, 23, []int{0}},
		{"*/15", 0, 59, []int{0, 15, 30, 45}},
		{"1-5", 0, 6, []int{1, 2, 3, 4, 5}},
		{"1,3,5", 1, 12, []int{1, 3, 5}},
		{"1-10/3", 0, 59, []int{1, 4, 7, 10}},
	}

	for _, tt := range tests {
		result := parseCronField(tt.field, tt.min, tt.max)
		if result == nil {
			t.Errorf("parseCronField(%q, %d, %d) returned nil", tt.field, tt.min, tt.max)
			continue
		}

		if tt.field == "*" {
			for i := tt.min; i <= tt.max; i++ {
				if !result[i] {
					t.Errorf("parseCronField(%q): missing value %d", tt.field, i)
				}
			}
			continue
		}

		if len(result) != len(tt.want) {
			t.Errorf("parseCronField(%q): got %d values, want %d", tt.field, len(result), len(tt.want))
			continue
		}
		for _, v := range tt.want {
			if !result[v] {
				t.Errorf("parseCronField(%q): missing value %d", tt.field, v)
			}
		}
	}
}

func TestParseCronFieldInvalid(t *testing.T) {
	tests := []struct {
		field string
		min   int
		max   int
	}{
		{"99", 0, 59},
		{"-1", 0, 59},
		{"abc", 0, 59},
		{"*/0", 0, 59},
	}

	for _, tt := range tests {
		if result := parseCronField(tt.field, tt.min, tt.max); result != nil {
			t.Errorf("parseCronField(%q) should return nil for invalid input, got %v", tt.field, result)
		}
	}
}

func TestNextCronRunDaily(t *testing.T) {
	now := time.Date(2026, 2, 15, 8, 0, 0, 0, time.Local)
	next := nextCronRun("0 3 * * *", now)
	if next.IsZero() {
		t.Fatal("nextCronRun returned zero time")
	}
	if next.Hour() != 3 || next.Minute() != 0 {
		t.Errorf("expected 03:00, got %02d:%02d", next.Hour(), next.Minute())
	}
	if !next.After(now) {
		t.Error("next run should be after now")
	}
	if next.Day() != 16 {
		t.Errorf("expected the following day, got day %d", next.Day())
	}
}

func TestNextCronRunEvery15Min(t *testing.T) {
	now := time.Date(2026, 2, 15, 10, 7, 30, 0, time.Local)
	next := nextCronRun("*/15 * * * *", now)
	if next.IsZero() {
		t.Fatal("nextCronRun returned zero time")
	}
	if next.Minute() != 15 {
		t.Errorf("expected minute 15, got %d", next.Minute())
	}
}

func TestNextCronRunInvalid(t *testing.T) {
	now := time.Now()
	for _, expr := range []string{"", "0 3 * *", "99 * * * *", "not a cron"} {
		if next := nextCronRun(expr, now); !next.IsZero() {
			t.Errorf("nextCronRun(%q) = %v, want zero time", expr, next)
		}
	}
}

func TestOnTimerFiresWhenDue(t *testing.T) {
	fired := 0
	s := NewScheduler("0 3 * * *", func(ctx context.Context) { fired++ })

	s.setNext(time.Now().Add(-time.Minute))
	s.onTimer(context.Background())
	if fired != 1 {
		t.Fatalf("callback fired %d times, want 1", fired)
	}
	if next := s.Next(); !next.After(time.Now()) {
		t.Errorf("next run %v not rescheduled into the future", next)
	}

	// Not due again yet.
	s.onTimer(context.Background())
	if fired != 1 {
		t.Errorf("callback fired %d times after reschedule, want 1", fired)
	}
}

func TestRunRejectsInvalidExpression(t *testing.T) {
	s := NewScheduler("bad expr", func(ctx context.Context) {})

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return for an invalid expression")
	}
}
