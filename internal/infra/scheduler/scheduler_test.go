package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestScheduler_Register(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		expectError bool
	}{
		{name: "daily at eight", schedule: "0 8 * * *"},
		{name: "descriptor", schedule: "@hourly"},
		{name: "seconds field rejected", schedule: "0 0 8 * * *", expectError: true},
		{name: "garbage", schedule: "every day", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			err := s.Register(Job{Name: "test", Schedule: tt.schedule, Run: func(context.Context) error { return nil }})
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestScheduler_RunJobAppliesTimeout(t *testing.T) {
	s := New()
	var deadline time.Time
	var hasDeadline bool

	s.runJob(Job{
		Name:    "timeout",
		Timeout: time.Minute,
		Run: func(ctx context.Context) error {
			deadline, hasDeadline = ctx.Deadline()
			return errors.New("logged, not returned")
		},
	})

	if !hasDeadline {
		t.Fatal("expected context with deadline")
	}
	if time.Until(deadline) > time.Minute {
		t.Errorf("expected deadline within a minute, got %v", time.Until(deadline))
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New()
	if err := s.Register(Job{Name: "noop", Schedule: "@daily", Run: func(context.Context) error { return nil }}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.Entries() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Entries())
	}

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
