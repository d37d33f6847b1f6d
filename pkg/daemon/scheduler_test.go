package daemon

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/battcore/battcore/pkg/config"
	"github.com/battcore/battcore/pkg/utils/ptr"
)

func TestCronParse(t *testing.T) {
	schedule, err := config.ScheduleParser.Parse("@every 10m")
	if err != nil {
		t.Fatalf("failed to parse cron expression: %v", err)
	}

	now := time.Now()
	next1 := schedule.Next(now)
	next2 := schedule.Next(next1)

	if !next2.After(next1) {
		t.Fatalf("expected next2 to be after next1, got next1=%v next2=%v", next1, next2)
	}
}

func TestPollerScheduleInvalidKeepsPrevious(t *testing.T) {
	log, _ := test.NewNullLogger()
	p := NewPoller(func() {}, log)

	if err := p.Schedule("@every 1m"); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	if err := p.Schedule("every minute please"); err == nil {
		t.Fatalf("Schedule accepted an invalid spec")
	}

	spec, _ := p.Status()
	if spec != "@every 1m" {
		t.Fatalf("spec = %q, want @every 1m", spec)
	}
	if n := len(p.cron.Entries()); n != 1 {
		t.Fatalf("entries = %d, want 1", n)
	}
}

func TestPollerReschedule(t *testing.T) {
	log, _ := test.NewNullLogger()
	p := NewPoller(func() {}, log)

	for _, spec := range []string{"@every 1m", "@every 1m", "*/5 * * * *"} {
		if err := p.Schedule(spec); err != nil {
			t.Fatalf("Schedule(%q) returned error: %v", spec, err)
		}
	}
	if n := len(p.cron.Entries()); n != 1 {
		t.Fatalf("entries = %d, want 1", n)
	}
	if spec, _ := p.Status(); spec != "*/5 * * * *" {
		t.Fatalf("spec = %q", spec)
	}
}

func TestPollerRunsTask(t *testing.T) {
	log, _ := test.NewNullLogger()
	ran := make(chan struct{}, 1)
	p := NewPoller(func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}, log)

	if err := p.Schedule("@every 1s"); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	p.Start()
	defer p.Stop()

	if _, next := p.Status(); next.IsZero() {
		t.Fatalf("next run should be set after start")
	}

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatalf("task did not run")
	}
}

func TestPollerRecoversPanics(t *testing.T) {
	log, hook := test.NewNullLogger()
	done := make(chan struct{})
	p := NewPoller(func() {
		defer close(done)
		panic(errors.New("boom"))
	}, log)

	if err := p.Schedule("@every 1s"); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	p.Start()
	<-done
	p.Stop()

	if hook.LastEntry() == nil {
		t.Fatalf("expected the panic to be logged")
	}
}

func TestPollerAndConfigAgreeOnSchedules(t *testing.T) {
	log, _ := test.NewNullLogger()
	p := NewPoller(func() {}, log)

	for _, spec := range []string{"@every 30s", "*/5 * * * *", "*/10 * * * * *", "@hourly"} {
		raw := &config.RawFileConfig{PollSchedule: ptr.To(spec)}
		if err := raw.Validate(); err != nil {
			t.Fatalf("Validate(%q) returned error: %v", spec, err)
		}
		if err := p.Schedule(spec); err != nil {
			t.Fatalf("Schedule(%q) returned error: %v", spec, err)
		}
	}

	raw := &config.RawFileConfig{PollSchedule: ptr.To("* * *")}
	if raw.Validate() == nil || p.Schedule("* * *") == nil {
		t.Fatalf("a three-field schedule was accepted")
	}
}
