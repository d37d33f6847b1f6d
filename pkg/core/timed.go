package core

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/battcore/battcore/pkg/types"
	"github.com/battcore/battcore/pkg/workqueue"
)

// MaxDisableDuration is the longest charger disable a single request can ask for.
const MaxDisableDuration = 65536 * time.Second

// TimerState describes the timed charger disable.
type TimerState struct {
	Armed     bool      `json:"armed"`
	ID        string    `json:"id,omitempty"`
	Deadline  time.Time `json:"deadline,omitempty"`
	LastError string    `json:"lastError,omitempty"`
}

// TimedControl disables charging for a bounded duration and re-enables it
// when an alarm expires. The alarm callback only posts work to the queue;
// the re-enable itself always runs on the queue's worker.
//
// Change callbacks run after t.mu is released, so they may call back into
// the TimedControl or the Controller.
type TimedControl struct {
	mu sync.Mutex

	ctl     *Controller
	clock   clock.Clock
	queue   *workqueue.Queue
	log     *logrus.Logger
	onTimer func(TimerState)

	timer    *clock.Timer
	id       uuid.UUID
	deadline time.Time
	// gen is bumped on every arm and cancel. Deferred work carrying an older
	// generation is stale and skipped.
	gen     uint64
	lastErr string
}

// changes collects the notifications owed by a locked section.
type changes struct {
	control bool
	state   types.ControlState
	timer   bool
}

// NewTimedControl returns an idle TimedControl driving ctl. onTimer, when
// set, is called whenever the timer is armed, disarmed or records an error.
func NewTimedControl(ctl *Controller, clk clock.Clock, queue *workqueue.Queue, log *logrus.Logger, onTimer func(TimerState)) *TimedControl {
	return &TimedControl{
		ctl:     ctl,
		clock:   clk,
		queue:   queue,
		log:     log,
		onTimer: onTimer,
	}
}

// DisableFor disables charging now and schedules a re-enable after d.
// A zero d re-enables immediately and cancels any pending alarm.
func (t *TimedControl) DisableFor(d time.Duration) error {
	if d < 0 || d > MaxDisableDuration {
		return invalidInput("disable duration %s out of range [0, %s]", d, MaxDisableDuration)
	}

	t.mu.Lock()
	var (
		ch  changes
		err error
	)
	if d == 0 {
		if err = t.setLocked(&ch, types.CommandEnable); err == nil {
			t.cancelLocked(&ch)
		}
	} else if err = t.setLocked(&ch, types.CommandDisable); err == nil {
		t.armLocked(&ch, d)
	}
	t.mu.Unlock()

	t.deliver(ch)
	return err
}

// Switch sends cmd right away and, when the hardware accepts it, disarms a
// pending alarm so a later re-enable cannot override the request.
func (t *TimedControl) Switch(cmd types.Command) error {
	t.mu.Lock()
	var ch changes
	err := t.setLocked(&ch, cmd)
	if err == nil {
		t.cancelLocked(&ch)
	}
	t.mu.Unlock()

	t.deliver(ch)
	return err
}

// Cancel disarms a pending alarm. It is safe to call when nothing is armed.
func (t *TimedControl) Cancel() {
	t.mu.Lock()
	var ch changes
	t.cancelLocked(&ch)
	t.mu.Unlock()

	t.deliver(ch)
}

// State returns the current timer state.
func (t *TimedControl) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := TimerState{LastError: t.lastErr}
	if t.timer != nil {
		st.Armed = true
		st.ID = t.id.String()
		st.Deadline = t.deadline
	}
	return st
}

func (t *TimedControl) setLocked(ch *changes, cmd types.Command) error {
	changed, err := t.ctl.apply(cmd)
	if changed {
		ch.control = true
		ch.state = types.StateFor(cmd)
	}
	return err
}

// deliver runs the callbacks owed by ch. t.mu must not be held.
func (t *TimedControl) deliver(ch changes) {
	if ch.control {
		t.ctl.notify(ch.state)
	}
	if ch.timer && t.onTimer != nil {
		t.onTimer(t.State())
	}
}

func (t *TimedControl) armLocked(ch *changes, d time.Duration) {
	t.stopLocked()

	t.gen++
	gen := t.gen
	t.id = uuid.New()
	id := t.id
	t.deadline = t.clock.Now().Add(d)
	t.lastErr = ""
	t.timer = t.clock.AfterFunc(d, func() { t.fire(gen, id) })
	ch.timer = true

	t.log.WithFields(logrus.Fields{
		"id":       id.String(),
		"duration": d.String(),
		"deadline": t.deadline.Format(time.RFC3339),
	}).Info("charging disabled, re-enable alarm armed")
}

func (t *TimedControl) cancelLocked(ch *changes) {
	if t.timer == nil {
		return
	}
	t.stopLocked()
	t.gen++
	ch.timer = true
	t.log.WithField("id", t.id.String()).Info("charger control alarm cancelled")
}

func (t *TimedControl) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = nil
	t.deadline = time.Time{}
}

// fire runs in the alarm's context. It must not touch the controller.
func (t *TimedControl) fire(gen uint64, id uuid.UUID) {
	t.log.WithField("id", id.String()).Info("charger control alarm timed out")

	if err := t.queue.Enqueue(func() { t.reenable(gen, id) }); err != nil {
		t.log.WithField("id", id.String()).Errorf("failed to queue charger re-enable: %v", err)
	}
}

func (t *TimedControl) reenable(gen uint64, id uuid.UUID) {
	t.mu.Lock()
	ch, err := t.reenableLocked(gen, id)
	t.mu.Unlock()

	t.deliver(ch)
	if err != nil {
		t.log.WithField("id", id.String()).Errorf("charger control failed, charging stays disabled: %v", err)
	}
}

func (t *TimedControl) reenableLocked(gen uint64, id uuid.UUID) (changes, error) {
	var ch changes
	if gen != t.gen {
		t.log.WithField("id", id.String()).Debug("skipping stale charger re-enable")
		return ch, nil
	}
	t.stopLocked()
	ch.timer = true

	if err := t.setLocked(&ch, types.CommandEnable); err != nil {
		t.lastErr = err.Error()
		return ch, err
	}
	t.log.WithField("id", id.String()).Info("charging re-enabled after timed disable")
	return ch, nil
}
