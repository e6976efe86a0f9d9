package tracker

import (
	"errors"
	"testing"
	"time"

	"perch/internal/core/model"
)

type fakeSampler struct {
	idle  time.Duration
	media bool
}

func (sampler *fakeSampler) IdleDuration() time.Duration { return sampler.idle }
func (sampler *fakeSampler) MediaPlaying() bool          { return sampler.media }

type fakeRecorder struct {
	timestamps []int64
	err        error
}

func (recorder *fakeRecorder) RecordPing(timestamp int64) error {
	if recorder.err != nil {
		return recorder.err
	}
	recorder.timestamps = append(recorder.timestamps, timestamp)
	return nil
}

func testConfig() model.Config {
	return model.Config{
		BreakThreshold:    2 * time.Minute,
		ReminderThreshold: time.Minute,
		ReminderEnabled:   true,
	}
}

func newTestTracker(config model.Config) (*Tracker, *fakeSampler, *fakeRecorder, <-chan Event) {
	sampler := &fakeSampler{}
	recorder := &fakeRecorder{}
	keeper := New(config, Config{TickInterval: 5 * time.Second}, sampler, recorder)
	events := keeper.Subscribe(64)
	return keeper, sampler, recorder, events
}

func countEvents(events <-chan Event, eventType EventType) int {
	count := 0
	for {
		select {
		case event := <-events:
			if event.Type == eventType {
				count++
			}
		default:
			return count
		}
	}
}

func TestActiveTickRecordsPing(t *testing.T) {
	keeper, sampler, recorder, events := newTestTracker(testConfig())
	sampler.idle = time.Second

	tickTime := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	keeper.tick(tickTime)

	if len(recorder.timestamps) != 1 || recorder.timestamps[0] != tickTime.Unix() {
		t.Fatalf("expected one ping at %d, got %v", tickTime.Unix(), recorder.timestamps)
	}
	if got := countEvents(events, EventStatus); got != 1 {
		t.Fatalf("expected 1 status event, got %d", got)
	}
}

func TestMediaCountsAsActive(t *testing.T) {
	keeper, sampler, recorder, _ := newTestTracker(testConfig())
	sampler.idle = time.Hour
	sampler.media = true

	keeper.tick(time.Now())

	if len(recorder.timestamps) != 1 {
		t.Fatalf("media playback must record a ping, got %v", recorder.timestamps)
	}
}

func TestIdleTickRecordsNothing(t *testing.T) {
	keeper, sampler, recorder, events := newTestTracker(testConfig())
	sampler.idle = time.Minute

	keeper.tick(time.Now())

	if len(recorder.timestamps) != 0 {
		t.Fatalf("idle tick must not record, got %v", recorder.timestamps)
	}
	// The status notification still fires.
	if got := countEvents(events, EventStatus); got != 1 {
		t.Fatalf("expected 1 status event, got %d", got)
	}
}

func TestReminderFiresAfterThreshold(t *testing.T) {
	keeper, sampler, _, events := newTestTracker(testConfig())
	sampler.idle = time.Second

	// 1 minute threshold at 5s ticks: the 12th active tick fires.
	now := time.Now()
	for i := 0; i < 11; i++ {
		keeper.tick(now.Add(time.Duration(i) * 5 * time.Second))
	}
	if got := countEvents(events, EventReminder); got != 0 {
		t.Fatalf("reminder fired early after 11 ticks: %d", got)
	}

	keeper.tick(now.Add(11 * 5 * time.Second))
	if got := countEvents(events, EventReminder); got != 1 {
		t.Fatalf("expected reminder on 12th tick, got %d", got)
	}

	// The accumulator was reset: the next tick must not refire.
	keeper.tick(now.Add(12 * 5 * time.Second))
	if got := countEvents(events, EventReminder); got != 0 {
		t.Fatalf("reminder refired immediately: %d", got)
	}
}

func TestDisabledRemindersNeverFire(t *testing.T) {
	config := testConfig()
	config.ReminderEnabled = false
	keeper, sampler, _, events := newTestTracker(config)
	sampler.idle = time.Second

	now := time.Now()
	for i := 0; i < 30; i++ {
		keeper.tick(now.Add(time.Duration(i) * 5 * time.Second))
	}
	if got := countEvents(events, EventReminder); got != 0 {
		t.Fatalf("disabled reminders fired %d times", got)
	}
}

func TestLongIdleResetsAccumulator(t *testing.T) {
	keeper, sampler, recorder, _ := newTestTracker(testConfig())
	sampler.idle = time.Second

	now := time.Now()
	for i := 0; i < 6; i++ {
		keeper.tick(now.Add(time.Duration(i) * 5 * time.Second))
	}
	recorded := len(recorder.timestamps)

	// Idle at the break threshold resets without recording anything.
	sampler.idle = 2 * time.Minute
	keeper.tick(now.Add(6 * 5 * time.Second))

	if len(recorder.timestamps) != recorded {
		t.Fatal("idle reset must not record a ping")
	}
	keeper.mu.Lock()
	accumulated := keeper.activeSeconds
	keeper.mu.Unlock()
	if accumulated != 0 {
		t.Fatalf("expected accumulator reset, got %d", accumulated)
	}
}

func TestShortIdleBlipKeepsAccumulator(t *testing.T) {
	keeper, sampler, _, _ := newTestTracker(testConfig())
	sampler.idle = time.Second

	now := time.Now()
	for i := 0; i < 6; i++ {
		keeper.tick(now.Add(time.Duration(i) * 5 * time.Second))
	}

	// Idle, but under the break threshold: reminder credit survives.
	sampler.idle = 30 * time.Second
	keeper.tick(now.Add(6 * 5 * time.Second))

	keeper.mu.Lock()
	accumulated := keeper.activeSeconds
	keeper.mu.Unlock()
	if accumulated != 30 {
		t.Fatalf("expected accumulator to stay at 30, got %d", accumulated)
	}
}

func TestRecordFailureEmitsLogErrorAndContinues(t *testing.T) {
	keeper, sampler, recorder, events := newTestTracker(testConfig())
	sampler.idle = time.Second
	recorder.err = errors.New("disk unavailable")

	keeper.tick(time.Now())

	if got := countEvents(events, EventLogError); got != 1 {
		t.Fatalf("expected 1 log error event, got %d", got)
	}

	// The loop keeps accumulating despite the storage failure.
	keeper.mu.Lock()
	accumulated := keeper.activeSeconds
	keeper.mu.Unlock()
	if accumulated != 5 {
		t.Fatalf("expected accumulator at 5, got %d", accumulated)
	}
}

func TestUpdateConfigApplies(t *testing.T) {
	keeper, sampler, _, events := newTestTracker(testConfig())
	sampler.idle = time.Second

	updated := testConfig()
	updated.ReminderThreshold = 10 * time.Second
	keeper.UpdateConfig(updated)

	now := time.Now()
	keeper.tick(now)
	keeper.tick(now.Add(5 * time.Second))

	if got := countEvents(events, EventReminder); got != 1 {
		t.Fatalf("expected reminder after updated threshold, got %d", got)
	}
}

func TestStartStop(t *testing.T) {
	sampler := &fakeSampler{idle: time.Hour}
	recorder := &fakeRecorder{}
	keeper := New(testConfig(), Config{TickInterval: 10 * time.Millisecond}, sampler, recorder)
	events := keeper.Subscribe(64)

	keeper.Start()
	deadline := time.After(2 * time.Second)
	select {
	case <-events:
	case <-deadline:
		t.Fatal("no event before deadline")
	}

	keeper.Stop()
	// Stop closes subscriber channels once drained.
	for {
		select {
		case _, open := <-events:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after Stop")
		}
	}
}

func TestStopTwiceIsSafe(t *testing.T) {
	keeper, _, _, _ := newTestTracker(testConfig())
	keeper.Start()
	keeper.Stop()
	keeper.Stop()
}
