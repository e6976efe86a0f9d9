package tracker

import (
	"sync"
	"time"

	"perch/internal/core/model"
)

// Sampler reports user activity signals from the host OS. Implementations
// never fail: platform errors degrade to zero idle time and no media.
type Sampler interface {
	IdleDuration() time.Duration
	MediaPlaying() bool
}

// PingRecorder persists a single activity timestamp.
type PingRecorder interface {
	RecordPing(timestamp int64) error
}

// Config contains runtime options for the Tracker.
type Config struct {
	TickInterval time.Duration
}

// Tracker samples user activity on a fixed cadence, records pings for active
// ticks, and accumulates continuous active time to decide when a break
// reminder should be surfaced. The accumulator measures active time since the
// last sufficiently long break: idle blips shorter than the break threshold do
// not reset it.
type Tracker struct {
	mu            sync.Mutex
	config        model.Config
	options       Config
	sampler       Sampler
	pings         PingRecorder
	activeSeconds int
	events        []chan Event
	stopCh        chan struct{}
	running       bool
}

// New creates a Tracker with the provided configuration.
func New(config model.Config, options Config, sampler Sampler, pings PingRecorder) *Tracker {
	if options.TickInterval <= 0 {
		options.TickInterval = 5 * time.Second
	}
	return &Tracker{
		config:  config,
		options: options,
		sampler: sampler,
		pings:   pings,
		stopCh:  make(chan struct{}),
	}
}

// Subscribe registers a new observer channel.
func (tracker *Tracker) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	tracker.mu.Lock()
	tracker.events = append(tracker.events, ch)
	tracker.mu.Unlock()
	return ch
}

// UpdateConfig replaces the runtime configuration.
func (tracker *Tracker) UpdateConfig(config model.Config) {
	tracker.mu.Lock()
	tracker.config = config
	tracker.mu.Unlock()
}

// Start launches the sampling loop.
func (tracker *Tracker) Start() {
	tracker.mu.Lock()
	if tracker.running {
		tracker.mu.Unlock()
		return
	}
	tracker.running = true
	tracker.activeSeconds = 0
	tracker.mu.Unlock()

	go tracker.run()
}

// Stop terminates the sampling loop and closes observer channels. The tick in
// flight is allowed to complete.
func (tracker *Tracker) Stop() {
	tracker.mu.Lock()
	if !tracker.running {
		tracker.mu.Unlock()
		return
	}
	close(tracker.stopCh)
	tracker.running = false
	events := tracker.events
	tracker.events = nil
	tracker.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (tracker *Tracker) run() {
	ticker := time.NewTicker(tracker.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tracker.stopCh:
			return
		case tickTime := <-ticker.C:
			tracker.tick(tickTime)
		}
	}
}

func (tracker *Tracker) tick(tickTime time.Time) {
	idle := tracker.sampler.IdleDuration()
	media := tracker.sampler.MediaPlaying()
	timestamp := tickTime.Unix()

	// Input within the last tick, or playing media, counts as active.
	active := idle < tracker.options.TickInterval || media

	tracker.mu.Lock()
	config := tracker.config
	tickSeconds := int(tracker.options.TickInterval / time.Second)

	fireReminder := false
	var recordErr error
	if active {
		recordErr = tracker.pings.RecordPing(timestamp)
		tracker.activeSeconds += tickSeconds
		if config.ReminderEnabled && time.Duration(tracker.activeSeconds)*time.Second >= config.ReminderThreshold {
			tracker.activeSeconds = 0
			fireReminder = true
		}
	} else if idle >= config.BreakThreshold {
		// A long enough break cancels any pending reminder credit.
		tracker.activeSeconds = 0
	}
	tracker.mu.Unlock()

	if recordErr != nil {
		tracker.emit(Event{
			Type:    EventLogError,
			Message: recordErr.Error(),
			At:      tickTime,
		})
	}
	if fireReminder {
		tracker.emit(Event{
			Type:      EventReminder,
			Active:    active,
			Timestamp: timestamp,
			At:        tickTime,
		})
	}
	tracker.emit(Event{
		Type:         EventStatus,
		Active:       active,
		MediaPlaying: media,
		Timestamp:    timestamp,
		At:           tickTime,
	})
}

func (tracker *Tracker) emit(event Event) {
	// Sending under the lock keeps Stop from closing a channel mid-send;
	// sends are non-blocking so slow observers only drop events.
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	for _, ch := range tracker.events {
		select {
		case ch <- event:
		default:
		}
	}
}
