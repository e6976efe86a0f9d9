package platform

import "time"

// ActivitySampler reports user activity signals from the host OS.
//
// Sampling never fails observably: any platform query error degrades to the
// safe defaults (zero idle time, no media playing), which read as "active".
type ActivitySampler interface {
	// IdleDuration returns the time since the last input device event.
	IdleDuration() time.Duration
	// MediaPlaying reports best-effort whether audio or video is playing.
	MediaPlaying() bool
}

// NewSampler returns a platform-specific activity sampler.
func NewSampler() ActivitySampler {
	return newSampler()
}
