//go:build !windows && !darwin && !linux

package platform

import "time"

type sampler struct{}

func newSampler() ActivitySampler {
	return &sampler{}
}

// Unsupported platforms always read as active.
func (provider *sampler) IdleDuration() time.Duration {
	return 0
}

func (provider *sampler) MediaPlaying() bool {
	return false
}
