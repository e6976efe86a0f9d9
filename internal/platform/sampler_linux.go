package platform

import (
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type sampler struct {
	xprintidlePath string
}

func newSampler() ActivitySampler {
	// xprintidle covers X11 and most Wayland compositors with XWayland.
	// Without it idle time reads as zero, which counts as always active.
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return &sampler{}
	}
	return &sampler{xprintidlePath: path}
}

func (provider *sampler) IdleDuration() time.Duration {
	if provider.xprintidlePath == "" {
		return 0
	}
	output, err := exec.Command(provider.xprintidlePath).Output()
	if err != nil {
		return 0
	}
	idleMillis, err := strconv.ParseInt(strings.TrimSpace(string(output)), 10, 64)
	if err != nil || idleMillis < 0 {
		return 0
	}
	return time.Duration(idleMillis) * time.Millisecond
}

func (provider *sampler) MediaPlaying() bool {
	return false
}
