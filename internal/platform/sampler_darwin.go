package platform

import (
	"bufio"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// hidIdleRe matches the HIDIdleTime registry field, reported in nanoseconds.
var hidIdleRe = regexp.MustCompile(`HIDIdleTime"?\s*=\s*([0-9]+)`)

type sampler struct {
	runCommand func(name string, args ...string) ([]byte, error)
}

func newSampler() ActivitySampler {
	return &sampler{runCommand: runCommand}
}

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

func (provider *sampler) IdleDuration() time.Duration {
	output, err := provider.runCommand("ioreg", "-c", "IOHIDSystem")
	if err != nil {
		return 0
	}
	return parseIdleDuration(output)
}

func (provider *sampler) MediaPlaying() bool {
	output, err := provider.runCommand("pmset", "-g", "assertions")
	if err != nil {
		return false
	}
	return parseAssertions(output)
}

func parseIdleDuration(output []byte) time.Duration {
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "HIDIdleTime") {
			continue
		}
		match := hidIdleRe.FindStringSubmatch(line)
		if len(match) != 2 {
			continue
		}
		idleNanos, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			return 0
		}
		return time.Duration(idleNanos)
	}
	return 0
}

// parseAssertions reports media playback from the power assertions dump. An
// assertion prevents display sleep only while something like audio or video
// playback holds it with an active flag.
func parseAssertions(output []byte) bool {
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "PreventUserIdleDisplaySleep") && strings.Contains(line, "1") {
			return true
		}
	}
	return false
}
