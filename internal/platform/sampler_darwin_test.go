package platform

import (
	"errors"
	"testing"
	"time"
)

const ioregSample = `+-o IOHIDSystem  <class IOHIDSystem, id 0x100000456, registered, matched, active>
    {
      "HIDIdleTime" = 5000000000
      "HIDParameters" = {"EjectDelay"=0}
    }`

const pmsetPlayingSample = `Assertion status system-wide:
   BackgroundTask                 0
   PreventUserIdleDisplaySleep    1
   PreventUserIdleSystemSleep     1
Listed by owning process:
   pid 441(coreaudiod): [0x0000b2df000990e6] 00:00:08 PreventUserIdleDisplaySleep named: "com.apple.audio.context"`

const pmsetIdleSample = `Assertion status system-wide:
   BackgroundTask                 0
   PreventUserIdleDisplaySleep    0
   PreventSystemSleep             0`

func TestParseIdleDuration(t *testing.T) {
	idle := parseIdleDuration([]byte(ioregSample))
	if idle != 5*time.Second {
		t.Fatalf("expected 5s, got %v", idle)
	}
}

func TestParseIdleDurationMissingField(t *testing.T) {
	if idle := parseIdleDuration([]byte("no such field here")); idle != 0 {
		t.Fatalf("expected zero idle on missing field, got %v", idle)
	}
}

func TestParseAssertions(t *testing.T) {
	if !parseAssertions([]byte(pmsetPlayingSample)) {
		t.Fatal("expected media playing for an active display-sleep assertion")
	}
	if parseAssertions([]byte(pmsetIdleSample)) {
		t.Fatal("expected no media for inactive assertions")
	}
}

func TestSamplerDegradesOnCommandFailure(t *testing.T) {
	provider := &sampler{runCommand: func(name string, args ...string) ([]byte, error) {
		return nil, errors.New("exec failed")
	}}
	if idle := provider.IdleDuration(); idle != 0 {
		t.Fatalf("expected zero idle on failure, got %v", idle)
	}
	if provider.MediaPlaying() {
		t.Fatal("expected no media on failure")
	}
}
