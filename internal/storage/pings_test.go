package storage

import (
	"path/filepath"
	"testing"
	"time"

	"perch/internal/core/usage"
)

func newTestLog(t *testing.T) *PingLog {
	t.Helper()
	log, err := OpenMemoryPingLog()
	if err != nil {
		t.Fatalf("open memory ping log: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestOpenPingLogCreatesSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "usage.db")

	log, err := OpenPingLog(path)
	if err != nil {
		t.Fatal(err)
	}
	log.Close()

	// Reopen; migration must be a no-op.
	log2, err := OpenPingLog(path)
	if err != nil {
		t.Fatal(err)
	}
	log2.Close()
}

func TestRecordPingIdempotent(t *testing.T) {
	log := newTestLog(t)

	if err := log.RecordPing(1000); err != nil {
		t.Fatal(err)
	}
	if err := log.RecordPing(1000); err != nil {
		t.Fatalf("duplicate insert must be a no-op, got %v", err)
	}

	pings, err := log.PingsBetween(0, 2000)
	if err != nil {
		t.Fatal(err)
	}
	if len(pings) != 1 || pings[0] != 1000 {
		t.Fatalf("expected exactly one ping 1000, got %v", pings)
	}
}

func TestPingsBetweenInclusiveAscending(t *testing.T) {
	log := newTestLog(t)

	for _, timestamp := range []int64{300, 100, 200, 400} {
		if err := log.RecordPing(timestamp); err != nil {
			t.Fatal(err)
		}
	}

	pings, err := log.PingsBetween(100, 300)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{100, 200, 300}
	if len(pings) != len(want) {
		t.Fatalf("expected %v, got %v", want, pings)
	}
	for i := range want {
		if pings[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, pings)
		}
	}
}

func TestPingsBetweenEmptyRange(t *testing.T) {
	log := newTestLog(t)

	if err := log.RecordPing(500); err != nil {
		t.Fatal(err)
	}
	pings, err := log.PingsBetween(600, 700)
	if err != nil {
		t.Fatalf("empty range must not error, got %v", err)
	}
	if len(pings) != 0 {
		t.Fatalf("expected no pings, got %v", pings)
	}
}

func TestRoundTripThroughHistory(t *testing.T) {
	log := newTestLog(t)

	now := time.Now()
	base := now.Add(-time.Minute).Unix()
	if err := log.RecordPing(base); err != nil {
		t.Fatal(err)
	}
	if err := log.RecordPing(base + 1); err != nil {
		t.Fatal(err)
	}

	days, err := usage.History(log, 0, 5*time.Second, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	day := days[0]
	if len(day.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(day.Sessions))
	}
	session := day.Sessions[0]
	if session.StartTS != base || session.EndTS != base+1 {
		t.Fatalf("unexpected session span %d..%d", session.StartTS, session.EndTS)
	}
	if session.DurationMinutes != 1 {
		t.Fatalf("expected 1 minute, got %d", session.DurationMinutes)
	}
}
