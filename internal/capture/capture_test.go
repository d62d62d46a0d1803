package capture

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"attendtrack/internal/ledger"
	"attendtrack/internal/roster"
)

func testIndex(t *testing.T) *roster.Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "students-data.json")
	content := `{
		"BSCS 1B": [
			{"name": "Juan Cruz", "id": "001"},
			{"name": "Maria Santos", "id": "002"}
		],
		"BSIT 4A": [
			{"name": "Ana Reyes", "id": "114"}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0664); err != nil {
		t.Fatal(err)
	}
	idx, err := roster.Load(path)
	if err != nil {
		t.Fatalf("roster.Load: %v", err)
	}
	return idx
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRunRecordsKnownSkipsUnknown(t *testing.T) {
	idx := testIndex(t)
	led := ledger.New()
	src := NewLineSource(strings.NewReader("001\n999\n001\n114\n"))
	stamp := time.Date(2024, 1, 1, 8, 5, 0, 0, time.UTC)

	stats, err := Run(src, led, idx, ledger.AMTimeIn, fixedClock(stamp))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.Scans != 4 || stats.Recorded != 2 || stats.Duplicates != 1 || stats.Unknown != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.SessionID == "" {
		t.Error("session ID should be set")
	}

	clock, ok := led.Time("Mon 01-01-2024", "BSCS 1B", ledger.AMTimeIn, "001")
	if !ok || clock != "08:05" {
		t.Errorf("expected 08:05 for 001, got %q (found=%v)", clock, ok)
	}
	// The event lands under the scanned person's own category.
	if _, ok := led.Time("Mon 01-01-2024", "BSIT 4A", ledger.AMTimeIn, "114"); !ok {
		t.Error("expected event for 114 under BSIT 4A")
	}
	if _, ok := led.Time("Mon 01-01-2024", "BSCS 1B", ledger.AMTimeIn, "999"); ok {
		t.Error("unregistered ID must not be recorded")
	}
}

func TestRunReplayKeepsFirstTime(t *testing.T) {
	idx := testIndex(t)
	led := ledger.New()

	early := time.Date(2024, 1, 1, 8, 5, 0, 0, time.UTC)
	late := time.Date(2024, 1, 1, 9, 59, 0, 0, time.UTC)

	if _, err := Run(NewLineSource(strings.NewReader("001\n")), led, idx, ledger.AMTimeIn, fixedClock(early)); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	stats, err := Run(NewLineSource(strings.NewReader("001\n")), led, idx, ledger.AMTimeIn, fixedClock(late))
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if stats.Duplicates != 1 || stats.Recorded != 0 {
		t.Errorf("replay should be a duplicate no-op, got %+v", stats)
	}
	clock, _ := led.Time("Mon 01-01-2024", "BSCS 1B", ledger.AMTimeIn, "001")
	if clock != "08:05" {
		t.Errorf("replay must keep the first time, got %q", clock)
	}
}

func TestRunSeparatesModes(t *testing.T) {
	idx := testIndex(t)
	led := ledger.New()
	morning := time.Date(2024, 1, 1, 8, 5, 0, 0, time.UTC)
	noon := time.Date(2024, 1, 1, 11, 58, 0, 0, time.UTC)

	if _, err := Run(NewLineSource(strings.NewReader("001\n")), led, idx, ledger.AMTimeIn, fixedClock(morning)); err != nil {
		t.Fatal(err)
	}
	stats, err := Run(NewLineSource(strings.NewReader("001\n")), led, idx, ledger.AMTimeOut, fixedClock(noon))
	if err != nil {
		t.Fatal(err)
	}

	if stats.Recorded != 1 {
		t.Errorf("a different mode is a fresh key, got %+v", stats)
	}
	if clock, _ := led.Time("Mon 01-01-2024", "BSCS 1B", ledger.AMTimeOut, "001"); clock != "11:58" {
		t.Errorf("AM Time Out = %q, want 11:58", clock)
	}
}

func TestLineSourceTrimsAndSkipsBlankLines(t *testing.T) {
	src := NewLineSource(strings.NewReader("  001  \n\n\t\n002\n"))

	first, err := src.Next()
	if err != nil || first != "001" {
		t.Errorf("first = %q, %v; want 001", first, err)
	}
	second, err := src.Next()
	if err != nil || second != "002" {
		t.Errorf("second = %q, %v; want 002", second, err)
	}
	if _, err := src.Next(); err != io.EOF {
		t.Errorf("expected io.EOF at end, got %v", err)
	}
}
