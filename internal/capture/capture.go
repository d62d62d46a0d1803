package capture

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"attendtrack/internal/ledger"
	"attendtrack/internal/logger"
	"attendtrack/internal/roster"
)

// Source yields decoded identifiers one scan at a time. Next returns
// io.EOF when the session is over.
type Source interface {
	Next() (string, error)
}

// LineSource reads one identifier per line, the way keyboard-wedge badge
// and QR scanners present their decodes. Blank lines are skipped.
type LineSource struct {
	scanner *bufio.Scanner
}

func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{scanner: bufio.NewScanner(r)}
}

func (s *LineSource) Next() (string, error) {
	for s.scanner.Scan() {
		id := strings.TrimSpace(s.scanner.Text())
		if id != "" {
			return id, nil
		}
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read scan input: %w", err)
	}
	return "", io.EOF
}

// Stats summarizes one capture session.
type Stats struct {
	SessionID  string
	Scans      int
	Recorded   int
	Duplicates int
	Unknown    int
}

// Run drains the source for one attendance mode, stamping each scan with
// the date and clock time at the moment it arrives and recording it in the
// ledger. Unknown identifiers are logged and skipped; already-recorded
// keys are no-ops. The ledger is only mutated, never persisted, here.
func Run(src Source, led *ledger.Ledger, idx *roster.Index, mode ledger.EventType, now func() time.Time) (Stats, error) {
	stats := Stats{SessionID: uuid.NewString()}
	logger.LogInfo("Capture session %s started, mode %q", stats.SessionID, mode.Label())

	for {
		id, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, err
		}
		stats.Scans++

		entry, known := idx.Lookup(id)
		if !known {
			stats.Unknown++
			logger.LogWarn("Session %s: unregistered ID %s", stats.SessionID, id)
			continue
		}

		stamp := now()
		date := ledger.DateLabel(stamp)
		clock := ledger.ClockLabel(stamp)

		if led.Record(date, entry.Category, mode, id, clock) {
			stats.Recorded++
			logger.LogInfo("Session %s: %s (%s, %s) at %s", stats.SessionID, entry.Name, id, entry.Category, clock)
		} else {
			stats.Duplicates++
			logger.LogInfo("Session %s: %s already recorded for %q on %s", stats.SessionID, id, mode.Label(), date)
		}
	}

	logger.LogInfo("Capture session %s finished: %d scans, %d recorded, %d duplicates, %d unregistered",
		stats.SessionID, stats.Scans, stats.Recorded, stats.Duplicates, stats.Unknown)
	return stats, nil
}
