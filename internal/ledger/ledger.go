package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"attendtrack/internal/logger"
)

// Label formats used throughout the ledger document and the grid.
// DateFormat renders like "Tue 11-28-2023", ClockFormat like "15:45".
const (
	DateFormat  = "Mon 01-02-2006"
	ClockFormat = "15:04"
)

// DateLabel formats t as a ledger date key.
func DateLabel(t time.Time) string {
	return t.Format(DateFormat)
}

// ClockLabel formats t as a recorded wall-clock time.
func ClockLabel(t time.Time) string {
	return t.Format(ClockFormat)
}

// Ledger is the durable record of every attendance event, nested as
// date -> category -> mode label -> person ID -> recorded time. It is the
// single source of truth; the workbook grid is only a projection of it.
type Ledger struct {
	Attendance map[string]map[string]map[string]map[string]string `json:"attendance"`
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{Attendance: make(map[string]map[string]map[string]map[string]string)}
}

// Load reads the ledger document at path. A missing file is not an error:
// the backing document is created immediately so later runs find it in
// place. Malformed content is fatal to the caller; history is never
// silently discarded or repaired.
func Load(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		led := New()
		if err := led.Persist(path); err != nil {
			return nil, fmt.Errorf("failed to initialize ledger document %s: %w", path, err)
		}
		logger.LogInfo("No ledger document found, created %s", path)
		return led, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger document %s: %w", path, err)
	}

	var led Ledger
	if err := json.Unmarshal(data, &led); err != nil {
		return nil, fmt.Errorf("malformed ledger document %s: %w", path, err)
	}
	if led.Attendance == nil {
		return nil, fmt.Errorf("malformed ledger document %s: missing attendance object", path)
	}
	logger.LogInfo("Loaded ledger from %s (%d dates)", path, len(led.Attendance))
	return &led, nil
}

// Record stores one attendance event. It is the only mutation entry point
// and the idempotency boundary: the first time written for a
// (date, category, mode, person) key is permanent, and replaying the same
// scan returns false without changing anything.
func (l *Ledger) Record(date, category string, et EventType, personID, clock string) bool {
	if l.Attendance[date] == nil {
		l.Attendance[date] = make(map[string]map[string]map[string]string)
	}
	if l.Attendance[date][category] == nil {
		l.Attendance[date][category] = make(map[string]map[string]string)
	}
	mode := et.Label()
	if l.Attendance[date][category][mode] == nil {
		l.Attendance[date][category][mode] = make(map[string]string)
	}
	if _, exists := l.Attendance[date][category][mode][personID]; exists {
		return false
	}
	l.Attendance[date][category][mode][personID] = clock
	return true
}

// Time returns the recorded time for a key, if any.
func (l *Ledger) Time(date, category string, et EventType, personID string) (string, bool) {
	clock, ok := l.Attendance[date][category][et.Label()][personID]
	return clock, ok
}

// Persist writes the full ledger document to path as a single complete
// replacement, staged through a temp file in the same directory so a
// crash mid-write can never leave a truncated document. It must run
// before any grid projection so a crash during projection leaves a
// durable ledger to retry from.
func (l *Ledger) Persist(path string) error {
	data, err := json.MarshalIndent(l, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize ledger: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0664); err != nil {
		return fmt.Errorf("failed to write ledger document %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace ledger document %s: %w", path, err)
	}
	return nil
}

// CategoryDates returns the dates that hold at least one event for the
// given category, in ascending calendar order. Sorting by parsed date,
// not label text, keeps block allocation deterministic across runs.
func (l *Ledger) CategoryDates(category string) ([]string, error) {
	var dates []string
	for date, byCategory := range l.Attendance {
		if len(byCategory[category]) > 0 {
			dates = append(dates, date)
		}
	}
	return sortDates(dates)
}

// Categories returns every category with at least one recorded event, in
// ascending name order. The ledger can hold categories the roster no
// longer knows (renamed or deleted sections); their history still counts.
func (l *Ledger) Categories() []string {
	seen := make(map[string]bool)
	for _, byCategory := range l.Attendance {
		for category, byMode := range byCategory {
			if len(byMode) > 0 {
				seen[category] = true
			}
		}
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// PersonIDs returns every person ID with at least one event for the given
// category, in ascending ID order.
func (l *Ledger) PersonIDs(category string) []string {
	seen := make(map[string]bool)
	for _, byCategory := range l.Attendance {
		for _, byPerson := range byCategory[category] {
			for id := range byPerson {
				seen[id] = true
			}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ModeTimes returns the personID -> time map for one (date, category, mode)
// cell group. The returned map must not be mutated.
func (l *Ledger) ModeTimes(date, category string, et EventType) map[string]string {
	return l.Attendance[date][category][et.Label()]
}

func sortDates(dates []string) ([]string, error) {
	type parsed struct {
		label string
		t     time.Time
	}
	ps := make([]parsed, 0, len(dates))
	for _, label := range dates {
		t, err := time.Parse(DateFormat, label)
		if err != nil {
			return nil, fmt.Errorf("malformed date label %q in ledger: %w", label, err)
		}
		ps = append(ps, parsed{label: label, t: t})
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].t.Before(ps[j].t) })
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.label
	}
	return out, nil
}
