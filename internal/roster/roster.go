package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"attendtrack/internal/logger"
)

// ErrRosterNotFound means the roster document is absent. There is nothing
// useful the program can do without it, so callers treat this as fatal.
var ErrRosterNotFound = errors.New("roster document not found")

// Person is one roster record as stored in the document.
type Person struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Entry is a roster record resolved to its category.
type Entry struct {
	ID       string
	Name     string
	Category string
}

// Index is the in-memory roster lookup built once per run. It maps person
// IDs to entries and remembers categories in document order.
type Index struct {
	byID       map[string]Entry
	byCategory map[string][]Entry
	categories []string
}

// Load parses the roster document at path. The document is a JSON object
// mapping category names to person arrays. Categories keep their document
// order; when the same ID appears more than once, the first occurrence
// wins and the shadowed entry is logged.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrRosterNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open roster document %s: %w", path, err)
	}
	defer f.Close()

	// A plain map[string][]Person would lose the document's key order, so
	// the top-level object is walked token by token instead.
	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("malformed roster document %s: %w", path, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("malformed roster document %s: top level must be an object", path)
	}

	idx := &Index{
		byID:       make(map[string]Entry),
		byCategory: make(map[string][]Entry),
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("malformed roster document %s: %w", path, err)
		}
		category, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("malformed roster document %s: unexpected token %v", path, keyTok)
		}

		var people []Person
		if err := dec.Decode(&people); err != nil {
			return nil, fmt.Errorf("malformed roster document %s: category %q: %w", path, category, err)
		}

		idx.categories = append(idx.categories, category)
		for _, p := range people {
			entry := Entry{ID: p.ID, Name: p.Name, Category: category}
			idx.byCategory[category] = append(idx.byCategory[category], entry)
			if prior, exists := idx.byID[p.ID]; exists {
				logger.LogWarn("Duplicate roster ID %s in %q shadowed by earlier entry in %q", p.ID, category, prior.Category)
				continue
			}
			idx.byID[p.ID] = entry
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("malformed roster document %s: %w", path, err)
	}

	logger.LogInfo("Loaded roster from %s: %d categories, %d people", path, len(idx.categories), len(idx.byID))
	return idx, nil
}

// Lookup resolves a scanned identifier to its roster entry.
func (idx *Index) Lookup(id string) (Entry, bool) {
	entry, ok := idx.byID[id]
	return entry, ok
}

// Categories returns category names in document order.
func (idx *Index) Categories() []string {
	return idx.categories
}

// ByCategory returns the entries of one category in document order,
// including entries whose IDs are shadowed by another category.
func (idx *Index) ByCategory(category string) []Entry {
	return idx.byCategory[category]
}

// Len is the number of distinct person IDs in the index.
func (idx *Index) Len() int {
	return len(idx.byID)
}
