package roster

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "students-data.json")
	if err := os.WriteFile(path, []byte(content), 0664); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students-data.json")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected an error for a missing roster document")
	}
	if !errors.Is(err, ErrRosterNotFound) {
		t.Errorf("expected ErrRosterNotFound, got %v", err)
	}
}

func TestLoadKeepsCategoryDocumentOrder(t *testing.T) {
	// Document order is deliberately non-alphabetical.
	path := writeRoster(t, `{
		"BSIT 4A": [{"name": "Ana Reyes", "id": "114"}],
		"BSCS 1B": [{"name": "Juan Cruz", "id": "001"}],
		"BSCE 2C": [{"name": "Mark Tan", "id": "205"}]
	}`)

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"BSIT 4A", "BSCS 1B", "BSCE 2C"}
	if !reflect.DeepEqual(idx.Categories(), want) {
		t.Errorf("expected category order %v, got %v", want, idx.Categories())
	}
}

func TestLookup(t *testing.T) {
	path := writeRoster(t, `{
		"BSCS 1B": [
			{"name": "Juan Cruz", "id": "001"},
			{"name": "Maria Santos", "id": "002"}
		]
	}`)

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Len() != 2 {
		t.Errorf("expected 2 people, got %d", idx.Len())
	}

	entry, ok := idx.Lookup("002")
	if !ok {
		t.Fatal("expected to find ID 002")
	}
	if entry.Name != "Maria Santos" || entry.Category != "BSCS 1B" {
		t.Errorf("unexpected entry %+v", entry)
	}

	if _, ok := idx.Lookup("999"); ok {
		t.Error("unregistered ID should not resolve")
	}
}

func TestDuplicateIDFirstEncounteredWins(t *testing.T) {
	path := writeRoster(t, `{
		"BSIT 4A": [{"name": "Ana Reyes", "id": "114"}],
		"BSCS 1B": [{"name": "Impostor", "id": "114"}]
	}`)

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	entry, ok := idx.Lookup("114")
	if !ok {
		t.Fatal("expected to find ID 114")
	}
	if entry.Category != "BSIT 4A" || entry.Name != "Ana Reyes" {
		t.Errorf("duplicate ID should resolve to the first entry, got %+v", entry)
	}

	// The shadowed entry still appears in its category listing.
	if got := len(idx.ByCategory("BSCS 1B")); got != 1 {
		t.Errorf("expected shadowed entry in category listing, got %d entries", got)
	}
}

func TestByCategoryKeepsDocumentOrder(t *testing.T) {
	path := writeRoster(t, `{
		"BSCS 1B": [
			{"name": "Zeta Last", "id": "003"},
			{"name": "Alpha First", "id": "001"}
		]
	}`)

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	entries := idx.ByCategory("BSCS 1B")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "003" || entries[1].ID != "001" {
		t.Errorf("category entries reordered: %+v", entries)
	}
}

func TestLoadMalformedDocuments(t *testing.T) {
	cases := map[string]string{
		"top-level array":  `[{"name": "Juan Cruz", "id": "001"}]`,
		"not json":         `students: none`,
		"bad person shape": `{"BSCS 1B": [{"name": {"first": "Juan"}, "id": "001"}]}`,
		"truncated":        `{"BSCS 1B": [`,
	}
	for label, content := range cases {
		path := writeRoster(t, content)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected a parse error", label)
		}
	}
}
