package main

import (
	"reflect"
	"testing"

	"attendtrack/internal/ledger"
)

func TestProjectionCategoriesUnion(t *testing.T) {
	led := ledger.New()
	led.Record("Mon 01-01-2024", "BSCS 1B", ledger.AMTimeIn, "001", "08:05")
	led.Record("Mon 01-01-2024", "BSCS 2B OLD", ledger.AMTimeIn, "050", "08:07")
	led.Record("Tue 01-02-2024", "BSIT 1A OLD", ledger.PMTimeOut, "060", "17:20")

	// Roster order is preserved; ledger-only categories follow in name
	// order so their history still reaches the grid.
	got := projectionCategories([]string{"BSIT 4A", "BSCS 1B"}, led)
	want := []string{"BSIT 4A", "BSCS 1B", "BSCS 2B OLD", "BSIT 1A OLD"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("projectionCategories = %v, want %v", got, want)
	}
}

func TestProjectionCategoriesRosterOnly(t *testing.T) {
	led := ledger.New()
	led.Record("Mon 01-01-2024", "BSCS 1B", ledger.AMTimeIn, "001", "08:05")

	got := projectionCategories([]string{"BSCS 1B", "BSIT 4A"}, led)
	want := []string{"BSCS 1B", "BSIT 4A"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("projectionCategories = %v, want %v", got, want)
	}
}
