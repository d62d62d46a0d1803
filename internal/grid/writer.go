package grid

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"attendtrack/internal/ledger"
	"attendtrack/internal/logger"
)

// WriteTimes places every recorded time for one category into its resolved
// cell. Writes are plain single-cell overwrites: the ledger guarantees at
// most one time per key, so a cell is never targeted twice with different
// values within a run, and re-running projection rewrites identical
// values. The in-memory workbook is mutated; persisting it is the caller's
// single final step.
func WriteTimes(f *excelize.File, sheet string, layout *Layout, led *ledger.Ledger, category string) error {
	dates, err := led.CategoryDates(category)
	if err != nil {
		return err
	}

	written := 0
	for _, date := range dates {
		for _, et := range ledger.Types() {
			times := led.ModeTimes(date, category, et)
			if len(times) == 0 {
				continue
			}
			ids := make([]string, 0, len(times))
			for id := range times {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			for _, id := range ids {
				cell, err := layout.Cell(date, et, id)
				if err != nil {
					return fmt.Errorf("category %q: %w", category, err)
				}
				if err := f.SetCellStr(sheet, cell, times[id]); err != nil {
					return fmt.Errorf("failed to write time at %s!%s: %w", sheet, cell, err)
				}
				written++
			}
		}
	}

	if written > 0 {
		logger.LogInfo("Wrote %d recorded times to worksheet %q", written, sheet)
	}
	return nil
}

// Project runs the full per-category projection: resolve the existing
// layout, append header blocks for new dates and rows for new people, then
// write every recorded time. nameOf supplies display names for person IDs;
// an ID the roster no longer knows keeps its events and is written with
// the ID standing in for the name.
func Project(f *excelize.File, category string, led *ledger.Ledger, nameOf func(id string) (string, bool)) error {
	if err := EnsureSheet(f, category); err != nil {
		return err
	}

	layout, err := ResolveLayout(f, category)
	if err != nil {
		return fmt.Errorf("failed to resolve layout of %q: %w", category, err)
	}

	dates, err := led.CategoryDates(category)
	if err != nil {
		return err
	}
	if err := layout.AppendDateBlocks(f, category, dates); err != nil {
		return err
	}

	ids := led.PersonIDs(category)
	people := make([]PersonRow, 0, len(ids))
	for _, id := range ids {
		name, ok := nameOf(id)
		if !ok {
			logger.LogWarn("Person %s has recorded events but is no longer in the roster", id)
			name = id
		}
		people = append(people, PersonRow{ID: id, Name: name})
	}
	if err := layout.AppendPersonRows(f, category, people); err != nil {
		return err
	}

	return WriteTimes(f, category, layout, led, category)
}
