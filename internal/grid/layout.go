package grid

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"attendtrack/internal/ledger"
	"attendtrack/internal/logger"
)

// ErrUnknownCoordinate means a date or person could not be located in the
// worksheet even after the append step, which is supposed to guarantee
// coverage. It signals a corrupted or hand-edited layout and is fatal.
var ErrUnknownCoordinate = errors.New("coordinate not present in worksheet layout")

// PersonRow is one pending row append: an identifier plus display name.
type PersonRow struct {
	ID   string
	Name string
}

// Layout is the resolved coordinate system of one worksheet: which column
// block each date owns, which row each person owns, and where the next
// block and row go. It is computed fresh from the persisted cells on every
// run; the worksheet itself is the only durable record of the layout.
type Layout struct {
	Dates map[string]int // date label -> first column of its block
	Rows  map[string]int // person ID -> row

	NextColumn int // first column of the next unallocated block
	NextRow    int // next unallocated person row
}

// ResolveLayout scans the worksheet's header cells and rebuilds the
// layout. Date labels are read along the header row in steps of one block,
// stopping at the first empty block start; person IDs are read down the ID
// column, stopping at the first empty cell. The scan never writes, so
// running it twice against an unchanged worksheet yields identical
// mappings.
func ResolveLayout(f *excelize.File, sheet string) (*Layout, error) {
	layout := &Layout{
		Dates: make(map[string]int),
		Rows:  make(map[string]int),
	}

	for col := FirstDataColumn; ; col += ledger.BlockWidth {
		value, err := cellValue(f, sheet, col, DateHeaderRow)
		if err != nil {
			return nil, err
		}
		if value == "" {
			layout.NextColumn = col
			break
		}
		// The label repeats across the block; only the block start is read.
		if _, seen := layout.Dates[value]; !seen {
			layout.Dates[value] = col
		}
	}

	for row := FirstDataRow; ; row++ {
		value, err := cellValue(f, sheet, IDColumn, row)
		if err != nil {
			return nil, err
		}
		if value == "" {
			layout.NextRow = row
			break
		}
		if _, seen := layout.Rows[value]; !seen {
			layout.Rows[value] = row
		}
	}

	return layout, nil
}

// AppendDateBlocks allocates a header block for every date not yet in the
// layout, in the order given. Each new block gets the date label across
// its full width and one mode label per column. Existing blocks are never
// touched.
func (l *Layout) AppendDateBlocks(f *excelize.File, sheet string, dates []string) error {
	for _, date := range dates {
		if _, known := l.Dates[date]; known {
			continue
		}
		start := l.NextColumn
		for _, et := range ledger.Types() {
			col := start + et.Index()
			if err := setCell(f, sheet, col, DateHeaderRow, date); err != nil {
				return err
			}
			if err := setCell(f, sheet, col, TypeHeaderRow, et.Label()); err != nil {
				return err
			}
		}
		l.Dates[date] = start
		l.NextColumn = start + ledger.BlockWidth
		logger.LogInfo("Appended date block %q to %q at column %d", date, sheet, start)
	}
	return nil
}

// AppendPersonRows allocates a row for every person not yet in the layout,
// in the order given, writing identifier and display name. Existing rows
// are never touched.
func (l *Layout) AppendPersonRows(f *excelize.File, sheet string, people []PersonRow) error {
	for _, p := range people {
		if _, known := l.Rows[p.ID]; known {
			continue
		}
		row := l.NextRow
		if err := setCell(f, sheet, IDColumn, row, p.ID); err != nil {
			return err
		}
		if err := setCell(f, sheet, NameColumn, row, p.Name); err != nil {
			return err
		}
		l.Rows[p.ID] = row
		l.NextRow = row + 1
		logger.LogInfo("Appended person %s to %q at row %d", p.ID, sheet, row)
	}
	return nil
}

// Cell resolves the target cell for one recorded time. Both the date and
// the person must already be in the layout; a miss here means the append
// step failed its coverage guarantee.
func (l *Layout) Cell(date string, et ledger.EventType, personID string) (string, error) {
	col, ok := l.Dates[date]
	if !ok {
		return "", fmt.Errorf("%w: no column block for date %q", ErrUnknownCoordinate, date)
	}
	row, ok := l.Rows[personID]
	if !ok {
		return "", fmt.Errorf("%w: no row for person %q", ErrUnknownCoordinate, personID)
	}
	return excelize.CoordinatesToCellName(col+et.Index(), row)
}

func cellValue(f *excelize.File, sheet string, col, row int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("invalid coordinate (%d,%d): %w", col, row, err)
	}
	value, err := f.GetCellValue(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("failed to read %s!%s: %w", sheet, cell, err)
	}
	return value, nil
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid coordinate (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellStr(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
