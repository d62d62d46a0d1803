package grid

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"attendtrack/internal/logger"
)

// Anchor coordinates of every category worksheet. Date labels sit on the
// header row from the first data column, one block of BlockWidth columns
// per date; mode labels sit on the row below; person IDs and names run
// down the first two columns from the first data row.
const (
	DateHeaderRow   = 3
	TypeHeaderRow   = 4
	FirstDataRow    = 5
	IDColumn        = 1
	NameColumn      = 2
	FirstDataColumn = 3
)

// ErrWorkbookLocked means a spreadsheet application holds the target
// workbook open; writing would risk a lost update.
var ErrWorkbookLocked = errors.New("workbook is open in another application")

// FindWorkbook decides which workbook file the run targets. A configured
// name always wins; otherwise a single .xlsx in dir is adopted, none falls
// back to fallback (created later), and several is an error the operator
// must resolve through configuration.
func FindWorkbook(dir, configured, fallback string) (string, error) {
	if configured != "" {
		if filepath.IsAbs(configured) {
			return configured, nil
		}
		return filepath.Join(dir, configured), nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to scan %s for workbooks: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".xlsx") {
			continue
		}
		// Lock-marker files are not workbooks.
		if strings.HasPrefix(name, "~$") {
			continue
		}
		candidates = append(candidates, name)
	}

	switch len(candidates) {
	case 0:
		logger.LogInfo("No workbook found in %s, will create %s", dir, fallback)
		return filepath.Join(dir, fallback), nil
	case 1:
		logger.LogInfo("Using workbook %s", candidates[0])
		return filepath.Join(dir, candidates[0]), nil
	default:
		return "", fmt.Errorf("multiple workbooks in %s (%s): set WORKBOOK_FILE to choose one",
			dir, strings.Join(candidates, ", "))
	}
}

// WorkbookLocked reports whether a lock-marker file (the "~$" companion a
// spreadsheet application creates while a file is open) exists beside the
// target workbook. Checked once before the run; no lock is ever taken by
// this program itself.
func WorkbookLocked(path string) bool {
	marker := filepath.Join(filepath.Dir(path), "~$"+filepath.Base(path))
	if _, err := os.Stat(marker); err == nil {
		return true
	}
	return false
}

// OpenWorkbook opens the workbook at path, creating a fresh in-memory one
// when the file does not exist yet. The second return value reports
// whether the workbook was newly created.
func OpenWorkbook(path string) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return excelize.NewFile(), true, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return f, false, nil
}

// EnsureSheet creates the named worksheet if it is not present yet.
func EnsureSheet(f *excelize.File, name string) error {
	for _, existing := range f.GetSheetList() {
		if existing == name {
			return nil
		}
	}
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create worksheet %q: %w", name, err)
	}
	logger.LogInfo("Created worksheet %q", name)
	return nil
}
