// main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"attendtrack/internal/capture"
	"attendtrack/internal/config"
	"attendtrack/internal/grid"
	"attendtrack/internal/ledger"
	"attendtrack/internal/logger"
	"attendtrack/internal/roster"
)

type runFlags struct {
	mode        int
	workbook    string
	projectOnly bool
}

func main() {
	// Step 1: Setup configuration first. Local time must be set after
	// LoadEnv so a TIME_ZONE from .env reaches the attendance stamps.
	config.LoadEnv()
	config.ConfigureLocalTime()
	config.ConfigurePaths()

	// Step 2: Setup logging
	loggerConfig := config.LoggerConfig()
	if err := logger.SetupLogger(loggerConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Only NOW is logging safe to use!
	logger.LogInfo("Environment and paths loaded. Logger ready.")

	flags := parseFlags()

	var mode ledger.EventType
	if !flags.projectOnly {
		var err error
		mode, err = ledger.TypeFromNumber(flags.mode)
		if err != nil {
			logger.LogFatal("Mode selection: %v (use -mode 1..4: %s)", err, modeMenu())
		}
		logger.LogInfo("Session mode: %q", mode.Label())
	} else {
		logger.LogInfo("Projection-only run: re-projecting the durable ledger, no capture")
	}

	// Step 3: Acquire the workbook. The lock check is a precondition for
	// the whole run; nothing may be written while a spreadsheet
	// application holds the file open.
	workbookName := flags.workbook
	if workbookName == "" {
		workbookName = config.WorkbookFile()
	}
	workbookPath, err := grid.FindWorkbook(config.DataDirectory(), workbookName, config.DefaultWorkbookFile)
	if err != nil {
		logger.LogFatal("Workbook selection: %v", err)
	}
	if grid.WorkbookLocked(workbookPath) {
		logger.LogFatal("%v: close %s and re-run", grid.ErrWorkbookLocked, workbookPath)
	}
	book, created, err := grid.OpenWorkbook(workbookPath)
	if err != nil {
		logger.LogFatal("Failed to acquire workbook: %v", err)
	}
	defer book.Close()
	if created {
		logger.LogInfo("Workbook %s will be created on save", workbookPath)
	}

	// Step 4: Build the roster index (fatal if the document is missing)
	idx, err := roster.Load(config.RosterPath())
	if err != nil {
		if errors.Is(err, roster.ErrRosterNotFound) {
			logger.LogFatal("No roster document at %s. Create one before recording attendance.", config.RosterPath())
		}
		logger.LogFatal("Roster load: %v", err)
	}

	// Step 5: Load the ledger (creates the backing document on first run)
	led, err := ledger.Load(config.LedgerPath())
	if err != nil {
		logger.LogFatal("Ledger load: %v", err)
	}

	// Step 6: Run the capture session
	if !flags.projectOnly {
		stats, err := capture.Run(capture.NewLineSource(os.Stdin), led, idx, mode, time.Now)
		if err != nil {
			// The in-memory ledger still holds everything recorded so
			// far; persist it before aborting so nothing is lost.
			if perr := led.Persist(config.LedgerPath()); perr != nil {
				logger.LogError("Ledger persist after capture failure: %v", perr)
			}
			logger.LogFatal("Capture session failed: %v", err)
		}
		logger.LogInfo("Session %s: %d of %d scans recorded", stats.SessionID, stats.Recorded, stats.Scans)
	}

	// Step 7: Persist the ledger strictly before any grid mutation, so a
	// failed projection can always be retried from durable state.
	if err := led.Persist(config.LedgerPath()); err != nil {
		logger.LogFatal("Ledger persist: %v", err)
	}
	logger.LogInfo("Ledger persisted to %s", config.LedgerPath())

	// Step 8: Project the ledger into the grid, one worksheet per
	// category. Ledger categories outside the roster still project; the
	// grid must stay rebuildable from the ledger alone.
	for _, category := range projectionCategories(idx.Categories(), led) {
		if err := grid.Project(book, category, led, func(id string) (string, bool) {
			entry, ok := idx.Lookup(id)
			return entry.Name, ok
		}); err != nil {
			logger.LogFatal("Projection of %q: %v", category, err)
		}
	}

	// Step 9: Persist the workbook as a single final step
	if err := book.SaveAs(workbookPath); err != nil {
		logger.LogFatal("Failed to save workbook %s: %v", workbookPath, err)
	}
	logger.LogInfo("Workbook saved to %s", workbookPath)
}

// projectionCategories returns the roster categories in document order,
// followed by any ledger-only categories (sections renamed or removed
// since their events were recorded) in name order.
func projectionCategories(rosterCategories []string, led *ledger.Ledger) []string {
	known := make(map[string]bool, len(rosterCategories))
	categories := append([]string(nil), rosterCategories...)
	for _, category := range rosterCategories {
		known[category] = true
	}
	for _, category := range led.Categories() {
		if !known[category] {
			logger.LogWarn("Ledger category %q is not in the roster; projecting its history anyway", category)
			categories = append(categories, category)
		}
	}
	return categories
}

func parseFlags() runFlags {
	var flags runFlags

	flag.IntVar(&flags.mode, "mode", 0, "Attendance mode: "+modeMenu())
	flag.StringVar(&flags.workbook, "workbook", "", "Workbook filename (overrides WORKBOOK_FILE and discovery)")
	flag.BoolVar(&flags.projectOnly, "project-only", false, "Skip capture; re-project the persisted ledger into the workbook")

	flag.Parse()

	return flags
}

func modeMenu() string {
	menu := ""
	for _, et := range ledger.Types() {
		if menu != "" {
			menu += ", "
		}
		menu += fmt.Sprintf("[%d] %s", et.Index()+1, et.Label())
	}
	return menu
}
