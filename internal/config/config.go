// internal/config/config.go
package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"attendtrack/internal/logger"
)

// Variables available everywhere
var (
	baseDir          string
	dataDirectory    string
	logsDirectory    string
	workbookFile     string // empty means "discover in the data directory"
	rosterFile       string
	ledgerFile       string
	qrCodesDirectory string
)

// Built-in defaults; every one can be overridden from the environment.
const (
	DefaultWorkbookFile = "CCIS_ATTENDANCE.xlsx"
	defaultRosterFile   = "students-data.json"
	defaultLedgerFile   = "backup.json"
	defaultTimeZone     = "Asia/Manila"
	defaultLogFormat    = "attendance_%s.log"
	defaultQRCodesDir   = "QR_Codes"
)

//
// --- Loaders ---
//

// LoadEnv reads .env file
func LoadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not determine working directory: %v", err)
	} else {
		log.Printf("Current working directory: %s", wd)
	}

	err = godotenv.Load(".env")
	if err != nil {
		log.Printf("No .env file found in %s. Using system environment variables.", wd)
	} else {
		log.Printf("Loaded environment variables from .env file in %s", wd)
	}
}

// LoggerConfig returns a logger.Config struct populated from environment
func LoggerConfig() logger.Config {
	logDir := os.Getenv("LOGS_DIRECTORY")
	if logDir == "" {
		logDir = "./logs"
	}

	logFormat := os.Getenv("LOG_FILE_FORMAT")
	if logFormat == "" {
		logFormat = defaultLogFormat
	}

	timezone := os.Getenv("TIME_ZONE")
	if timezone == "" {
		timezone = defaultTimeZone
	}

	return logger.Config{
		LogsDirectory: logDir,
		LogFileFormat: logFormat,
		TimeZone:      timezone,
	}
}

// ConfigurePaths sets up folders and paths
func ConfigurePaths() {
	wd, err := os.Getwd()
	if err != nil {
		logger.LogFatal("Failed to get working directory: %v", err)
	}
	baseDir = wd

	dataDir := os.Getenv("DATA_DIRECTORY")
	if dataDir != "" {
		dataDirectory = dataDir
	} else {
		dataDirectory = baseDir
	}

	logsDir := os.Getenv("LOGS_DIRECTORY")
	if logsDir != "" {
		logsDirectory = logsDir
	} else {
		logsDirectory = filepath.Join(baseDir, "logs")
	}

	if err := os.MkdirAll(dataDirectory, 0775); err != nil {
		logger.LogFatal("Failed to create data directory '%s': %v", dataDirectory, err)
	}

	// The workbook, roster, and ledger all live in the data directory.
	workbookFile = os.Getenv("WORKBOOK_FILE")

	rosterFile = os.Getenv("ROSTER_FILE")
	if rosterFile == "" {
		rosterFile = defaultRosterFile
	}

	ledgerFile = os.Getenv("LEDGER_FILE")
	if ledgerFile == "" {
		ledgerFile = defaultLedgerFile
	}

	qrDir := os.Getenv("QR_CODES_DIRECTORY")
	if qrDir != "" {
		qrCodesDirectory = qrDir
	} else {
		qrCodesDirectory = filepath.Join(dataDirectory, defaultQRCodesDir)
	}
}

// TimeZoneName returns the configured IANA time zone for attendance stamps.
func TimeZoneName() string {
	tz := os.Getenv("TIME_ZONE")
	if tz == "" {
		tz = defaultTimeZone
	}
	return tz
}

// ConfigureLocalTime points time.Local at the configured zone so
// attendance stamps agree with log timestamps. Must run after LoadEnv,
// otherwise a TIME_ZONE set only in .env is invisible here.
func ConfigureLocalTime() {
	name := TimeZoneName()
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.LogWarn("Invalid TIME_ZONE '%s', keeping %s: %v", name, time.Local, err)
		return
	}
	time.Local = loc
}

//
// --- Getters (exported) ---
//

func DataDirectory() string {
	return dataDirectory
}

func LogsDirectory() string {
	return logsDirectory
}

// WorkbookFile returns the configured workbook filename, or "" when the
// workbook should be discovered in the data directory instead.
func WorkbookFile() string {
	return workbookFile
}

func RosterPath() string {
	return filepath.Join(dataDirectory, rosterFile)
}

func LedgerPath() string {
	return filepath.Join(dataDirectory, ledgerFile)
}

func QRCodesDirectory() string {
	return qrCodesDirectory
}
