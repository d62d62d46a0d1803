// cmd/qrgen generates one QR badge image per roster person, grouped in
// per-category directories, so printed badges scan back into the
// attendance tracker.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"

	"attendtrack/internal/config"
	"attendtrack/internal/logger"
	"attendtrack/internal/roster"
)

const qrImageSize = 300

func main() {
	config.LoadEnv()
	config.ConfigurePaths()

	if err := logger.SetupLogger(config.LoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	idx, err := roster.Load(config.RosterPath())
	if err != nil {
		if errors.Is(err, roster.ErrRosterNotFound) {
			logger.LogFatal("No roster document at %s. Create one before generating badges.", config.RosterPath())
		}
		logger.LogFatal("Roster load: %v", err)
	}

	outDir := config.QRCodesDirectory()
	if err := os.MkdirAll(outDir, 0775); err != nil {
		logger.LogFatal("Failed to create %s: %v", outDir, err)
	}

	generated := 0
	for _, category := range idx.Categories() {
		categoryDir := filepath.Join(outDir, category)
		if err := os.MkdirAll(categoryDir, 0775); err != nil {
			logger.LogFatal("Failed to create %s: %v", categoryDir, err)
		}

		for _, entry := range idx.ByCategory(category) {
			filename := fmt.Sprintf("%s (%s).png", entry.Name, entry.ID)
			path := filepath.Join(categoryDir, filename)
			if err := qrcode.WriteFile(entry.ID, qrcode.Medium, qrImageSize, path); err != nil {
				logger.LogFatal("Failed to write %s: %v", path, err)
			}
			generated++
		}
		logger.LogInfo("Generated badges for %q (%d people)", category, len(idx.ByCategory(category)))
	}

	logger.LogInfo("Done: %d badge images under %s", generated, outDir)
}
