// valcheck-verify re-checks a rendered report against its stored manifest:
// every critical value must still appear where the manifest recorded it.
// No recomputation happens; the manifest is the ground truth.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/blueboyrocks/valcheck/internal/common"
	"github.com/blueboyrocks/valcheck/internal/interfaces"
	"github.com/blueboyrocks/valcheck/internal/services/qa"
	"github.com/blueboyrocks/valcheck/internal/storage/badger"
)

var (
	configPath   = flag.String("config", "", "Configuration file path")
	reportID     = flag.String("id", "", "Report ID of the stored manifest (required)")
	sectionsPath = flag.String("sections", "", "JSON file mapping section name to rendered text (required)")
	showVersion  = flag.Bool("version", false, "Print version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("Valcheck %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	paths := []string{}
	if *configPath != "" {
		paths = append(paths, *configPath)
	} else if _, err := os.Stat("valcheck.toml"); err == nil {
		paths = append(paths, "valcheck.toml")
	}

	config, err := common.LoadFromFiles(paths...)
	if err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := common.InitLogger(config)

	if *reportID == "" || *sectionsPath == "" {
		logger.Fatal().Msg("Usage: valcheck-verify -id <report-id> -sections <sections.json>")
	}

	result, err := verify(logger, config, *reportID, *sectionsPath)
	if err != nil {
		if errors.Is(err, interfaces.ErrManifestNotFound) {
			logger.Fatal().Str("report_id", *reportID).Msg("No manifest stored for report ID")
		}
		logger.Fatal().Err(err).Msg("Verification failed")
	}

	encoded, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(encoded))

	if !result.Passed {
		os.Exit(1)
	}
}

func verify(logger arbor.ILogger, config *common.Config, id, sectionsPath string) (*qa.VerificationResult, error) {
	data, err := os.ReadFile(sectionsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sections %s: %w", sectionsPath, err)
	}

	var sections map[string]string
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("failed to parse sections %s: %w", sectionsPath, err)
	}

	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	storage := badger.NewManifestStorage(db, logger)
	manifest, err := storage.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}

	result := qa.VerifyManifest(manifest, sections)

	logger.Info().
		Str("report_id", id).
		Bool("passed", result.Passed).
		Int("missing", len(result.Missing)).
		Msg("Manifest re-verification complete")

	return &result, nil
}
