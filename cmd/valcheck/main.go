package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/blueboyrocks/valcheck/internal/common"
	"github.com/blueboyrocks/valcheck/internal/models"
	"github.com/blueboyrocks/valcheck/internal/services/industry"
	"github.com/blueboyrocks/valcheck/internal/services/qa"
	"github.com/blueboyrocks/valcheck/internal/services/variance"
	"github.com/blueboyrocks/valcheck/internal/storage/badger"
	"github.com/blueboyrocks/valcheck/internal/store"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	inputPath    = flag.String("input", "", "Valuation payload JSON file (required)")
	outputPath   = flag.String("output", "", "QA report output file (default: stdout)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

// runInput is the envelope the calculation engine and extraction passes
// hand to the QA pipeline.
type runInput struct {
	Payload               models.ValuationPayload       `json:"payload"`
	Sections              map[string]string             `json:"sections,omitempty"`
	SectionValues         map[string]map[string]float64 `json:"section_values,omitempty"`
	Priors                []variance.Prior              `json:"prior_valuations,omitempty"`
	MultipleJustification string                        `json:"multiple_justification,omitempty"`
	CitationCount         int                           `json:"citation_count,omitempty"`
}

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Valcheck %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// Startup sequence: config, logger, banner, then the run.
	if len(configFiles) == 0 {
		if _, err := os.Stat("valcheck.toml"); err == nil {
			configFiles = append(configFiles, "valcheck.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.LoadVersionFromFile())

	common.InstallCrashHandler("./logs")
	defer common.RecoverWithCrashFile()

	if *inputPath == "" {
		logger.Fatal().Msg("No input file: pass -input <payload.json>")
	}

	report, err := run(logger, config, *inputPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("QA run failed")
	}

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to encode QA report")
	}

	if *outputPath != "" {
		if err := os.WriteFile(*outputPath, encoded, 0644); err != nil {
			logger.Fatal().Err(err).Str("path", *outputPath).Msg("Failed to write QA report")
		}
		logger.Info().Str("path", *outputPath).Msg("QA report written")
	} else {
		fmt.Println(string(encoded))
	}

	if !report.CanGenerateReport {
		logger.Warn().Str("status", string(report.Status)).Msg("Report generation blocked")
		os.Exit(1)
	}
}

func run(logger arbor.ILogger, config *common.Config, path string) (*models.QAReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", path, err)
	}

	var input runInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse input %s: %w", path, err)
	}

	snapshot, err := store.New(&input.Payload)
	if err != nil {
		return nil, fmt.Errorf("payload rejected: %w", err)
	}

	lookup := industry.NewLookup(logger, config.Policy.CeilingFactor)
	if config.Industry.TablePath != "" {
		if err := lookup.LoadTable(config.Industry.TablePath); err != nil {
			return nil, err
		}
	}

	var lock *industry.Lock
	company := snapshot.Company()
	if company.NAICSCode != "" {
		lock, err = industry.NewLock(company.NAICSCode, company.IndustryDescription, lookup)
		if err != nil {
			logger.Warn().Err(err).Str("naics", company.NAICSCode).Msg("Industry lock unavailable; reference screening skipped")
		}
	}

	orchestrator := qa.NewOrchestrator(logger, lookup, config.Policy)
	report := orchestrator.Run(qa.Input{
		Store:                 snapshot,
		Lock:                  lock,
		Sections:              input.Sections,
		SectionValues:         input.SectionValues,
		Priors:                input.Priors,
		MultipleJustification: input.MultipleJustification,
		CitationCount:         input.CitationCount,
	})

	if err := saveManifest(logger, config, snapshot, input.Sections, report); err != nil {
		// The QA verdict stands even when the manifest cannot be persisted.
		logger.Warn().Err(err).Msg("Failed to persist report manifest")
	}

	return report, nil
}

func saveManifest(logger arbor.ILogger, config *common.Config, snapshot *store.Store, sections map[string]string, report *models.QAReport) error {
	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return err
	}
	defer db.Close()

	consistency := models.ManifestCheck{Passed: true}
	for _, layer := range report.Layers {
		if layer.Layer == qa.LayerValidation {
			consistency = models.ManifestCheck{Passed: layer.Passed, Issues: layer.Issues}
		}
	}

	manifest := qa.BuildManifest(report.ReportID, snapshot, sections, consistency)
	storage := badger.NewManifestStorage(db, logger)
	return storage.Save(context.Background(), manifest)
}
