// Package industry provides the read-only industry reference data and the
// industry-classification lock used to screen report text. The lookup is an
// explicitly constructed service injected into validators, never a global.
package industry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"

	"github.com/blueboyrocks/valcheck/internal/models"
)

// Lookup is the static keyed multiples table: NAICS code to low/median/high
// ranges per benefit stream. Read-only after construction.
type Lookup struct {
	ranges        map[string]models.IndustryRanges
	ceilingFactor float64
	logger        arbor.ILogger
}

// NewLookup builds a lookup over the built-in table. ceilingFactor derives
// the hard rejection bound from each typical high (1.2 by policy default).
func NewLookup(logger arbor.ILogger, ceilingFactor float64) *Lookup {
	ranges := make(map[string]models.IndustryRanges)
	for _, row := range builtinTable() {
		ranges[row.NAICS] = row
	}
	return &Lookup{
		ranges:        ranges,
		ceilingFactor: ceilingFactor,
		logger:        logger,
	}
}

// tableFile is the TOML layout for industry table overrides.
type tableFile struct {
	Industries []models.IndustryRanges `toml:"industry"`
}

// LoadTable merges rows from a TOML file over the built-in table. Rows with
// a NAICS code already present replace the built-in row.
func (l *Lookup) LoadTable(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read industry table %s: %w", path, err)
	}

	var file tableFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse industry table %s: %w", path, err)
	}

	for _, row := range file.Industries {
		if row.NAICS == "" {
			continue
		}
		l.ranges[row.NAICS] = row
	}

	l.logger.Info().Str("path", path).Int("rows", len(file.Industries)).Msg("Loaded industry table overrides")
	return nil
}

// RangesFor returns the ranges for a NAICS code, falling back to shorter
// prefixes so a 6-digit code can match a broader 4-digit table row.
func (l *Lookup) RangesFor(naics string) (models.IndustryRanges, bool) {
	code := strings.TrimSpace(naics)
	for len(code) >= 2 {
		if row, ok := l.ranges[code]; ok {
			return row, true
		}
		code = code[:len(code)-1]
	}
	return models.IndustryRanges{}, false
}

// CeilingFactor returns the hard-ceiling multiplier.
func (l *Lookup) CeilingFactor() float64 {
	return l.ceilingFactor
}

// Codes returns the NAICS codes present in the table, sorted.
func (l *Lookup) Codes() []string {
	codes := make([]string, 0, len(l.ranges))
	for code := range l.ranges {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// keywordsByIndustry returns each industry's distinctive keywords, sorted by
// NAICS code for deterministic screening order.
func (l *Lookup) keywordsByIndustry() []models.IndustryRanges {
	rows := make([]models.IndustryRanges, 0, len(l.ranges))
	for _, row := range l.ranges {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].NAICS < rows[j].NAICS })
	return rows
}
