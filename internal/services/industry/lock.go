package industry

import (
	"fmt"
	"regexp"
	"strings"
)

// naicsPattern validates a NAICS code: 2 to 6 digits.
var naicsPattern = regexp.MustCompile(`^\d{2,6}$`)

// BlockedKeyword is one keyword a locked industry must never see in its
// report text, with the industry the keyword belongs to.
type BlockedKeyword struct {
	Keyword  string `json:"keyword"`
	Industry string `json:"industry"`
}

// Violation is one blocked keyword found in a piece of report text.
type Violation struct {
	Keyword  string `json:"keyword"`
	Industry string `json:"industry"`
	Section  string `json:"section,omitempty"`
}

// Lock freezes the determined industry classification. It is created once
// when classification is decided and the downstream narrative and QA steps
// treat it as non-negotiable ground truth: text referencing a different
// industry's distinctive terms is a defect, not a judgment call.
type Lock struct {
	naics       string
	description string
	keywords    []string
	blocked     []BlockedKeyword
}

// NewLock validates the NAICS code and freezes the classification. The
// lookup supplies the locked industry's own keywords and every other
// industry's keywords as the blocked list.
func NewLock(naics string, description string, lookup *Lookup) (*Lock, error) {
	code := strings.TrimSpace(naics)
	if !naicsPattern.MatchString(code) {
		return nil, fmt.Errorf("invalid NAICS code %q: must be 2-6 digits", naics)
	}

	lock := &Lock{
		naics:       code,
		description: strings.TrimSpace(description),
	}

	own, ok := lookup.RangesFor(code)
	for _, row := range lookup.keywordsByIndustry() {
		if ok && row.NAICS == own.NAICS {
			lock.keywords = append(lock.keywords, row.Keywords...)
			continue
		}
		for _, keyword := range row.Keywords {
			lock.blocked = append(lock.blocked, BlockedKeyword{Keyword: keyword, Industry: row.Name})
		}
	}

	return lock, nil
}

// NAICS returns the locked NAICS code.
func (l *Lock) NAICS() string {
	return l.naics
}

// Description returns the locked industry description.
func (l *Lock) Description() string {
	return l.description
}

// ValidateReference scans text for blocked cross-industry keywords and
// returns every violation, not just the first, so all bad references can be
// fixed in one pass.
func (l *Lock) ValidateReference(text string) []Violation {
	lowered := strings.ToLower(text)

	var violations []Violation
	for _, blocked := range l.blocked {
		if strings.Contains(lowered, blocked.Keyword) {
			violations = append(violations, Violation{
				Keyword:  blocked.Keyword,
				Industry: blocked.Industry,
			})
		}
	}
	return violations
}

// MatchesIndustry is a heuristic keyword-overlap check used for sanity
// confirmation, not error detection: it reports whether the text mentions
// any of the locked industry's own distinctive terms, and which ones.
func (l *Lock) MatchesIndustry(text string) (bool, []string) {
	lowered := strings.ToLower(text)

	var matched []string
	for _, keyword := range l.keywords {
		if strings.Contains(lowered, keyword) {
			matched = append(matched, keyword)
		}
	}
	return len(matched) > 0, matched
}
