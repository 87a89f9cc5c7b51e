package correction

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCorrection is the outcome of canonicalizing one display value.
// Re-running on already-canonical input reports Corrected = false.
type FormatCorrection struct {
	Corrected bool   `json:"corrected"`
	Original  string `json:"original"`
	Canonical string `json:"canonical"`
}

// CorrectCurrencyFormat canonicalizes a currency display value to the form
// "$1,234,568" (rounded to the whole dollar). Idempotent.
func (e *Engine) CorrectCurrencyFormat(field, value string) (FormatCorrection, error) {
	amount, err := parseNumeric(value)
	if err != nil {
		return FormatCorrection{}, fmt.Errorf("cannot parse currency value %q: %w", value, err)
	}

	canonical := FormatCurrency(amount)
	if value == canonical {
		return FormatCorrection{Corrected: false, Original: value, Canonical: canonical}, nil
	}

	e.appendAudit(field, value, canonical, fmt.Sprintf("canonicalized currency display for %s", field))
	return FormatCorrection{Corrected: true, Original: value, Canonical: canonical}, nil
}

// CorrectPercentageFormat canonicalizes a percentage display value to one
// decimal place, e.g. "12.3%". Idempotent.
func (e *Engine) CorrectPercentageFormat(field, value string) (FormatCorrection, error) {
	amount, err := parseNumeric(value)
	if err != nil {
		return FormatCorrection{}, fmt.Errorf("cannot parse percentage value %q: %w", value, err)
	}

	canonical := FormatPercent(amount)
	if value == canonical {
		return FormatCorrection{Corrected: false, Original: value, Canonical: canonical}, nil
	}

	e.appendAudit(field, value, canonical, fmt.Sprintf("canonicalized percentage display for %s", field))
	return FormatCorrection{Corrected: true, Original: value, Canonical: canonical}, nil
}

// FormatCurrency renders a value as "$1,234,568", rounded to the dollar.
func FormatCurrency(value float64) string {
	negative := value < 0
	whole := int64(math.Round(math.Abs(value)))

	digits := strconv.FormatInt(whole, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	formatted := "$" + strings.Join(groups, ",")
	if negative {
		formatted = "-" + formatted
	}
	return formatted
}

// FormatPercent renders a value as "12.3%".
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// parseNumeric strips currency/percentage decoration and parses the number.
func parseNumeric(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "%", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(cleaned, 64)
}
