package industry

import "github.com/blueboyrocks/valcheck/internal/models"

// builtinTable is the static industry reference data: NAICS code to multiple
// ranges per benefit stream plus the distinctive keywords used for
// cross-industry reference screening. Ranges reflect small-business
// transaction data for main-street and lower-middle-market deals.
func builtinTable() []models.IndustryRanges {
	return []models.IndustryRanges{
		{
			NAICS:    "541330",
			Name:     "Engineering Services",
			SDE:      models.MultipleRange{Low: 2.0, Median: 2.65, High: 3.5},
			EBITDA:   models.MultipleRange{Low: 3.0, Median: 4.0, High: 5.0},
			Revenue:  models.MultipleRange{Low: 0.5, Median: 0.7, High: 0.95},
			Keywords: []string{"engineering services", "civil engineering", "structural engineering", "consulting engineers", "engineering firm"},
		},
		{
			NAICS:    "238220",
			Name:     "Plumbing, Heating, and Air-Conditioning Contractors",
			SDE:      models.MultipleRange{Low: 2.2, Median: 2.8, High: 3.5},
			EBITDA:   models.MultipleRange{Low: 3.2, Median: 4.2, High: 5.2},
			Revenue:  models.MultipleRange{Low: 0.4, Median: 0.6, High: 0.85},
			Keywords: []string{"hvac", "heating and cooling", "air conditioning", "ventilation", "plumbing contractor"},
		},
		{
			NAICS:    "722511",
			Name:     "Full-Service Restaurants",
			SDE:      models.MultipleRange{Low: 1.5, Median: 2.0, High: 2.8},
			EBITDA:   models.MultipleRange{Low: 2.5, Median: 3.2, High: 4.0},
			Revenue:  models.MultipleRange{Low: 0.25, Median: 0.35, High: 0.5},
			Keywords: []string{"restaurant", "diner", "bistro", "menu offerings", "food service"},
		},
		{
			NAICS:    "722513",
			Name:     "Limited-Service Restaurants",
			SDE:      models.MultipleRange{Low: 1.4, Median: 1.9, High: 2.6},
			EBITDA:   models.MultipleRange{Low: 2.3, Median: 3.0, High: 3.8},
			Revenue:  models.MultipleRange{Low: 0.25, Median: 0.32, High: 0.45},
			Keywords: []string{"fast food", "quick service", "takeout", "drive-through"},
		},
		{
			NAICS:    "621210",
			Name:     "Offices of Dentists",
			SDE:      models.MultipleRange{Low: 1.8, Median: 2.5, High: 3.2},
			EBITDA:   models.MultipleRange{Low: 3.0, Median: 3.8, High: 4.8},
			Revenue:  models.MultipleRange{Low: 0.55, Median: 0.7, High: 0.9},
			Keywords: []string{"dental practice", "dentist", "dentistry", "orthodontic", "dental hygienist"},
		},
		{
			NAICS:    "621111",
			Name:     "Offices of Physicians",
			SDE:      models.MultipleRange{Low: 1.5, Median: 2.2, High: 2.9},
			EBITDA:   models.MultipleRange{Low: 2.8, Median: 3.5, High: 4.5},
			Revenue:  models.MultipleRange{Low: 0.45, Median: 0.6, High: 0.8},
			Keywords: []string{"medical practice", "physician", "family medicine", "patient panel"},
		},
		{
			NAICS:    "811111",
			Name:     "General Automotive Repair",
			SDE:      models.MultipleRange{Low: 1.8, Median: 2.3, High: 3.0},
			EBITDA:   models.MultipleRange{Low: 2.6, Median: 3.3, High: 4.2},
			Revenue:  models.MultipleRange{Low: 0.3, Median: 0.45, High: 0.6},
			Keywords: []string{"auto repair", "automotive repair", "mechanic", "vehicle service"},
		},
		{
			NAICS:    "561730",
			Name:     "Landscaping Services",
			SDE:      models.MultipleRange{Low: 1.7, Median: 2.2, High: 2.9},
			EBITDA:   models.MultipleRange{Low: 2.5, Median: 3.2, High: 4.0},
			Revenue:  models.MultipleRange{Low: 0.35, Median: 0.5, High: 0.7},
			Keywords: []string{"landscaping", "lawn care", "irrigation", "groundskeeping"},
		},
		{
			NAICS:    "541211",
			Name:     "Offices of Certified Public Accountants",
			SDE:      models.MultipleRange{Low: 1.9, Median: 2.4, High: 3.1},
			EBITDA:   models.MultipleRange{Low: 2.9, Median: 3.6, High: 4.5},
			Revenue:  models.MultipleRange{Low: 0.8, Median: 1.0, High: 1.25},
			Keywords: []string{"accounting firm", "cpa practice", "tax preparation", "bookkeeping"},
		},
		{
			NAICS:    "541511",
			Name:     "Custom Computer Programming Services",
			SDE:      models.MultipleRange{Low: 2.5, Median: 3.2, High: 4.2},
			EBITDA:   models.MultipleRange{Low: 4.0, Median: 5.5, High: 7.0},
			Revenue:  models.MultipleRange{Low: 0.8, Median: 1.2, High: 1.8},
			Keywords: []string{"software development", "custom software", "programming services", "development shop"},
		},
		{
			NAICS:    "484121",
			Name:     "General Freight Trucking, Long-Distance",
			SDE:      models.MultipleRange{Low: 1.6, Median: 2.1, High: 2.8},
			EBITDA:   models.MultipleRange{Low: 2.4, Median: 3.1, High: 4.0},
			Revenue:  models.MultipleRange{Low: 0.3, Median: 0.45, High: 0.65},
			Keywords: []string{"trucking", "freight hauling", "long-haul", "fleet of trucks"},
		},
		{
			NAICS:    "236115",
			Name:     "New Single-Family Housing Construction",
			SDE:      models.MultipleRange{Low: 1.7, Median: 2.3, High: 3.0},
			EBITDA:   models.MultipleRange{Low: 2.6, Median: 3.4, High: 4.3},
			Revenue:  models.MultipleRange{Low: 0.25, Median: 0.35, High: 0.5},
			Keywords: []string{"home builder", "residential construction", "general contractor", "custom homes"},
		},
	}
}
