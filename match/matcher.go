package match

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/lotscan/lotscan/extract"
	"github.com/lotscan/lotscan/types"
	"github.com/lotscan/lotscan/utils"
)

// Matcher re-classifies extracted records against heuristic criteria. Every
// present criterion must hold (pure conjunction); evaluation short-circuits
// on the first failure, cheapest predicates first.
type Matcher struct {
	logger types.Logger
}

func NewMatcher(logger types.Logger) *Matcher {
	return &Matcher{logger: logger}
}

// Matches reports whether a record satisfies every present criterion. A
// record field that is unknown passes numeric range checks: absence means
// "unknown", and an unknown value cannot be proven out of range.
func (m *Matcher) Matches(record *types.VehicleRecord, criteria *types.FilterCriteria) bool {
	if criteria.MinPrice != nil && record.Price != nil && *record.Price < *criteria.MinPrice {
		return false
	}
	if criteria.MaxPrice != nil && record.Price != nil && *record.Price > *criteria.MaxPrice {
		return false
	}

	if criteria.MinYear != nil && record.Year != nil && *record.Year < *criteria.MinYear {
		return false
	}
	if criteria.MaxYear != nil && record.Year != nil && *record.Year > *criteria.MaxYear {
		return false
	}

	if criteria.MinMileage != nil && record.Mileage != nil && *record.Mileage < *criteria.MinMileage {
		return false
	}
	if criteria.MaxMileage != nil && record.Mileage != nil && *record.Mileage > *criteria.MaxMileage {
		return false
	}

	if criteria.FuelType != "" && !m.matchesIndicators(record, fuelIndicators[criteria.FuelType]) {
		return false
	}
	if criteria.Transmission != "" && !m.matchesIndicators(record, transmissionIndicators[criteria.Transmission]) {
		return false
	}
	if criteria.Drivetrain != "" && !m.matchesIndicators(record, drivetrainIndicators[criteria.Drivetrain]) {
		return false
	}

	if criteria.ExteriorColor != "" && !matchesColor(record.ExteriorColor, criteria.ExteriorColor) {
		return false
	}
	if criteria.InteriorColor != "" && !matchesColor(record.InteriorColor, criteria.InteriorColor) {
		return false
	}

	if criteria.BodyStyle != "" && !m.matchesBodyStyle(record, criteria.BodyStyle) {
		return false
	}

	if criteria.Doors != nil && !matchesDoors(record, *criteria.Doors) {
		return false
	}

	if len(criteria.Features) > 0 && !hasRequiredFeatures(record, criteria.Features) {
		return false
	}

	return true
}

// Filter applies the criteria to every record and summarizes the outcome.
func (m *Matcher) Filter(records []types.VehicleRecord, criteria *types.FilterCriteria) *types.FilterResult {
	filtered := make([]types.VehicleRecord, 0, len(records))
	for i := range records {
		if m.Matches(&records[i], criteria) {
			filtered = append(filtered, records[i])
		}
	}

	stats := m.calculateStats(records, filtered, criteria)

	m.logger.Debug("Filter pass completed",
		zap.Int("original", len(records)),
		zap.Int("filtered", len(filtered)),
		zap.Int("filters_applied", stats.FiltersApplied))

	return &types.FilterResult{Filtered: filtered, Stats: stats}
}

// matchesIndicators scans specification pairs, then features, then title
// and description, short-circuiting on the first indicator hit.
func (m *Matcher) matchesIndicators(record *types.VehicleRecord, indicators []string) bool {
	for key, value := range record.Specifications {
		specText := utils.Fold(key + " " + value)
		for _, indicator := range indicators {
			if strings.Contains(specText, indicator) {
				return true
			}
		}
	}

	featuresText := utils.Fold(strings.Join(record.Features, " "))
	for _, indicator := range indicators {
		if strings.Contains(featuresText, indicator) {
			return true
		}
	}

	titleAndDescription := utils.Fold(record.Title + " " + record.Description)
	for _, indicator := range indicators {
		if strings.Contains(titleAndDescription, indicator) {
			return true
		}
	}

	return false
}

// matchesColor applies bidirectional substring containment: "Midnight
// Black" matches target "black" and vice versa. An absent vehicle color
// never matches.
func matchesColor(vehicleColor, targetColor string) bool {
	if vehicleColor == "" {
		return false
	}
	return utils.ContainsEither(vehicleColor, targetColor)
}

func (m *Matcher) matchesBodyStyle(record *types.VehicleRecord, target string) bool {
	targetLower := utils.Fold(target)

	if record.BodyStyle != "" && strings.Contains(utils.Fold(record.BodyStyle), targetLower) {
		return true
	}

	for key, value := range record.Specifications {
		if strings.Contains(utils.Fold(key+" "+value), targetLower) {
			return true
		}
	}

	return strings.Contains(utils.Fold(record.Title), targetLower)
}

func matchesDoors(record *types.VehicleRecord, target int) bool {
	if record.Doors != nil {
		return *record.Doors == target
	}

	for key, value := range record.Specifications {
		if !strings.Contains(strings.ToLower(key), "door") {
			continue
		}
		if count := extract.ParseDigits(value); count != nil && *count == target {
			return true
		}
	}

	return false
}

// hasRequiredFeatures demands every requested feature appear somewhere in
// the record's combined text. Partial satisfaction fails the criterion.
func hasRequiredFeatures(record *types.VehicleRecord, required []string) bool {
	parts := make([]string, 0, 3+len(record.Specifications))
	parts = append(parts, strings.Join(record.Features, " "))
	for key, value := range record.Specifications {
		parts = append(parts, key+" "+value)
	}
	parts = append(parts, record.Title, record.Description)
	allText := utils.Fold(strings.Join(parts, " "))

	for _, feature := range required {
		if !strings.Contains(allText, utils.Fold(feature)) {
			return false
		}
	}

	return true
}

func (m *Matcher) calculateStats(original, filtered []types.VehicleRecord, criteria *types.FilterCriteria) types.FilterStatistics {
	stats := types.FilterStatistics{
		OriginalCount:  len(original),
		FilteredCount:  len(filtered),
		FiltersApplied: criteria.AppliedCount(),
	}

	// Guard the zero-original case; an empty input set reduces by nothing.
	if len(original) > 0 {
		reduction := float64(len(original)-len(filtered)) / float64(len(original)) * 100
		stats.ReductionPercentage = math.Round(reduction*10) / 10
	}

	if len(filtered) == 0 {
		return stats
	}

	var prices []int
	var years []int
	for i := range filtered {
		if filtered[i].Price != nil {
			prices = append(prices, *filtered[i].Price)
		}
		if filtered[i].Year != nil {
			years = append(years, *filtered[i].Year)
		}
	}

	if len(prices) > 0 {
		sort.Ints(prices)
		sum := 0
		for _, price := range prices {
			sum += price
		}
		stats.PriceRange = &types.PriceRange{
			Min:     prices[0],
			Max:     prices[len(prices)-1],
			Average: int(math.Round(float64(sum) / float64(len(prices)))),
		}
	}

	if len(years) > 0 {
		sort.Ints(years)
		stats.YearRange = &types.YearRange{
			Min: years[0],
			Max: years[len(years)-1],
		}
	}

	return stats
}
