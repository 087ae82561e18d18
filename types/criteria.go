package types

// FuelType, Transmission and Drivetrain enumerate the categorical criteria
// that are inferred from free text rather than read from discrete fields.
type FuelType string

const (
	FuelGas      FuelType = "gas"
	FuelHybrid   FuelType = "hybrid"
	FuelElectric FuelType = "electric"
	FuelDiesel   FuelType = "diesel"
)

type Transmission string

const (
	TransmissionAutomatic Transmission = "automatic"
	TransmissionManual    Transmission = "manual"
	TransmissionCVT       Transmission = "cvt"
)

type Drivetrain string

const (
	DrivetrainFWD Drivetrain = "fwd"
	DrivetrainRWD Drivetrain = "rwd"
	DrivetrainAWD Drivetrain = "awd"
	Drivetrain4WD Drivetrain = "4wd"
)

// FilterCriteria is a conjunction of optional predicates over extracted
// records. An absent field imposes no constraint.
type FilterCriteria struct {
	FuelType      FuelType     `json:"fuel_type,omitempty" validate:"omitempty,oneof=gas hybrid electric diesel"`
	Transmission  Transmission `json:"transmission,omitempty" validate:"omitempty,oneof=automatic manual cvt"`
	Drivetrain    Drivetrain   `json:"drivetrain,omitempty" validate:"omitempty,oneof=fwd rwd awd 4wd"`
	ExteriorColor string       `json:"exterior_color,omitempty"`
	InteriorColor string       `json:"interior_color,omitempty"`
	Features      []string     `json:"features,omitempty"`
	MinPrice      *int         `json:"min_price,omitempty" validate:"omitempty,min=0"`
	MaxPrice      *int         `json:"max_price,omitempty" validate:"omitempty,min=0"`
	MinYear       *int         `json:"min_year,omitempty" validate:"omitempty,min=1900"`
	MaxYear       *int         `json:"max_year,omitempty" validate:"omitempty,min=1900"`
	MinMileage    *int         `json:"min_mileage,omitempty" validate:"omitempty,min=0"`
	MaxMileage    *int         `json:"max_mileage,omitempty" validate:"omitempty,min=0"`
	BodyStyle     string       `json:"body_style,omitempty"`
	Doors         *int         `json:"doors,omitempty" validate:"omitempty,min=1,max=6"`
}

// AppliedCount reports how many criteria fields carry a constraint.
func (c *FilterCriteria) AppliedCount() int {
	count := 0
	if c.FuelType != "" {
		count++
	}
	if c.Transmission != "" {
		count++
	}
	if c.Drivetrain != "" {
		count++
	}
	if c.ExteriorColor != "" {
		count++
	}
	if c.InteriorColor != "" {
		count++
	}
	if len(c.Features) > 0 {
		count++
	}
	if c.MinPrice != nil {
		count++
	}
	if c.MaxPrice != nil {
		count++
	}
	if c.MinYear != nil {
		count++
	}
	if c.MaxYear != nil {
		count++
	}
	if c.MinMileage != nil {
		count++
	}
	if c.MaxMileage != nil {
		count++
	}
	if c.BodyStyle != "" {
		count++
	}
	if c.Doors != nil {
		count++
	}
	return count
}

// PriceRange summarizes prices over a filtered set. Records without a
// parsed price do not contribute.
type PriceRange struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Average int `json:"average"`
}

type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FilterStatistics is a read-only summary of one filter pass. Ranges are
// nil when no surviving record carries the relevant field.
type FilterStatistics struct {
	OriginalCount       int         `json:"original_count"`
	FilteredCount       int         `json:"filtered_count"`
	ReductionPercentage float64     `json:"reduction_percentage"`
	FiltersApplied      int         `json:"filters_applied"`
	PriceRange          *PriceRange `json:"price_range"`
	YearRange           *YearRange  `json:"year_range"`
}

// FilterResult pairs the surviving records with their statistics.
type FilterResult struct {
	Filtered []VehicleRecord  `json:"filtered"`
	Stats    FilterStatistics `json:"stats"`
}
