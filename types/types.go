package types

import (
	"time"
)

// VehicleRecord is one extracted vehicle listing. Only ListingID and Title
// are guaranteed; every other field is best-effort. Numeric fields are
// pointers because absence means "unknown", which is distinct from zero.
type VehicleRecord struct {
	ListingID      string            `json:"listing_id"`
	Title          string            `json:"title"`
	Year           *int              `json:"year,omitempty"`
	Make           string            `json:"make,omitempty"`
	Model          string            `json:"model,omitempty"`
	Price          *int              `json:"price,omitempty"`
	PriceDisplay   string            `json:"price_display,omitempty"`
	Mileage        *int              `json:"mileage,omitempty"`
	MileageDisplay string            `json:"mileage_display,omitempty"`
	ExteriorColor  string            `json:"exterior_color,omitempty"`
	InteriorColor  string            `json:"interior_color,omitempty"`
	Transmission   string            `json:"transmission,omitempty"`
	Drivetrain     string            `json:"drivetrain,omitempty"`
	BodyStyle      string            `json:"body_style,omitempty"`
	Doors          *int              `json:"doors,omitempty"`
	Features       []string          `json:"features,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Description    string            `json:"description,omitempty"`
	DealerName     string            `json:"dealer_name,omitempty"`
	Location       string            `json:"location,omitempty"`
	ImageURL       string            `json:"image_url,omitempty"`
	DetailsURL     string            `json:"details_url,omitempty"`
	LastUpdated    time.Time         `json:"last_updated"`
}

// DealerRecord is one extracted dealership profile.
type DealerRecord struct {
	DealerID        string            `json:"dealer_id"`
	Name            string            `json:"name,omitempty"`
	Address         string            `json:"address,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Rating          *float64          `json:"rating,omitempty"`
	ReviewCount     *int              `json:"review_count,omitempty"`
	BusinessHours   map[string]string `json:"business_hours,omitempty"`
	Services        []string          `json:"services,omitempty"`
	Certifications  []string          `json:"certifications,omitempty"`
	Website         string            `json:"website,omitempty"`
	Email           string            `json:"email,omitempty"`
	SocialMedia     map[string]string `json:"social_media,omitempty"`
	InventoryCount  *int              `json:"inventory_count,omitempty"`
	EstablishedYear *int              `json:"established_year,omitempty"`
	LastUpdated     time.Time         `json:"last_updated"`
}

// SearchParams describes an inventory search. ZipCode anchors the search
// radius; everything else narrows it.
type SearchParams struct {
	Make       string `json:"make,omitempty"`
	Model      string `json:"model,omitempty"`
	ZipCode    string `json:"zip_code" validate:"required,len=5,numeric"`
	MinPrice   *int   `json:"min_price,omitempty" validate:"omitempty,min=0"`
	MaxPrice   *int   `json:"max_price,omitempty" validate:"omitempty,min=0"`
	MinYear    *int   `json:"min_year,omitempty" validate:"omitempty,min=1900"`
	MaxYear    *int   `json:"max_year,omitempty" validate:"omitempty,min=1900"`
	MaxMileage *int   `json:"max_mileage,omitempty" validate:"omitempty,min=0"`
	Radius     int    `json:"radius,omitempty" validate:"omitempty,min=1,max=500"`
	Limit      int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// SearchResult is the outcome of one inventory search.
type SearchResult struct {
	Records   []VehicleRecord `json:"records"`
	SearchURL string          `json:"search_url"`
	Cached    bool            `json:"cached"`
}

// IntPtr and Float64Ptr are shorthand for building optional fields.
func IntPtr(v int) *int             { return &v }
func Float64Ptr(v float64) *float64 { return &v }
