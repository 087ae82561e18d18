package match

import (
	"github.com/lotscan/lotscan/types"
)

// Indicator tables map each enum value to the lowercase substrings that
// imply it in free text. Listing pages rarely publish fuel type,
// transmission or drivetrain as discrete fields, so these are inferred from
// whatever text the page does carry. Kept as data so new indicators extend
// the tables, not the matching logic.

var fuelIndicators = map[types.FuelType][]string{
	types.FuelElectric: {"electric", "ev", "battery", "plug-in"},
	types.FuelHybrid:   {"hybrid", "prius", "camry hybrid", "accord hybrid"},
	types.FuelDiesel:   {"diesel", "tdi", "turbodiesel"},
	types.FuelGas:      {"gas", "gasoline", "v6", "v8", "v4", "turbo"},
}

var transmissionIndicators = map[types.Transmission][]string{
	types.TransmissionAutomatic: {"automatic", "auto", "cvt", "a/t"},
	types.TransmissionManual:    {"manual", "stick", "mt", "m/t", "5-speed", "6-speed manual"},
	types.TransmissionCVT:       {"cvt", "continuously variable"},
}

var drivetrainIndicators = map[types.Drivetrain][]string{
	types.DrivetrainFWD: {"fwd", "front-wheel drive", "front wheel drive"},
	types.DrivetrainRWD: {"rwd", "rear-wheel drive", "rear wheel drive"},
	types.DrivetrainAWD: {"awd", "all-wheel drive", "all wheel drive"},
	types.Drivetrain4WD: {"4wd", "4x4", "four-wheel drive", "four wheel drive"},
}
