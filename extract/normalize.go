package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lotscan/lotscan/types"
)

var (
	numberRe = regexp.MustCompile(`-?[\d,]*\d`)
	titleRe  = regexp.MustCompile(`(\d{4})\s+([A-Za-z-]+)\s+(.+)`)
	yearRe   = regexp.MustCompile(`(\d{4})`)
	digitRe  = regexp.MustCompile(`(\d+)`)
)

// ParseNumber pulls the first integer out of display text such as "$12,345"
// or "34,210 miles". A value with no parseable number yields nil, never
// zero: zero is a legitimate price and must stay distinguishable from
// "could not parse".
func ParseNumber(text string) *int {
	match := numberRe.FindString(text)
	if match == "" {
		return nil
	}

	value, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return nil
	}

	return &value
}

// ParseTitle splits "<4-digit year> <make> <model...>" into its parts. A
// title that does not match the pattern leaves the record untouched.
func ParseTitle(title string, record *types.VehicleRecord) {
	match := titleRe.FindStringSubmatch(title)
	if match == nil {
		return
	}

	year, err := strconv.Atoi(match[1])
	if err != nil {
		return
	}

	record.Year = &year
	record.Make = match[2]
	record.Model = strings.TrimSpace(match[3])
}

// ParseYear finds the first 4-digit year in text, for fields like
// "Established 1987".
func ParseYear(text string) *int {
	match := yearRe.FindString(text)
	if match == "" {
		return nil
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &year
}

// ParseDigits finds the first bare digit run, for counts like "4 doors".
func ParseDigits(text string) *int {
	match := digitRe.FindString(text)
	if match == "" {
		return nil
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &value
}

// ParseRating reads a decimal rating like "4.5 out of 5".
func ParseRating(text string) *float64 {
	fields := strings.Fields(text)
	for _, field := range fields {
		value, err := strconv.ParseFloat(strings.Trim(field, "()"), 64)
		if err == nil {
			return &value
		}
	}
	return nil
}
