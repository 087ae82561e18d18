package extract

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lotscan/lotscan/types"
	"github.com/lotscan/lotscan/utils"
)

// Assembler runs the field extractor over the per-page-type locator tables
// and merges the results into normalized records.
type Assembler struct {
	logger    types.Logger
	extractor *Extractor
	urls      types.URLBuilder
}

func NewAssembler(logger types.Logger, extractor *Extractor, urls types.URLBuilder) *Assembler {
	return &Assembler{
		logger:    logger,
		extractor: extractor,
		urls:      urls,
	}
}

// AssembleSearchResults extracts one record per listing container. A
// container that yields no stable identifier is dropped rather than
// emitted as a partial record; without an identifier the record cannot be
// cached or de-duplicated downstream.
func (a *Assembler) AssembleSearchResults(doc types.Queryable) []types.VehicleRecord {
	var containers []types.Element
	for _, selector := range ListingContainerSelectors {
		containers = doc.Select(selector)
		if len(containers) > 0 {
			break
		}
	}

	records := make([]types.VehicleRecord, 0, len(containers))
	dropped := 0
	now := time.Now()

	for _, container := range containers {
		record := a.assembleSearchListing(container, now)
		if record.ListingID == "" {
			dropped++
			continue
		}
		records = append(records, record)
	}

	if dropped > 0 {
		a.logger.Debug("Dropped listing containers without identifiers",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(records)))
	}

	return records
}

func (a *Assembler) assembleSearchListing(container types.Element, now time.Time) types.VehicleRecord {
	record := types.VehicleRecord{LastUpdated: now}

	if id, ok := a.extractor.First(container, searchListingID); ok {
		record.ListingID = id
	}

	if href, ok := a.extractor.First(container, searchDetailsLink); ok {
		record.DetailsURL = a.urls.AbsoluteURL(href)
		if record.ListingID == "" {
			record.ListingID = a.urls.ListingIDFromURL(href)
		}
	}

	if title, ok := a.extractor.First(container, searchTitle); ok {
		record.Title = title
		ParseTitle(title, &record)
	}

	if price, display := a.extractor.FirstNumber(container, searchPrice); display != "" {
		record.Price = price
		record.PriceDisplay = display
	}

	if text, ok := a.extractor.First(container, searchMileage); ok {
		// Mileage chains overlap with other numeric badges; require the
		// word "mile" before trusting the match.
		if strings.Contains(strings.ToLower(text), "mile") {
			record.Mileage = ParseNumber(text)
			record.MileageDisplay = text
		}
	}

	if location, ok := a.extractor.First(container, searchLocation); ok {
		record.Location = location
	}

	if dealer, ok := a.extractor.First(container, searchDealer); ok {
		record.DealerName = dealer
	}

	if image, ok := a.extractor.First(container, searchImage); ok {
		record.ImageURL = a.urls.AbsoluteURL(image)
	}

	return record
}

// AssembleListing extracts a full record from a vehicle details page.
func (a *Assembler) AssembleListing(doc types.Queryable, listingID string) (*types.VehicleRecord, error) {
	root := doc.Root()
	record := types.VehicleRecord{
		ListingID:   listingID,
		DetailsURL:  a.urls.VehicleURL(listingID),
		LastUpdated: time.Now(),
	}

	if title, ok := a.extractor.First(root, detailsTitle); ok {
		record.Title = title
		ParseTitle(title, &record)
	}

	if price, display := a.extractor.FirstNumber(root, detailsPrice); display != "" {
		record.Price = price
		record.PriceDisplay = display
	}

	if mileage, display := a.extractor.FirstNumber(root, detailsMileage); display != "" {
		record.Mileage = mileage
		record.MileageDisplay = display
	}

	if description, ok := a.extractor.First(root, detailsDescription); ok {
		record.Description = description
	}

	if color, ok := a.extractor.First(root, detailsExteriorColor); ok {
		record.ExteriorColor = color
	}

	if color, ok := a.extractor.First(root, detailsInteriorColor); ok {
		record.InteriorColor = color
	}

	record.Specifications = a.extractSpecifications(doc)
	record.Features = a.extractTextList(doc, featureSelector)
	a.deriveFromSpecifications(&record)

	if record.Title == "" && len(record.Specifications) == 0 && record.Price == nil {
		return nil, types.Errorf(types.ErrNoListingsFound, "listing %s yielded no fields", listingID)
	}

	return &record, nil
}

// extractSpecifications walks label/value rows. A row whose label equals
// its value is layout noise, not a specification.
func (a *Assembler) extractSpecifications(doc types.Queryable) map[string]string {
	specs := make(map[string]string)

	for _, row := range doc.Select(specRowSelector) {
		label, _ := a.extractor.First(row, []types.Locator{types.CSS(specLabelSelector)})
		value := lastValue(row, specValueSelector)

		if label == "" || value == "" || label == value {
			continue
		}

		specs[utils.SnakeCase(label)] = value
	}

	return specs
}

func (a *Assembler) extractTextList(doc types.Queryable, selector string) []string {
	var items []string
	for _, el := range doc.Select(selector) {
		if text := el.Text(); text != "" {
			items = append(items, text)
		}
	}
	return items
}

// deriveFromSpecifications backfills categorical fields that details pages
// publish only inside the spec table.
func (a *Assembler) deriveFromSpecifications(record *types.VehicleRecord) {
	for key, value := range record.Specifications {
		switch {
		case strings.Contains(key, "transmission") && record.Transmission == "":
			record.Transmission = value
		case strings.Contains(key, "drive") && record.Drivetrain == "":
			record.Drivetrain = value
		case strings.Contains(key, "body") && record.BodyStyle == "":
			record.BodyStyle = value
		case strings.Contains(key, "door") && record.Doors == nil:
			record.Doors = ParseDigits(value)
		case strings.Contains(key, "exterior") && record.ExteriorColor == "":
			record.ExteriorColor = value
		case strings.Contains(key, "interior") && strings.Contains(key, "color") && record.InteriorColor == "":
			record.InteriorColor = value
		}
	}
}

// AssembleDealer extracts a dealership profile page.
func (a *Assembler) AssembleDealer(doc types.Queryable, dealerID string) (*types.DealerRecord, error) {
	root := doc.Root()
	record := types.DealerRecord{
		DealerID:    dealerID,
		LastUpdated: time.Now(),
	}

	if name, ok := a.extractor.First(root, dealerName); ok {
		record.Name = name
	}

	if address, ok := a.extractor.First(root, dealerAddress); ok {
		record.Address = address
	}

	if phone, ok := a.extractor.First(root, dealerPhone); ok {
		record.Phone = strings.TrimPrefix(phone, "tel:")
	}

	if text, ok := a.extractor.First(root, dealerRating); ok {
		record.Rating = ParseRating(text)
	}

	if text, ok := a.extractor.First(root, dealerReviewCount); ok {
		record.ReviewCount = ParseDigits(text)
	}

	record.BusinessHours = a.extractBusinessHours(doc)
	record.Services = a.extractTextList(doc, dealerServiceSelector)
	record.Certifications = a.extractTextList(doc, dealerCertificationSelector)

	if website, ok := a.extractor.First(root, dealerWebsite); ok {
		record.Website = website
	}

	if email, ok := a.extractor.First(root, dealerEmail); ok {
		record.Email = strings.TrimPrefix(email, "mailto:")
	}

	record.SocialMedia = a.extractSocialLinks(doc)

	if text, ok := a.extractor.First(root, dealerInventoryCount); ok {
		record.InventoryCount = ParseDigits(text)
	}

	if text, ok := a.extractor.First(root, dealerEstablished); ok {
		record.EstablishedYear = ParseYear(text)
	}

	if record.Name == "" && record.Address == "" && record.Phone == "" {
		return nil, types.Errorf(types.ErrNoListingsFound, "dealer %s yielded no fields", dealerID)
	}

	return &record, nil
}

// extractBusinessHours reads rows like "Monday: 9:00 AM - 6:00 PM".
func (a *Assembler) extractBusinessHours(doc types.Queryable) map[string]string {
	hours := make(map[string]string)

	for _, row := range doc.Select(dealerHoursSelector) {
		text := row.Text()
		day, span, found := strings.Cut(text, ":")
		if !found {
			continue
		}
		day = strings.TrimSpace(day)
		span = strings.TrimSpace(span)
		if day == "" || span == "" {
			continue
		}
		hours[day] = span
	}

	if len(hours) == 0 {
		return nil
	}
	return hours
}

func (a *Assembler) extractSocialLinks(doc types.Queryable) map[string]string {
	links := make(map[string]string)

	for _, el := range doc.Select(dealerSocialSelector) {
		href, ok := el.Attr("href")
		if !ok {
			continue
		}
		switch {
		case strings.Contains(href, "facebook"):
			links["facebook"] = href
		case strings.Contains(href, "twitter"):
			links["twitter"] = href
		case strings.Contains(href, "instagram"):
			links["instagram"] = href
		case strings.Contains(href, "linkedin"):
			links["linkedin"] = href
		}
	}

	if len(links) == 0 {
		return nil
	}
	return links
}

// lastValue picks the final match for a selector, needed for <td> rows
// where first and last cell share the selector list.
func lastValue(row types.Element, selector string) string {
	matches := row.Select(selector)
	for i := len(matches) - 1; i >= 0; i-- {
		if text := matches[i].Text(); text != "" {
			return text
		}
	}
	return ""
}
