package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"daft-scraper/models"
)

const (
	// berExempt is the BER code shown for properties exempt from rating.
	berExempt = "SI_666"

	// priceOnApplication marks listings that publish no asking price.
	priceOnApplication = "application"
)

// Extractor converts raw page text into typed property fields. Every
// method is a pure function of its input. Absent and sentinel values
// resolve to an empty Optional; only malformed values return an
// *ExtractionError.
type Extractor struct {
	nonDigit  *regexp.Regexp
	statsDate *regexp.Regexp
	statsNum  *regexp.Regexp
	address   *AddressDecomposer
}

// NewExtractor creates an Extractor with its patterns compiled.
func NewExtractor() *Extractor {
	return &Extractor{
		nonDigit: regexp.MustCompile(`\D`),
		// day.month.year, e.g. "19.04.2020"
		statsDate: regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`),
		// view counter, e.g. "2914" or "12,345"
		statsNum: regexp.MustCompile(`^(?:\d{1,3}(?:,\d{3})+|\d+)$`),
		address:  NewAddressDecomposer(),
	}
}

// PropertyType returns the trimmed property type, or "" when absent.
func (e *Extractor) PropertyType(raw models.Optional[string]) string {
	return strings.TrimSpace(raw.OrElse(""))
}

// MainAddress returns the trimmed address line, or "" when absent.
func (e *Extractor) MainAddress(raw models.Optional[string]) string {
	return strings.TrimSpace(raw.OrElse(""))
}

// BERRating returns the energy rating code unchanged. Exempt and blank
// codes yield no rating.
func (e *Extractor) BERRating(raw models.Optional[string]) models.Optional[string] {
	code, ok := raw.Get()
	if !ok || strings.TrimSpace(code) == "" || strings.TrimSpace(code) == berExempt {
		return models.None[string]()
	}
	return models.Some(code)
}

// Price parses an asking price such as "€375,000". Blank text and
// "Price On Application" yield no price.
func (e *Extractor) Price(raw models.Optional[string]) (models.Optional[int], error) {
	text, ok := raw.Get()
	if !ok || strings.TrimSpace(text) == "" {
		return models.None[int](), nil
	}
	if strings.Contains(strings.ToLower(text), priceOnApplication) {
		return models.None[int](), nil
	}

	digits := e.nonDigit.ReplaceAllString(text, "")
	price, err := strconv.Atoi(digits)
	if err != nil {
		return models.None[int](), &ExtractionError{Field: "price", Raw: text, Err: err}
	}
	return models.Some(price), nil
}

// Bedrooms parses "<n> Bed".
func (e *Extractor) Bedrooms(raw models.Optional[string]) (models.Optional[int], error) {
	return e.leadingInt("bedrooms", raw)
}

// Bathrooms parses "<n> Bath".
func (e *Extractor) Bathrooms(raw models.Optional[string]) (models.Optional[int], error) {
	return e.leadingInt("bathrooms", raw)
}

// FloorArea parses "<n> m²", where n may be fractional.
func (e *Extractor) FloorArea(raw models.Optional[string]) (models.Optional[float64], error) {
	text, token, ok := leadingToken(raw)
	if !ok {
		return models.None[float64](), nil
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return models.None[float64](), &ExtractionError{Field: "floor_area_m2", Raw: text, Err: err}
	}
	return models.Some(v), nil
}

func (e *Extractor) leadingInt(field string, raw models.Optional[string]) (models.Optional[int], error) {
	text, token, ok := leadingToken(raw)
	if !ok {
		return models.None[int](), nil
	}
	v, err := strconv.Atoi(token)
	if err != nil {
		return models.None[int](), &ExtractionError{Field: field, Raw: text, Err: err}
	}
	return models.Some(v), nil
}

// leadingToken returns the raw text and the part of it before the first
// whitespace. ok is false for absent or blank input.
func leadingToken(raw models.Optional[string]) (text, token string, ok bool) {
	text, ok = raw.Get()
	if !ok {
		return "", "", false
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return text, "", false
	}
	return text, fields[0], true
}

// Address splits the main address line into sector and region.
func (e *Extractor) Address(raw models.Optional[string]) Address {
	text, ok := raw.Get()
	if !ok {
		return Address{}
	}
	return e.address.Decompose(text)
}

// Geolocation returns the "lat,lon" text after the last '=' of a map link.
// The value is not validated here.
func (e *Extractor) Geolocation(raw models.Optional[string]) models.Optional[string] {
	link, ok := raw.Get()
	if !ok {
		return models.None[string]()
	}
	if i := strings.LastIndex(link, "="); i >= 0 {
		link = link[i+1:]
	}
	return models.Some(link)
}

// Description joins the non-blank text fragments, each trimmed, with
// single spaces.
func (e *Extractor) Description(fragments []string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// UpdatedAt returns the first "dd.mm.yyyy" statistics token as
// "yyyy-mm-dd". The calendar date is not validated.
func (e *Extractor) UpdatedAt(tokens []string) models.Optional[string] {
	for _, tok := range tokens {
		m := e.statsDate.FindStringSubmatch(strings.TrimSpace(tok))
		if m == nil {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return models.Some(fmt.Sprintf("%s-%02d-%02d", m[3], month, day))
	}
	return models.None[string]()
}

// Views returns the first all-digit statistics token, with thousands
// separators removed.
func (e *Extractor) Views(tokens []string) (models.Optional[int], error) {
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if !e.statsNum.MatchString(tok) {
			continue
		}
		v, err := strconv.Atoi(strings.ReplaceAll(tok, ",", ""))
		if err != nil {
			return models.None[int](), &ExtractionError{Field: "views", Raw: tok, Err: err}
		}
		return models.Some(v), nil
	}
	return models.None[int](), nil
}
