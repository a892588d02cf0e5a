package services

import (
	"fmt"

	"daft-scraper/models"
	"daft-scraper/scraper"
	"daft-scraper/transit"
	"daft-scraper/utils"
)

// Selectors names the page query for every raw field of a detail page.
type Selectors struct {
	PropertyType scraper.Query
	BERRating    scraper.Query
	Price        scraper.Query
	Bedrooms     scraper.Query
	Bathrooms    scraper.Query
	FloorArea    scraper.Query
	MainAddress  scraper.Query
	Geolocation  scraper.Query
	Description  scraper.Query
	Statistics   scraper.Query
}

// Assembler builds one Property from a detail page: it extracts every
// field and adds the nearest station of each configured transit line.
// It holds no per-page state and is safe for concurrent use.
type Assembler struct {
	extractor *Extractor
	locator   *transit.Locator
	selectors Selectors
	lines     []transit.Line
	stations  map[transit.Line][]transit.Station
}

// NewAssembler resolves the station set of every line up front, so a
// missing line fails at startup rather than per page.
func NewAssembler(sel Selectors, registry *transit.Registry, lines []transit.Line, logger *utils.Logger) (*Assembler, error) {
	stations := make(map[transit.Line][]transit.Station, len(lines))
	for _, line := range lines {
		set, err := registry.Stations(line)
		if err != nil {
			return nil, fmt.Errorf("assembler: %w", err)
		}
		stations[line] = set
	}

	return &Assembler{
		extractor: NewExtractor(),
		locator:   transit.NewLocator(logger),
		selectors: sel,
		lines:     lines,
		stations:  stations,
	}, nil
}

// Assemble extracts a Property from page. The first *ExtractionError
// aborts the whole record.
func (a *Assembler) Assemble(page scraper.Page) (*models.Property, error) {
	ex := a.extractor
	sel := a.selectors

	price, err := ex.Price(field(page, sel.Price))
	if err != nil {
		return nil, err
	}
	beds, err := ex.Bedrooms(field(page, sel.Bedrooms))
	if err != nil {
		return nil, err
	}
	baths, err := ex.Bathrooms(field(page, sel.Bathrooms))
	if err != nil {
		return nil, err
	}
	area, err := ex.FloorArea(field(page, sel.FloorArea))
	if err != nil {
		return nil, err
	}
	stats := page.Fields(sel.Statistics)
	views, err := ex.Views(stats)
	if err != nil {
		return nil, err
	}

	rawAddress := field(page, sel.MainAddress)
	addr := ex.Address(rawAddress)

	p := &models.Property{
		Link:         page.URL(),
		PropertyType: ex.PropertyType(field(page, sel.PropertyType)),
		BERRating:    ex.BERRating(field(page, sel.BERRating)),
		Price:        price,
		Bedrooms:     beds,
		Bathrooms:    baths,
		FloorAreaM2:  area,
		MainAddress:  ex.MainAddress(rawAddress),
		Sector:       addr.Sector,
		Region:       addr.Region,
		Geolocation:  ex.Geolocation(field(page, sel.Geolocation)),
		Description:  ex.Description(page.Fields(sel.Description)),
		UpdatedAt:    ex.UpdatedAt(stats),
		Views:        views,
		Transit:      make(map[string]models.StationDistance, len(a.lines)),
	}

	coords := p.Geolocation.OrElse("")
	for _, line := range a.lines {
		station, dist := a.locator.Nearest(coords, a.stations[line])
		p.Transit[string(line)] = models.StationDistance{Station: station.Name, DistanceM: dist}
	}
	return p, nil
}

func field(page scraper.Page, q scraper.Query) models.Optional[string] {
	v, ok := page.Field(q)
	if !ok {
		return models.None[string]()
	}
	return models.Some(v)
}
