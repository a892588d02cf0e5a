package daft

import (
	"fmt"
	"strings"
)

const (
	Address           = "https://www.daft.ie"
	DublinCity        = "/dublin-city"
	PropertiesForSale = "/property-for-sale"

	saleArgs = "/?ad_type=sale"
)

// DefaultAreas is searched when no areas are given on the command line.
const DefaultAreas = "dublin-1,dublin-2"

// Search describes a property-for-sale search. Price and bed bounds are
// only applied when both ends of the range are set.
type Search struct {
	Areas    string
	MinPrice int
	MaxPrice int
	MinBeds  int
	MaxBeds  int
}

// StartURL returns the first listing page URL for the search.
func (s Search) StartURL() string {
	var b strings.Builder
	b.WriteString(Address + DublinCity + PropertiesForSale)

	if areas := strings.TrimSpace(s.Areas); areas != "" {
		b.WriteString("/" + areas)
	}
	b.WriteString(saleArgs)

	if s.MinPrice > 0 && s.MaxPrice > 0 {
		fmt.Fprintf(&b, "&s%%5Bmnp%%5D=%d&s%%5Bmxp%%5D=%d", s.MinPrice, s.MaxPrice)
	}
	if s.MinBeds > 0 && s.MaxBeds > 0 {
		fmt.Fprintf(&b, "&s%%5Bmnb%%5D=%d&s%%5Bmxb%%5D=%d", s.MinBeds, s.MaxBeds)
	}
	return b.String()
}
