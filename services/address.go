package services

import (
	"strings"

	"daft-scraper/models"
)

// cityCentreMarker appears in the last address segment of city-centre
// listings, which carry an extra district segment before it.
const cityCentreMarker = "City Centre"

// Address holds the components derived from a main address line.
type Address struct {
	Sector models.Optional[string]
	Region models.Optional[string]
}

// AddressDecomposer splits a comma-separated address into sector and
// region. Segments are indexed from the end: leading parts (unit, building,
// street) vary in number, trailing parts do not.
type AddressDecomposer struct {
	marker string
}

// NewAddressDecomposer creates an AddressDecomposer for Dublin addresses.
func NewAddressDecomposer() *AddressDecomposer {
	return &AddressDecomposer{marker: cityCentreMarker}
}

// Decompose derives sector and region from address.
//
//	"7 Crofton Terrace, Dun Laoghaire, South Co. Dublin"
//	  sector "South Co. Dublin", region "Dun Laoghaire"
//	"Apt 12, Stewart Hall, Ryder's Row, Dublin 1, Dublin City Centre"
//	  sector "Dublin City Centre", region "Ryder's Row"
func (d *AddressDecomposer) Decompose(address string) Address {
	segments := strings.Split(address, ",")
	n := len(segments)

	var a Address
	if n < 2 {
		return a
	}

	last := segments[n-1]
	a.Sector = models.Some(strings.TrimSpace(last))

	if n < 3 {
		return a
	}
	if strings.Contains(last, d.marker) {
		a.Region = models.Some(strings.TrimSpace(segments[n-3]))
	} else {
		a.Region = models.Some(strings.TrimSpace(segments[n-2]))
	}
	return a
}
