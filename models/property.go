package models

// StationDistance is the nearest station on one transit line and the
// ground distance to it. DistanceM is -1 when the property has no usable
// coordinate.
type StationDistance struct {
	Station   string `json:"station"`
	DistanceM int    `json:"distance_m"`
}

// Property is one extracted listing, ready for persistence.
type Property struct {
	Link         string            `json:"link"`
	PropertyType string            `json:"property_type"`
	BERRating    Optional[string]  `json:"ber_rating"`
	Price        Optional[int]     `json:"price"`
	Bedrooms     Optional[int]     `json:"bedrooms"`
	Bathrooms    Optional[int]     `json:"bathrooms"`
	FloorAreaM2  Optional[float64] `json:"floor_area_m2"`
	MainAddress  string            `json:"main_address"`
	Sector       Optional[string]  `json:"sector"`
	Region       Optional[string]  `json:"region"`
	Geolocation  Optional[string]  `json:"geolocation"`
	Description  string            `json:"description"`
	UpdatedAt    Optional[string]  `json:"updated_at"`
	Views        Optional[int]     `json:"views"`

	// Transit is keyed by transit line identifier, e.g. "GREEN_LUAS".
	Transit map[string]StationDistance `json:"transit"`
}

// Report holds the computed summary over a set of extracted properties.
type Report struct {
	TotalProperties  int
	PricedProperties int
	AveragePrice     float64
	MinPrice         int
	MaxPrice         int
	MostExpensive    *Property

	// ClosestToLine lists, per transit line, up to five properties with
	// the smallest known distance to a station.
	ClosestToLine map[string][]*Property

	PropertiesBySector map[string]int
}
