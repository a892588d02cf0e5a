package daft

import (
	"daft-scraper/scraper"
	"daft-scraper/services"
)

// Listing page queries.
var (
	PropertyLinkQuery = scraper.Query{
		Selector: "div.PropertyCardContainer__container a.PropertyInformationCommonStyles__addressCopy--link",
		Attr:     "href",
	}
	NextPageQuery = scraper.Query{Selector: "li.next_page a", Attr: "href"}
)

// DetailSelectors locate the raw fields of a property detail page.
var DetailSelectors = services.Selectors{
	PropertyType: scraper.Query{Selector: ".QuickPropertyDetails__propertyType"},
	BERRating:    scraper.Query{Selector: ".BERDetails__berImage", Attr: "alt"},
	Price:        scraper.Query{Selector: ".PropertyInformationCommonStyles__costAmountCopy"},
	Bedrooms:     scraper.Query{Selector: ".QuickPropertyDetails__iconCopy"},
	Bathrooms:    scraper.Query{Selector: ".QuickPropertyDetails__iconCopy--WithBorder"},
	FloorArea:    scraper.Query{Selector: ".PropertyOverview__floorArea"},
	MainAddress:  scraper.Query{Selector: ".PropertyMainInformation__address"},
	Geolocation:  scraper.Query{Selector: "a.PropertyShortcode__link", Attr: "href"},
	Description:  scraper.Query{Selector: ".PropertyDescription__propertyDescription"},
	Statistics:   scraper.Query{Selector: ".PropertyStatistics__iconData"},
}
