package daft

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daft-scraper/models"
	"daft-scraper/scraper"
	"daft-scraper/services"
	"daft-scraper/transit"
	"daft-scraper/utils"
)

const base = "https://www.daft.ie"

func listingPage(next string, links ...string) string {
	html := "<html><body>"
	for _, l := range links {
		html += fmt.Sprintf(`<div class="PropertyCardContainer__container">
  <a class="PropertyInformationCommonStyles__addressCopy--link" href="%s">card</a>
</div>`, l)
	}
	if next != "" {
		html += fmt.Sprintf(`<ul><li class="next_page"><a href="%s">Next</a></li></ul>`, next)
	}
	return html + "</body></html>"
}

func detailPage(price, address, viewpoint string) string {
	return fmt.Sprintf(`<html><body>
<div class="PropertyMainInformation__address">%s</div>
<div class="PropertyInformationCommonStyles__costAmountCopy">%s</div>
<div class="QuickPropertyDetails__propertyType">
    Apartment
</div>
<div class="QuickPropertyDetails__iconCopy">2 Bed</div>
<div class="QuickPropertyDetails__iconCopy--WithBorder">1 Bath</div>
<div class="PropertyOverview__floorArea">54 m²</div>
<img class="BERDetails__berImage" alt="SI_666">
<a class="PropertyShortcode__link" href="https://www.google.com/maps/@?api=1&amp;map_action=pano&amp;viewpoint=%s">Street view</a>
<div class="PropertyDescription__propertyDescription">
  A wonderful opportunity <br>
  Side entrance
</div>
<div class="PropertyStatistics__iconData">19.04.2020</div>
<div class="PropertyStatistics__iconData">2,914</div>
</body></html>`, address, price, viewpoint)
}

type mapFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	opened []string
}

func (f *mapFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, url)
	body, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("404 %s", url)
	}
	return []byte(body), nil
}

func newSpider(t *testing.T, f *mapFetcher, maxPages int) *Spider {
	t.Helper()
	logger := utils.NewLoggerTo(io.Discard, io.Discard, false)
	src, err := scraper.NewHTMLSource(f)
	require.NoError(t, err)
	registry, err := transit.LoadRegistry("")
	require.NoError(t, err)
	asm, err := services.NewAssembler(DetailSelectors, registry, []transit.Line{transit.GreenLuas}, logger)
	require.NoError(t, err)
	return New(src, asm, Options{MaxPages: maxPages, Concurrency: 4}, logger)
}

func links(props []*models.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.Link)
	}
	sort.Strings(out)
	return out
}

func TestSpiderCrawlsListingAndDetailPages(t *testing.T) {
	start := base + "/dublin-city/property-for-sale/?ad_type=sale"
	f := &mapFetcher{pages: map[string]string{
		start: listingPage("/dublin-city/property-for-sale/?offset=20", "/for-sale/a/1", "/for-sale/b/2"),
		base + "/dublin-city/property-for-sale/?offset=20": listingPage("", "/for-sale/b/2", "/for-sale/c/3"),
		base + "/for-sale/a/1":                             detailPage("€375,000", "Apt 1, Cherrywood, South Co. Dublin", "53.244746,-6.144861"),
		base + "/for-sale/b/2":                             detailPage("Price On Application", "2 Main St, Dublin 8", "53.3,-6.3"),
		base + "/for-sale/c/3":                             detailPage("€2,750,000", "SingleAddress", ""),
	}}

	props, err := newSpider(t, f, 0).Crawl(context.Background(), start)
	require.NoError(t, err)

	assert.Equal(t, []string{base + "/for-sale/a/1", base + "/for-sale/b/2", base + "/for-sale/c/3"}, links(props))

	byLink := map[string]*models.Property{}
	for _, p := range props {
		byLink[p.Link] = p
	}

	a := byLink[base+"/for-sale/a/1"]
	assert.Equal(t, models.Some(375000), a.Price)
	assert.Equal(t, "Apartment", a.PropertyType)
	assert.False(t, a.BERRating.Valid())
	assert.Equal(t, models.Some("South Co. Dublin"), a.Sector)
	assert.Equal(t, models.Some("Cherrywood"), a.Region)
	assert.Equal(t, "A wonderful opportunity Side entrance", a.Description)
	assert.Equal(t, models.Some("2020-04-19"), a.UpdatedAt)
	assert.Equal(t, models.Some(2914), a.Views)
	assert.Equal(t, models.StationDistance{Station: "Cherrywood", DistanceM: 40}, a.Transit["GREEN_LUAS"])

	assert.False(t, byLink[base+"/for-sale/b/2"].Price.Valid())

	c := byLink[base+"/for-sale/c/3"]
	assert.Equal(t, models.Some(2750000), c.Price)
	assert.Equal(t, models.Some(""), c.Geolocation)
	assert.Equal(t, transit.NoDistance, c.Transit["GREEN_LUAS"].DistanceM)
}

func TestSpiderSkipsRecordsThatFailExtraction(t *testing.T) {
	start := base + "/list"
	f := &mapFetcher{pages: map[string]string{
		start:                     listingPage("", "/for-sale/good/1", "/for-sale/bad/2", "/for-sale/missing/3"),
		base + "/for-sale/good/1": detailPage("€300,000", "1 Road, Dublin 4", "53.33,-6.23"),
		base + "/for-sale/bad/2":  detailPage("INVALID", "2 Road, Dublin 4", "53.33,-6.23"),
	}}

	props, err := newSpider(t, f, 0).Crawl(context.Background(), start)
	require.NoError(t, err)

	assert.Equal(t, []string{base + "/for-sale/good/1"}, links(props))
}

func TestSpiderHonoursPageLimit(t *testing.T) {
	start := base + "/list"
	f := &mapFetcher{pages: map[string]string{
		start:                  listingPage("/list?page=2", "/for-sale/a/1"),
		base + "/list?page=2":  listingPage("", "/for-sale/b/2"),
		base + "/for-sale/a/1": detailPage("€1", "x, y", ""),
		base + "/for-sale/b/2": detailPage("€2", "x, y", ""),
	}}

	props, err := newSpider(t, f, 1).Crawl(context.Background(), start)
	require.NoError(t, err)

	assert.Equal(t, []string{base + "/for-sale/a/1"}, links(props))
	assert.NotContains(t, f.opened, base+"/list?page=2")
}

func TestSpiderFailsWhenFirstPageIsUnavailable(t *testing.T) {
	f := &mapFetcher{pages: map[string]string{}}

	props, err := newSpider(t, f, 0).Crawl(context.Background(), base+"/list")

	assert.Error(t, err)
	assert.Empty(t, props)
}
