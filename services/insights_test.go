package services

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"daft-scraper/models"
	"daft-scraper/utils"
)

func newTestInsights() *InsightService {
	return NewInsightService(utils.NewLoggerTo(io.Discard, io.Discard, false))
}

func near(station string, d int) map[string]models.StationDistance {
	return map[string]models.StationDistance{"GREEN_LUAS": {Station: station, DistanceM: d}}
}

func sampleProperties() []*models.Property {
	return []*models.Property{
		{MainAddress: "A", Price: models.Some(200000), Sector: models.Some("Dublin 6"), Transit: near("Ranelagh", 300)},
		{MainAddress: "B", Price: models.Some(500000), Sector: models.Some("Dublin 6"), Transit: near("Beechwood", 120)},
		{MainAddress: "C", Price: models.Some(350000), Sector: models.Some("South Co. Dublin"), Transit: near("Brides Glen", -1)},
		{MainAddress: "D", Sector: models.Some("Dublin 8"), Transit: near("Harcourt", 900)},
	}
}

func TestInsightCounts(t *testing.T) {
	r := newTestInsights().Generate(sampleProperties())

	assert.Equal(t, 4, r.TotalProperties)
	assert.Equal(t, 3, r.PricedProperties)
}

func TestInsightPrices(t *testing.T) {
	r := newTestInsights().Generate(sampleProperties())

	assert.Equal(t, 350000.0, r.AveragePrice)
	assert.Equal(t, 200000, r.MinPrice)
	assert.Equal(t, 500000, r.MaxPrice)
	if assert.NotNil(t, r.MostExpensive) {
		assert.Equal(t, "B", r.MostExpensive.MainAddress)
	}
}

func TestInsightMostExpensiveFirst(t *testing.T) {
	props := []*models.Property{
		{MainAddress: "first", Price: models.Some(900000)},
		{MainAddress: "second", Price: models.Some(100000)},
	}

	r := newTestInsights().Generate(props)

	assert.Equal(t, "first", r.MostExpensive.MainAddress)
}

func TestInsightClosestSkipsUnknownDistances(t *testing.T) {
	r := newTestInsights().Generate(sampleProperties())

	closest := r.ClosestToLine["GREEN_LUAS"]
	if assert.Len(t, closest, 3) {
		assert.Equal(t, "B", closest[0].MainAddress)
		assert.Equal(t, "A", closest[1].MainAddress)
		assert.Equal(t, "D", closest[2].MainAddress)
	}
}

func TestInsightSectorGrouping(t *testing.T) {
	r := newTestInsights().Generate(sampleProperties())

	assert.Equal(t, 2, r.PropertiesBySector["Dublin 6"])
	assert.Equal(t, 1, r.PropertiesBySector["Dublin 8"])
}

func TestInsightEmptyInput(t *testing.T) {
	r := newTestInsights().Generate(nil)

	assert.Equal(t, 0, r.TotalProperties)
	assert.Nil(t, r.MostExpensive)
}

func TestInsightPrint(t *testing.T) {
	svc := newTestInsights()
	var buf bytes.Buffer

	svc.Print(&buf, svc.Generate(sampleProperties()))

	out := buf.String()
	assert.Contains(t, out, "DAFT SCRAPE INSIGHTS")
	assert.Contains(t, out, "Closest to GREEN_LUAS")
	assert.Contains(t, out, "Dublin 6")
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "Dún Laoghaire", truncate("Dún Laoghaire", 13))
	assert.Equal(t, "Dún...", truncate("Dún Laoghaire, South Co. Dublin", 6))
	assert.Equal(t, "Dún Laoghaire, South C...", truncate("Dún Laoghaire, South Co. Dublin", 25))
}
