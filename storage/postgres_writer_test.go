package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daft-scraper/models"
)

func TestPropertyArgsColumnOrder(t *testing.T) {
	p := &models.Property{
		Link:         "https://www.daft.ie/for-sale/a/1",
		PropertyType: "Apartment",
		Price:        models.Some(375000),
		Bedrooms:     models.Some(2),
		FloorAreaM2:  models.Some(54.5),
		MainAddress:  "Apt 1, Cherrywood, South Co. Dublin",
		Sector:       models.Some("South Co. Dublin"),
		Geolocation:  models.Some("53.244746,-6.144861"),
		UpdatedAt:    models.Some("2020-04-19"),
		Transit: map[string]models.StationDistance{
			"GREEN_LUAS": {Station: "Cherrywood", DistanceM: 40},
		},
	}

	args, err := propertyArgs(p)
	require.NoError(t, err)
	require.Len(t, args, propertyColumns)

	assert.Equal(t, p.Link, args[0])
	assert.Equal(t, "Apartment", args[1])
	assert.Nil(t, args[2])
	assert.Equal(t, 375000, *args[3].(*int))
	assert.Equal(t, 2, *args[4].(*int))
	assert.Nil(t, args[5])
	assert.Equal(t, 54.5, *args[6].(*float64))
	assert.Nil(t, args[9])
	assert.Equal(t, "2020-04-19", *args[12].(*string))
	assert.Nil(t, args[13])

	var transit map[string]models.StationDistance
	require.NoError(t, json.Unmarshal([]byte(args[14].(string)), &transit))
	assert.Equal(t, p.Transit, transit)
}

func TestPropertyArgsKeepsUncheckedDates(t *testing.T) {
	p := &models.Property{Link: "x", UpdatedAt: models.Some("2020-02-31")}

	args, err := propertyArgs(p)
	require.NoError(t, err)

	assert.Equal(t, "2020-02-31", *args[12].(*string))
}
