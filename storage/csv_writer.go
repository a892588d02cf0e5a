package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"daft-scraper/models"
)

// CSVWriter writes properties to a CSV file, one row per property, with
// two columns (station, distance) per transit line.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	lines  []string
}

var csvHeader = []string{
	"link", "property_type", "ber_rating", "price", "bedrooms", "bathrooms", "floor_area_m2",
	"main_address", "sector", "region", "geolocation", "description", "updated_at", "views",
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string, lines []string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	lines = append([]string(nil), lines...)
	sort.Strings(lines)

	header := append([]string(nil), csvHeader...)
	for _, l := range lines {
		header = append(header, l+"_station", l+"_distance_m")
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w, lines: lines}, nil
}

// Write appends one row per property.
func (c *CSVWriter) Write(properties []*models.Property) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range properties {
		row := []string{
			p.Link,
			p.PropertyType,
			p.BERRating.OrElse(""),
			optionalInt(p.Price),
			optionalInt(p.Bedrooms),
			optionalInt(p.Bathrooms),
			optionalFloat(p.FloorAreaM2),
			p.MainAddress,
			p.Sector.OrElse(""),
			p.Region.OrElse(""),
			p.Geolocation.OrElse(""),
			p.Description,
			p.UpdatedAt.OrElse(""),
			optionalInt(p.Views),
		}
		for _, l := range c.lines {
			sd, ok := p.Transit[l]
			if !ok {
				row = append(row, "", "")
				continue
			}
			row = append(row, sd.Station, strconv.Itoa(sd.DistanceM))
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer.Flush()
	return c.file.Close()
}

func optionalInt(o models.Optional[int]) string {
	v, ok := o.Get()
	if !ok {
		return ""
	}
	return strconv.Itoa(v)
}

func optionalFloat(o models.Optional[float64]) string {
	v, ok := o.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
