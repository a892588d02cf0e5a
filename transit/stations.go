package transit

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Line identifies a transit line.
type Line string

const (
	GreenLuas Line = "GREEN_LUAS"
	RedLuas   Line = "RED_LUAS"
	Dart      Line = "DART"
)

var knownLines = map[Line]struct{}{
	GreenLuas: {},
	RedLuas:   {},
	Dart:      {},
}

// ParseLine maps a configured line name onto a known Line.
func ParseLine(s string) (Line, error) {
	l := Line(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := knownLines[l]; !ok {
		return "", fmt.Errorf("transit: unknown line %q", s)
	}
	return l, nil
}

// Station is a single stop on a transit line.
type Station struct {
	Name string
	Lat  float64
	Lon  float64
	Line Line
}

//go:embed stations.yaml
var embeddedStations []byte

type stationRecord struct {
	Name string  `yaml:"name" validate:"required"`
	Lat  float64 `yaml:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `yaml:"lon" validate:"gte=-180,lte=180"`
}

type stationFile struct {
	Lines map[string][]stationRecord `yaml:"lines"`
}

// Registry holds the immutable station sets, one per line. It is built
// once and only read afterwards, so it is safe for concurrent use.
type Registry struct {
	sets map[Line][]Station
}

// LoadRegistry returns the embedded station data, with any line defined in
// the YAML file at path replacing the embedded set for that line. An empty
// path yields the embedded data only.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{sets: make(map[Line][]Station)}
	if err := r.merge(embeddedStations); err != nil {
		return nil, fmt.Errorf("transit: embedded station data: %w", err)
	}
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transit: read stations file %q: %w", path, err)
	}
	if err := r.merge(data); err != nil {
		return nil, fmt.Errorf("transit: stations file %q: %w", path, err)
	}
	return r, nil
}

func (r *Registry) merge(data []byte) error {
	var f stationFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	v := validator.New()
	for name, records := range f.Lines {
		line, err := ParseLine(name)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("line %s has no stations", line)
		}

		set := make([]Station, 0, len(records))
		for i, rec := range records {
			if err := v.Struct(rec); err != nil {
				return fmt.Errorf("line %s station %d: %w", line, i, err)
			}
			set = append(set, Station{Name: rec.Name, Lat: rec.Lat, Lon: rec.Lon, Line: line})
		}
		r.sets[line] = set
	}
	return nil
}

// Stations returns the ordered station set for a line. Callers must not
// modify the returned slice.
func (r *Registry) Stations(line Line) ([]Station, error) {
	set, ok := r.sets[line]
	if !ok {
		return nil, fmt.Errorf("transit: no stations loaded for line %s", line)
	}
	return set, nil
}

// Lines returns the lines that have station data, sorted by name.
func (r *Registry) Lines() []Line {
	lines := make([]Line, 0, len(r.sets))
	for l := range r.sets {
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	return lines
}
