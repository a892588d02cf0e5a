package transit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddedRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := LoadRegistry("")
	require.NoError(t, err)
	return r
}

func TestEmbeddedRegistryGreenLuas(t *testing.T) {
	stations, err := embeddedRegistry(t).Stations(GreenLuas)
	require.NoError(t, err)

	require.Len(t, stations, 34)
	assert.Equal(t, "Brides Glen", stations[0].Name)
	assert.Equal(t, "Broombridge", stations[len(stations)-1].Name)
	for _, s := range stations {
		assert.Equal(t, GreenLuas, s.Line)
	}
}

func TestRegistryUnknownLineHasNoStations(t *testing.T) {
	_, err := embeddedRegistry(t).Stations(Dart)
	assert.Error(t, err)
}

func TestParseLine(t *testing.T) {
	l, err := ParseLine(" green_luas ")
	require.NoError(t, err)
	assert.Equal(t, GreenLuas, l)

	_, err = ParseLine("TRAM_42")
	assert.Error(t, err)
}

func writeStations(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadRegistryAddsLineFromFile(t *testing.T) {
	path := writeStations(t, `
lines:
  RED_LUAS:
    - {name: Tallaght, lat: 53.2874, lon: -6.3747}
    - {name: Hospital, lat: 53.2896, lon: -6.3787}
`)

	r, err := LoadRegistry(path)
	require.NoError(t, err)

	red, err := r.Stations(RedLuas)
	require.NoError(t, err)
	assert.Equal(t, "Tallaght", red[0].Name)
	assert.Equal(t, RedLuas, red[0].Line)

	green, err := r.Stations(GreenLuas)
	require.NoError(t, err)
	assert.Len(t, green, 34)
	assert.Equal(t, []Line{GreenLuas, RedLuas}, r.Lines())
}

func TestLoadRegistryRejectsBadFiles(t *testing.T) {
	tests := map[string]string{
		"empty line":   "lines:\n  RED_LUAS: []\n",
		"unknown line": "lines:\n  MONORAIL:\n    - {name: A, lat: 1, lon: 1}\n",
		"no name":      "lines:\n  DART:\n    - {lat: 53.3, lon: -6.2}\n",
		"bad latitude": "lines:\n  DART:\n    - {name: A, lat: 153.3, lon: -6.2}\n",
		"not yaml":     "lines: [",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRegistry(writeStations(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
