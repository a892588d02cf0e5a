package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"daft-scraper/models"
)

// JSONWriter collects properties in memory and writes them as a single
// JSON array when closed. It is safe for concurrent use.
type JSONWriter struct {
	mu         sync.Mutex
	path       string
	properties []*models.Property
}

// NewJSONWriter creates a JSONWriter targeting path. Nothing is written
// until Close.
func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{path: path, properties: []*models.Property{}}
}

// Write buffers properties.
func (j *JSONWriter) Write(properties []*models.Property) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.properties = append(j.properties, properties...)
	return nil
}

// Len returns the number of buffered properties.
func (j *JSONWriter) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.properties)
}

// Close writes every buffered property to the file, replacing it.
func (j *JSONWriter) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := json.Marshal(j.properties)
	if err != nil {
		return fmt.Errorf("json: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}
	if err := os.WriteFile(j.path, data, 0644); err != nil {
		return fmt.Errorf("json: write file %q: %w", j.path, err)
	}
	return nil
}
