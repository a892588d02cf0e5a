package storage

import "daft-scraper/models"

// PropertyWriter is the interface any storage backend must satisfy.
type PropertyWriter interface {
	Write(properties []*models.Property) error
	Close() error
}

// PropertyReader reads back persisted properties.
type PropertyReader interface {
	FetchAll() ([]*models.Property, error)
}
