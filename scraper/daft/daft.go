package daft

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"daft-scraper/models"
	"daft-scraper/scraper"
	"daft-scraper/services"
	"daft-scraper/utils"
)

// Options tunes a Spider.
type Options struct {
	MaxPages    int
	Concurrency int
	RateLimitMs int
}

// Spider walks daft.ie listing pages and assembles every linked property.
type Spider struct {
	source    scraper.Source
	assembler *services.Assembler
	logger    *utils.Logger
	opts      Options

	pool    *utils.WorkerPool
	visited *utils.URLSet

	mu         sync.Mutex
	properties []*models.Property
	failed     int
}

// New creates a ready-to-use Spider.
func New(source scraper.Source, assembler *services.Assembler, opts Options, logger *utils.Logger) *Spider {
	return &Spider{
		source:    source,
		assembler: assembler,
		logger:    logger,
		opts:      opts,
		pool:      utils.NewWorkerPool(opts.Concurrency, opts.RateLimitMs),
		visited:   utils.NewURLSet(),
	}
}

// Crawl follows listing pages from startURL, up to MaxPages (0 means no
// limit), and returns the properties assembled from their detail pages.
// Detail pages that fail to load or extract are logged and skipped. An
// error is returned only when the first listing page cannot be loaded or
// ctx ends the crawl early; properties gathered so far are returned with it.
func (s *Spider) Crawl(ctx context.Context, startURL string) ([]*models.Property, error) {
	s.logger.Info("[daft] Starting crawl at %s", startURL)

	var crawlErr error
	currentURL := startURL
	for page := 1; currentURL != ""; page++ {
		if s.opts.MaxPages > 0 && page > s.opts.MaxPages {
			break
		}

		listing, err := s.source.Open(ctx, currentURL)
		if err != nil {
			if page == 1 || ctx.Err() != nil {
				crawlErr = fmt.Errorf("daft: listing page %d: %w", page, err)
			} else {
				s.logger.Error("[daft] Listing page %d failed: %v", page, err)
			}
			break
		}

		links := listing.Fields(PropertyLinkQuery)
		s.logger.Info("[daft] Page %d: %d property links", page, len(links))

		for _, href := range links {
			link := listing.Resolve(href)
			if !s.visited.Add(link) {
				s.logger.Debug("[daft] Skipping duplicate: %s", link)
				continue
			}
			if !s.pool.Submit(ctx, func() { s.processDetail(ctx, link) }) {
				break
			}
		}

		if ctx.Err() != nil {
			crawlErr = ctx.Err()
			break
		}

		next, ok := listing.Field(NextPageQuery)
		if !ok {
			break
		}
		currentURL = listing.Resolve(next)
	}

	s.pool.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("[daft] Crawl complete: %d properties, %d pages skipped", len(s.properties), s.failed)
	return s.properties, crawlErr
}

func (s *Spider) processDetail(ctx context.Context, link string) {
	p, err := s.parseDetail(ctx, link)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.failed++
		var exErr *services.ExtractionError
		if errors.As(err, &exErr) {
			s.logger.Warn("[daft] Dropping %s: field %s has unparseable value %q: %v",
				link, exErr.Field, exErr.Raw, exErr.Err)
		} else {
			s.logger.Warn("[daft] Detail page failed for %s: %v", link, err)
		}
		return
	}
	s.properties = append(s.properties, p)
}

func (s *Spider) parseDetail(ctx context.Context, link string) (*models.Property, error) {
	page, err := s.source.Open(ctx, link)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(page)
}
