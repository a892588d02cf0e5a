package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"daft-scraper/config"
	"daft-scraper/scraper"
	"daft-scraper/scraper/daft"
	"daft-scraper/services"
	"daft-scraper/storage"
	"daft-scraper/transit"
	"daft-scraper/utils"
)

// newFetcher opens the page fetcher used for a run.
var newFetcher = func(cfg *config.Config, logger *utils.Logger) (scraper.Fetcher, io.Closer) {
	f := scraper.NewBrowserFetcher(scraper.BrowserOptions{
		ChromeBin:   cfg.ChromeBin,
		UserAgent:   cfg.UserAgent,
		PageTimeout: 60 * time.Second,
		MaxRetries:  cfg.MaxRetries,
	}, logger)
	return f, f
}

var newLogger = utils.NewLogger

func run(ctx context.Context, opts *runOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger()
	logger.SetDebug(opts.verbose)

	if opts.source != HousesForSale {
		return fmt.Errorf("%s: %w", opts.source, errNotImplemented)
	}

	cfg := config.Load()
	if opts.pages >= 0 {
		cfg.PagesToScrape = opts.pages
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Info("=== daft.ie scraping starting ===")
	logger.Info("Config: pages: %d | concurrency: %d | rate: %dms | lines: %v",
		cfg.PagesToScrape, cfg.MaxConcurrency, cfg.RateLimitMs, cfg.TransitLines)

	registry, err := transit.LoadRegistry(cfg.StationsFile)
	if err != nil {
		return err
	}
	lines, err := parseLines(cfg.TransitLines)
	if err != nil {
		return err
	}

	assembler, err := services.NewAssembler(daft.DetailSelectors, registry, lines, logger)
	if err != nil {
		return err
	}

	writers, reader, err := openWriters(cfg, lines, logger)
	if err != nil {
		return err
	}
	defer func() {
		for _, w := range writers {
			if err := w.Close(); err != nil {
				logger.Error("[storage] Close failed: %v", err)
			}
		}
	}()

	fetcher, closer := newFetcher(cfg, logger)
	defer closer.Close()
	source, err := scraper.NewHTMLSource(fetcher)
	if err != nil {
		return err
	}

	spider := daft.New(source, assembler, daft.Options{
		MaxPages:    cfg.PagesToScrape,
		Concurrency: cfg.MaxConcurrency,
		RateLimitMs: cfg.RateLimitMs,
	}, logger)

	properties, crawlErr := spider.Crawl(ctx, opts.search.StartURL())
	if crawlErr != nil {
		logger.Error("Crawl stopped: %v", crawlErr)
	}

	for _, w := range writers {
		if err := w.Write(properties); err != nil {
			logger.Error("[storage] Write failed: %v", err)
		}
	}
	logger.Info("Extracted %d properties", len(properties))

	reportInput := properties
	if reader != nil {
		if stored, err := reader.FetchAll(); err != nil {
			logger.Error("Failed to fetch properties from DB for insights: %v", err)
		} else {
			reportInput = stored
		}
	}

	insights := services.NewInsightService(logger)
	insights.Print(out, insights.Generate(reportInput))

	return crawlErr
}

// parseLines normalizes configured line names, dropping repeats.
func parseLines(names []string) ([]transit.Line, error) {
	lines := make([]transit.Line, 0, len(names))
	seen := make(map[transit.Line]bool, len(names))
	for _, name := range names {
		line, err := transit.ParseLine(name)
		if err != nil {
			return nil, err
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		lines = append(lines, line)
	}
	return lines, nil
}

func openWriters(cfg *config.Config, lines []transit.Line, logger *utils.Logger) ([]storage.PropertyWriter, storage.PropertyReader, error) {
	writers := []storage.PropertyWriter{storage.NewJSONWriter(cfg.JSONOutputPath)}
	logger.Info("[storage] JSON output: %s", cfg.JSONOutputPath)

	if cfg.CSVOutputPath != "" {
		columns := make([]string, len(lines))
		for i, l := range lines {
			columns[i] = string(l)
		}
		csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath, columns)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, csvWriter)
		logger.Info("[storage] CSV output: %s", cfg.CSVOutputPath)
	}

	var reader storage.PropertyReader
	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			closeAll(writers)
			return nil, nil, err
		}
		writers = append(writers, pgWriter)
		reader = pgWriter
		logger.Info("[storage] PostgreSQL output enabled (table: properties)")
	}

	return writers, reader, nil
}

func closeAll(writers []storage.PropertyWriter) {
	for _, w := range writers {
		_ = w.Close()
	}
}
