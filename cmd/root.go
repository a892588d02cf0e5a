package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"daft-scraper/scraper/daft"
)

const appName = "daft-scraper"

// WebSource is the kind of listing to crawl.
type WebSource string

const (
	HousesForSale WebSource = "houses_for_sale"
	HousesForRent WebSource = "houses_for_rent"
)

func (s WebSource) String() string { return string(s) }

var errNotImplemented = errors.New("source not implemented")

// ParseWebSource accepts either "houses_for_sale" or "houses-for-sale".
func ParseWebSource(s string) (WebSource, error) {
	ws := WebSource(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch ws {
	case HousesForSale, HousesForRent:
		return ws, nil
	}
	return "", fmt.Errorf("invalid source %q (choose from %s, %s)", s, HousesForSale, HousesForRent)
}

// runOptions holds the parsed command line.
type runOptions struct {
	source  WebSource
	search  daft.Search
	pages   int
	verbose bool
}

// NewRootCmd builds the root command.
func NewRootCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   appName + " <source>",
		Short: "Extract property listings from daft.ie with distances to public transport",
		Long: `Crawls daft.ie listing pages for the chosen source, extracts each property
and adds the distance to the nearest station of every configured transit line.
Sources: houses-for-sale, houses-for-rent.`,
		Args:          cobra.ExactArgs(1),
		ValidArgs:     []string{"houses-for-sale", "houses-for-rent"},
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			src, err := ParseWebSource(args[0])
			if err != nil {
				return err
			}
			opts.source = src
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.search.Areas, "areas-string", daft.DefaultAreas,
		`Areas to search as they appear in daft.ie links, i.e. "dublin-1,dublin-2"`)
	flags.IntVar(&opts.search.MinPrice, "min-price", 0, "Minimum asking price")
	flags.IntVar(&opts.search.MaxPrice, "max-price", 0, "Maximum asking price")
	flags.IntVar(&opts.search.MinBeds, "min-beds", 0, "Minimum number of bedrooms")
	flags.IntVar(&opts.search.MaxBeds, "max-beds", 0, "Maximum number of bedrooms")
	flags.IntVar(&opts.pages, "pages", -1, "Listing pages to crawl, 0 for all (default from PAGES_TO_SCRAPE)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}
