package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"daft-scraper/models"
	"daft-scraper/utils"
)

const closestPerLine = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(properties []*models.Property) *models.Report {
	report := &models.Report{
		ClosestToLine:      make(map[string][]*models.Property),
		PropertiesBySector: make(map[string]int),
	}

	if len(properties) == 0 {
		return report
	}

	report.TotalProperties = len(properties)

	var total int
	for _, p := range properties {
		if sector, ok := p.Sector.Get(); ok && sector != "" {
			report.PropertiesBySector[sector]++
		}

		for line, sd := range p.Transit {
			if sd.DistanceM >= 0 {
				report.ClosestToLine[line] = append(report.ClosestToLine[line], p)
			}
		}

		price, ok := p.Price.Get()
		if !ok {
			continue
		}
		if report.PricedProperties == 0 || price < report.MinPrice {
			report.MinPrice = price
		}
		if report.PricedProperties == 0 || price > report.MaxPrice {
			report.MaxPrice = price
			report.MostExpensive = p
		}
		report.PricedProperties++
		total += price
	}

	if report.PricedProperties > 0 {
		report.AveragePrice = round2(float64(total) / float64(report.PricedProperties))
	}

	for line, props := range report.ClosestToLine {
		sort.SliceStable(props, func(i, j int) bool {
			return props[i].Transit[line].DistanceM < props[j].Transit[line].DistanceM
		})
		if len(props) > closestPerLine {
			props = props[:closestPerLine]
		}
		report.ClosestToLine[line] = props
	}

	s.logger.Debug("[insights] %d properties, %d priced, %d sectors",
		report.TotalProperties, report.PricedProperties, len(report.PropertiesBySector))
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.Report) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  DAFT SCRAPE INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Properties scraped : \033[1m%d\033[0m\n", r.TotalProperties)
	fmt.Fprintf(w, "  With asking price  : \033[1m%d\033[0m\n", r.PricedProperties)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.PricedProperties > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m€%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m€%d\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m€%d\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Property\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.MainAddress, 50))
		fmt.Fprintf(w, "  Type  : %s\n", r.MostExpensive.PropertyType)
		fmt.Fprintf(w, "  Price : \033[1;31m€%d\033[0m\n", r.MostExpensive.Price.OrElse(0))
		fmt.Fprintln(w)
	}

	lines := make([]string, 0, len(r.ClosestToLine))
	for line := range r.ClosestToLine {
		lines = append(lines, line)
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintf(w, "\033[1;33m  Closest to %s\033[0m\n", line)
		fmt.Fprintf(w, "  %s\n", thin)
		for i, p := range r.ClosestToLine[line] {
			sd := p.Transit[line]
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-34s %5dm to %s\n",
				i+1, truncate(p.MainAddress, 32), sd.DistanceM, sd.Station)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Properties by Sector\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.PropertiesBySector) == 0 {
		fmt.Fprintf(w, "  No sector data\n")
	} else {
		type sectorCount struct {
			sector string
			count  int
		}
		var sectors []sectorCount
		for sector, cnt := range r.PropertiesBySector {
			sectors = append(sectors, sectorCount{sector, cnt})
		}
		sort.Slice(sectors, func(i, j int) bool {
			if sectors[i].count != sectors[j].count {
				return sectors[i].count > sectors[j].count
			}
			return sectors[i].sector < sectors[j].sector
		})
		for _, sc := range sectors {
			bar := strings.Repeat("█", sc.count)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(sc.sector, 28), bar, sc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
