package parser

import (
	"regexp"
	"strings"

	"github.com/chronosphere777/chronosphere/internal/domain"
)

// CatalogConfig names the row shape of a shop catalog sheet so a format
// change is a config change. Columns A..G (0..6) are hierarchy levels,
// the rest are the fixed leaf columns.
type CatalogConfig struct {
	Levels      int
	NameCol     int
	PriceCol    int
	DescCol     int
	PhotoCol    int
	DefaultName string
}

func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Levels:      7,
		NameCol:     7,
		PriceCol:    8,
		DescCol:     9,
		PhotoCol:    10,
		DefaultName: "Размер/цвет",
	}
}

// headerKeywords mark row 0 as a header row when any of them appears in
// its leaf-name cell. Header presence is optional, so this is a content
// heuristic rather than a fixed row-index rule.
var headerKeywords = []string{"размер", "цвет", "size", "color", "price", "цена"}

var drivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`id=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`),
}

// ConvertDriveLink rewrites a Google Drive share link to a direct image
// link via the thumbnail API. Non-Drive URLs pass through unchanged.
func ConvertDriveLink(url string) string {
	if url == "" || !strings.Contains(url, "drive.google.com") {
		return url
	}
	for _, pattern := range drivePatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return "https://drive.google.com/thumbnail?id=" + m[1] + "&sz=w2000-h2000"
		}
	}
	return url
}

func cell(row []string, col int) string {
	if col < len(row) {
		return strings.TrimSpace(row[col])
	}
	return ""
}

// ParseCatalog converts ordered catalog rows into leaf product records.
//
// Hierarchy columns carry forward: a blank level cell inherits the value
// from the rows above, while a non-blank cell overwrites its level and
// resets every deeper level (a new subtree invalidates inherited leaves).
// Rows that only name a category update the path and emit nothing; rows
// with no path and no leaf data are dropped.
func ParseCatalog(rows [][]string, cfg CatalogConfig) []domain.Product {
	path := make([]string, cfg.Levels)

	// Row 0's leaf-name cell is the human label for the leaf attribute
	// ("Размер/цвет" by default). Metadata only, never used for grouping.
	nameLabel := cfg.DefaultName
	if len(rows) > 0 {
		if v := cell(rows[0], cfg.NameCol); v != "" {
			nameLabel = v
		}
	}

	var products []domain.Product

	for i, row := range rows {
		if i == 0 && isHeaderRow(row, cfg.NameCol) {
			continue
		}
		if len(row) < 1 {
			continue
		}

		for level := 0; level < cfg.Levels; level++ {
			if v := cell(row, level); v != "" {
				path[level] = v
				for deeper := level + 1; deeper < cfg.Levels; deeper++ {
					path[deeper] = ""
				}
			}
		}

		var segments []string
		for _, p := range path {
			if p != "" {
				segments = append(segments, p)
			}
		}
		if len(segments) == 0 {
			continue
		}

		name := cell(row, cfg.NameCol)
		price := cell(row, cfg.PriceCol)
		description := cell(row, cfg.DescCol)
		photoURL := ConvertDriveLink(cell(row, cfg.PhotoCol))

		// Category-only rows advance the path but carry no product.
		if name == "" && price == "" && photoURL == "" {
			continue
		}

		products = append(products, domain.Product{
			CategoryPath: strings.Join(segments, " > "),
			Name:         name,
			NameLabel:    nameLabel,
			Price:        price,
			Description:  description,
			PhotoURL:     photoURL,
			// +2: sheet rows are 1-indexed and row 0 is the header.
			RowIndex: i + 2,
		})
	}

	return products
}

func isHeaderRow(row []string, nameCol int) bool {
	v := strings.ToLower(cell(row, nameCol))
	if v == "" {
		return false
	}
	for _, keyword := range headerKeywords {
		if strings.Contains(v, keyword) {
			return true
		}
	}
	return false
}
