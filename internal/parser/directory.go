package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chronosphere777/chronosphere/internal/domain"
)

// Directory sheet layout: A=city, B=category, C=name, D=catalog sheet URL,
// E=shop id, F=2GIS link, G=description, H=photo.
type DirectoryConfig struct {
	CityCol     int
	CategoryCol int
	NameCol     int
	SheetURLCol int
	ShopIDCol   int
	GisURLCol   int
	DescCol     int
	PhotoCol    int
}

func DefaultDirectoryConfig() DirectoryConfig {
	return DirectoryConfig{
		CityCol:     0,
		CategoryCol: 1,
		NameCol:     2,
		SheetURLCol: 3,
		ShopIDCol:   4,
		GisURLCol:   5,
		DescCol:     6,
		PhotoCol:    7,
	}
}

// cityTranslation maps 2GIS latin city slugs to display names.
var cityTranslation = map[string]string{
	"tyumen":       "Тюмень",
	"moscow":       "Москва",
	"spb":          "Санкт-Петербург",
	"novosibirsk":  "Новосибирск",
	"ekaterinburg": "Екатеринбург",
}

var (
	gisCoords   = regexp.MustCompile(`m=([0-9.]+)(?:%2C|,)([0-9.]+)`)
	gisCitySlug = regexp.MustCompile(`2gis\.ru/([^/]+)/`)
	headerCity  = map[string]bool{"город": true, "city": true}
)

// TranslateCity maps a latin city slug to its display name, falling back
// to title case for slugs outside the translation table.
func TranslateCity(value string) string {
	if translated, ok := cityTranslation[strings.ToLower(value)]; ok {
		return translated
	}
	return titleCase(value)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// ParseGisURL extracts coordinates (m=longitude,latitude) and the city
// slug from a 2GIS link. Either extraction may fail independently;
// missing values stay at their zero defaults.
func ParseGisURL(url string) (latitude, longitude float64, city string) {
	if url == "" {
		return 0, 0, ""
	}
	if m := gisCoords.FindStringSubmatch(url); m != nil {
		longitude = parseFloat(m[1])
		latitude = parseFloat(m[2])
	}
	if m := gisCitySlug.FindStringSubmatch(url); m != nil {
		city = TranslateCity(m[1])
	}
	return latitude, longitude, city
}

func parseFloat(s string) float64 {
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// ParseDirectory converts main-sheet rows into shop records.
//
// City and category are carry-forward columns: header rows (no shop id)
// set them for the rows below, and a data row with its own city/category
// cell overrides them inline. Rows with an id but no name, and rows with
// no resolvable city, are skipped as directory noise.
func ParseDirectory(rows [][]string, cfg DirectoryConfig) []domain.Shop {
	var shops []domain.Shop
	currentCity := ""
	currentCategory := ""

	for i, row := range rows {
		cityValue := cell(row, cfg.CityCol)
		if i == 0 || headerCity[strings.ToLower(cityValue)] {
			continue
		}

		categoryValue := cell(row, cfg.CategoryCol)
		name := cell(row, cfg.NameCol)
		shopID := cell(row, cfg.ShopIDCol)

		if cityValue != "" {
			currentCity = TranslateCity(cityValue)
		}
		if categoryValue != "" {
			currentCategory = categoryValue
		}
		if shopID == "" {
			// Header row: carried values updated above, nothing to emit.
			continue
		}
		if name == "" {
			continue
		}

		gisURL := cell(row, cfg.GisURLCol)
		latitude, longitude, gisCity := ParseGisURL(gisURL)

		city := currentCity
		if city == "" {
			city = gisCity
		}
		if city == "" {
			continue
		}

		category := currentCategory
		if category == "" {
			category = "Без категории"
		}

		shops = append(shops, domain.Shop{
			ShopID:         shopID,
			Name:           name,
			City:           city,
			Category:       category,
			Latitude:       latitude,
			Longitude:      longitude,
			SpreadsheetURL: cell(row, cfg.SheetURLCol),
			Description:    cell(row, cfg.DescCol),
			PhotoURL:       cell(row, cfg.PhotoCol),
		})
	}

	return shops
}
