package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirectoryCarryForward(t *testing.T) {
	rows := [][]string{
		{"Город", "Категория", "Название"},
		{"tyumen", "Обувь"},
		{"", "", "Shop One", "https://docs.google.com/spreadsheets/d/abc123/edit#gid=0", "shop-1", "https://2gis.ru/tyumen/geo/123?m=65.5272%2C57.1522"},
		{"", "Одежда", "Shop Two", "", "shop-2", ""},
	}

	shops := ParseDirectory(rows, DefaultDirectoryConfig())

	require.Len(t, shops, 2)

	assert.Equal(t, "shop-1", shops[0].ShopID)
	assert.Equal(t, "Shop One", shops[0].Name)
	assert.Equal(t, "Тюмень", shops[0].City)
	assert.Equal(t, "Обувь", shops[0].Category)
	// 2GIS links carry m=longitude,latitude.
	assert.InDelta(t, 57.1522, shops[0].Latitude, 1e-9)
	assert.InDelta(t, 65.5272, shops[0].Longitude, 1e-9)

	assert.Equal(t, "Тюмень", shops[1].City)
	assert.Equal(t, "Одежда", shops[1].Category)
}

func TestParseDirectoryCityFromGisLink(t *testing.T) {
	rows := [][]string{
		{},
		{"", "", "Shop", "", "shop-9", "https://2gis.ru/ekaterinburg/firm/5?m=60.6,56.8"},
	}

	shops := ParseDirectory(rows, DefaultDirectoryConfig())

	require.Len(t, shops, 1)
	assert.Equal(t, "Екатеринбург", shops[0].City)
}

func TestParseDirectorySkipsNoise(t *testing.T) {
	rows := [][]string{
		{},
		{"город", "категория", "название"},
		{"tyumen", "Обувь"},
		{"", "", "", "", "shop-no-name"},
		{"", "", "No City Shop", "", ""},
		{"", "", "Good Shop", "", "shop-ok"},
	}

	shops := ParseDirectory(rows, DefaultDirectoryConfig())

	require.Len(t, shops, 1)
	assert.Equal(t, "shop-ok", shops[0].ShopID)
	assert.Equal(t, "Обувь", shops[0].Category)
}

func TestParseDirectoryDefaultCategory(t *testing.T) {
	rows := [][]string{
		{},
		{"moscow", "", "Shop", "", "shop-m"},
	}

	shops := ParseDirectory(rows, DefaultDirectoryConfig())

	require.Len(t, shops, 1)
	assert.Equal(t, "Москва", shops[0].City)
	assert.Equal(t, "Без категории", shops[0].Category)
}

func TestTranslateCity(t *testing.T) {
	assert.Equal(t, "Тюмень", TranslateCity("tyumen"))
	assert.Equal(t, "Санкт-Петербург", TranslateCity("SPB"))
	assert.Equal(t, "Kazan", TranslateCity("kazan"))
	assert.Equal(t, "Nizhny Novgorod", TranslateCity("nizhny novgorod"))
}

func TestParseGisURL(t *testing.T) {
	lat, lng, city := ParseGisURL("https://2gis.ru/tyumen/geo/123?m=65.5272%2C57.1522")
	assert.InDelta(t, 57.1522, lat, 1e-9)
	assert.InDelta(t, 65.5272, lng, 1e-9)
	assert.Equal(t, "Тюмень", city)

	lat, lng, city = ParseGisURL("")
	assert.Zero(t, lat)
	assert.Zero(t, lng)
	assert.Empty(t, city)
}
