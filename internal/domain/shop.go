package domain

import "time"

type Shop struct {
	ShopID         string    `bson:"shop_id" json:"shop_id"`
	Name           string    `bson:"shop_name" json:"name"`
	City           string    `bson:"city" json:"city"`
	Category       string    `bson:"category" json:"category"`
	Latitude       float64   `bson:"latitude" json:"latitude"`
	Longitude      float64   `bson:"longitude" json:"longitude"`
	SpreadsheetURL string    `bson:"spreadsheet_url" json:"spreadsheet_url"`
	PhotoURL       string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// CityBounds is the per-city aggregate used by the roads cache warmup:
// a bounding box around every shop in the city plus its shop count.
type CityBounds struct {
	City      string  `bson:"_id" json:"city"`
	MinLat    float64 `bson:"min_lat" json:"min_lat"`
	MaxLat    float64 `bson:"max_lat" json:"max_lat"`
	MinLng    float64 `bson:"min_lng" json:"min_lng"`
	MaxLng    float64 `bson:"max_lng" json:"max_lng"`
	ShopCount int     `bson:"shop_count" json:"shop_count"`
}
