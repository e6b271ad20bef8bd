package domain

import "time"

// Product is one leaf row of a shop catalog. Products are never updated in
// place: a shop's whole product set is replaced when its catalog refreshes.
type Product struct {
	ShopID       string    `bson:"shop_id" json:"shop_id,omitempty"`
	Name         string    `bson:"product_name" json:"product_name"`
	CategoryPath string    `bson:"category_path" json:"category_path"`
	Price        string    `bson:"price,omitempty" json:"price,omitempty"`
	PriceNumeric *float64  `bson:"price_numeric,omitempty" json:"price_numeric,omitempty"`
	PhotoURL     string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	NameLabel    string    `bson:"name_label,omitempty" json:"name_label,omitempty"`
	RowIndex     int       `bson:"row_index,omitempty" json:"row_index,omitempty"`
	UpdatedAt    time.Time `bson:"updated_at" json:"-"`
}

// SearchResult is a product enriched with its shop for search responses.
type SearchResult struct {
	Product
	ShopName     string `json:"shop_name"`
	ShopCategory string `json:"shop_category"`
	City         string `json:"city"`
}
