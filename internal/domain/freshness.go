package domain

import "time"

type FreshnessStatus string

const (
	FreshnessSuccess FreshnessStatus = "success"
	FreshnessFailed  FreshnessStatus = "failed"
)

// CatalogFreshness records when a shop's cached catalog was last rebuilt.
// A shop with no record has never been refreshed and is the most overdue.
type CatalogFreshness struct {
	ShopID      string          `bson:"shop_id" json:"shop_id"`
	LastUpdated time.Time       `bson:"last_updated" json:"last_updated"`
	Status      FreshnessStatus `bson:"status" json:"status"`
}
