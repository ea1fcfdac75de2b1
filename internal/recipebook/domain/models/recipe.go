package models

// CatalogItem is a user-owned named entity attached to recipes.
// Tags and ingredients share the same shape and lifecycle, only the
// table they live in differs.
type CatalogItem struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
}

type Recipe struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"-"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	TimeMinutes int           `json:"time_minutes"` //nolint:tagliatelle
	Price       string        `json:"price"`
	Link        string        `json:"link"`
	Image       string        `json:"image"`
	Tags        []CatalogItem `json:"tags"`
	Ingredients []CatalogItem `json:"ingredients"`
}
