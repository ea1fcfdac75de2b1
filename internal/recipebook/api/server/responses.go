package server

import (
	"github.com/dkravets/recipebook/internal/recipebook/domain/models"
	"github.com/dkravets/recipebook/internal/recipebook/services/validate"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type validationErrorResponse struct {
	Errors validate.Errors `json:"errors"`
}

// recipeListItem is the list representation: everything the detail
// has except the description.
type recipeListItem struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	TimeMinutes int                  `json:"time_minutes"` //nolint:tagliatelle
	Price       string               `json:"price"`
	Link        string               `json:"link"`
	Image       string               `json:"image"`
	Tags        []models.CatalogItem `json:"tags"`
	Ingredients []models.CatalogItem `json:"ingredients"`
}

func toListItem(r models.Recipe) recipeListItem {
	return recipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Image:       r.Image,
		Tags:        r.Tags,
		Ingredients: r.Ingredients,
	}
}

func toList(recipes []models.Recipe) []recipeListItem {
	items := make([]recipeListItem, 0, len(recipes))
	for _, r := range recipes {
		items = append(items, toListItem(r))
	}

	return items
}
