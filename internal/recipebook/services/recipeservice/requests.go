package recipeservice

import "encoding/json"

type ItemInput struct {
	Name string `json:"name"`
}

// Price accepts both JSON strings and bare numbers and keeps the
// textual form for fixed-point validation.
type Price string

func (p *Price) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = Price(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err //nolint:wrapcheck
	}

	*p = Price(n.String())

	return nil
}

type CreateRecipeRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	TimeMinutes int         `json:"time_minutes"` //nolint:tagliatelle
	Price       Price       `json:"price"`
	Link        string      `json:"link"`
	Tags        []ItemInput `json:"tags"`
	Ingredients []ItemInput `json:"ingredients"`
}

// UpdateRecipeRequest distinguishes absent fields (nil) from provided
// ones. A non-nil Tags or Ingredients pointer, even to an empty list,
// replaces the whole relation.
type UpdateRecipeRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	TimeMinutes *int         `json:"time_minutes"` //nolint:tagliatelle
	Price       *Price       `json:"price"`
	Link        *string      `json:"link"`
	Tags        *[]ItemInput `json:"tags"`
	Ingredients *[]ItemInput `json:"ingredients"`
}

type ListRecipesRequest struct {
	TagIDs        []int64
	IngredientIDs []int64
}
