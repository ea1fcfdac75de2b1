package reciperepo

import "errors"

var ErrNotFound = errors.New("recipe not found")

// ListFilter restricts a listing to recipes whose tag or ingredient
// set intersects the given ids. Empty slices mean no restriction.
type ListFilter struct {
	TagIDs        []int64
	IngredientIDs []int64
}

// RecipeUpdate carries a partial update. Nil fields are left
// untouched; a non-nil Tags or Ingredients pointer (even to an empty
// list) replaces the whole relation.
type RecipeUpdate struct {
	Title       *string
	Description *string
	TimeMinutes *int
	Price       *string
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}
