package catalogrepo

import "errors"

var (
	ErrNotFound      = errors.New("catalog item not found")
	ErrAlreadyExists = errors.New("catalog item already exists")
)

// Kind selects which catalog table a repository instance works with.
type Kind struct {
	Table     string
	LinkTable string
	LinkCol   string
}

var (
	Tags        = Kind{Table: "tags", LinkTable: "recipe_tags", LinkCol: "tag_id"}
	Ingredients = Kind{Table: "ingredients", LinkTable: "recipe_ingredients", LinkCol: "ingredient_id"}
)
