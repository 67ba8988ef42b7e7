package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is a bill of materials: it consumes ingredient components in fixed
// quantities and declares one output component with an output quantity.
// Recipes never mutate stock; their cost is derived on every read from the
// ingredients' current cost prices.
type Recipe struct {
	ID                int64           `json:"id" db:"id"`
	Name              string          `json:"name" db:"name" binding:"required"`
	Description       *string         `json:"description,omitempty" db:"description"`
	OutputComponentID int64           `json:"output_component_id" db:"output_component_id"`
	OutputQuantity    decimal.Decimal `json:"output_quantity" db:"output_quantity"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`

	OutputComponent *Component         `json:"output_component,omitempty"`
	Ingredients     []RecipeIngredient `json:"ingredients,omitempty"`
}

// RecipeIngredient is one (component, quantity) pair of a recipe.
type RecipeIngredient struct {
	ID          int64           `json:"id" db:"id"`
	RecipeID    int64           `json:"recipe_id" db:"recipe_id"`
	ComponentID int64           `json:"component_id" db:"component_id"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`

	Component *Component `json:"component,omitempty"`
}

// RecipeCost is the derived cost of a recipe at read time.
type RecipeCost struct {
	RecipeID  int64           `json:"recipe_id"`
	TotalCost decimal.Decimal `json:"total_cost"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}
