package services

import (
	"testing"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
)

func ingredient(quantity, costPrice string) models.RecipeIngredient {
	return models.RecipeIngredient{
		Quantity:  d(quantity),
		Component: &models.Component{CostPrice: d(costPrice)},
	}
}

func TestComputeRecipeCost(t *testing.T) {
	tests := []struct {
		name           string
		ingredients    []models.RecipeIngredient
		outputQuantity string
		wantTotal      string
		wantUnit       string
	}{
		{
			name: "sums quantity times cost price",
			ingredients: []models.RecipeIngredient{
				ingredient("2", "1.5"),
				ingredient("3", "0.5"),
			},
			outputQuantity: "1",
			wantTotal:      "4.5",
			wantUnit:       "4.5",
		},
		{
			name: "unit cost divides by output quantity",
			ingredients: []models.RecipeIngredient{
				ingredient("10", "1"),
			},
			outputQuantity: "4",
			wantTotal:      "10",
			wantUnit:       "2.5",
		},
		{
			name: "missing component contributes zero",
			ingredients: []models.RecipeIngredient{
				ingredient("2", "3"),
				{Quantity: d("5")},
			},
			outputQuantity: "1",
			wantTotal:      "6",
			wantUnit:       "6",
		},
		{
			name:           "no ingredients costs nothing",
			ingredients:    nil,
			outputQuantity: "1",
			wantTotal:      "0",
			wantUnit:       "0",
		},
		{
			name: "zero-cost components cost nothing",
			ingredients: []models.RecipeIngredient{
				ingredient("100", "0"),
			},
			outputQuantity: "10",
			wantTotal:      "0",
			wantUnit:       "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeRecipeCost(7, tt.ingredients, d(tt.outputQuantity))
			if got.RecipeID != 7 {
				t.Errorf("recipe ID = %d, want 7", got.RecipeID)
			}
			if !got.TotalCost.Equal(d(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", got.TotalCost, tt.wantTotal)
			}
			if !got.UnitCost.Equal(d(tt.wantUnit)) {
				t.Errorf("unit = %s, want %s", got.UnitCost, tt.wantUnit)
			}
		})
	}
}

// Costing is derived, so computing it twice over the same inputs must give
// identical figures.
func TestComputeRecipeCostIdempotent(t *testing.T) {
	ingredients := []models.RecipeIngredient{
		ingredient("2.5", "1.2"),
		ingredient("1", "0.05"),
	}
	first := computeRecipeCost(1, ingredients, d("3"))
	second := computeRecipeCost(1, ingredients, d("3"))
	if !first.TotalCost.Equal(second.TotalCost) || !first.UnitCost.Equal(second.UnitCost) {
		t.Errorf("cost changed between computations: %+v vs %+v", first, second)
	}
}
