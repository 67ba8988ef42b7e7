package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
	"github.com/Industrias-CTS/inventario-sub001/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrInvalidOutputQuantity    = errors.New("output quantity must be positive")
	ErrRecipeWithoutIngredients = errors.New("recipe must have at least one ingredient")
)

// RecipeIngredientRequest is one ingredient line of a recipe.
type RecipeIngredientRequest struct {
	ComponentID int64           `json:"component_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateRecipeRequest is the input for creating or replacing a recipe.
type CreateRecipeRequest struct {
	Name              string                    `json:"name" binding:"required"`
	Description       string                    `json:"description"`
	OutputComponentID int64                     `json:"output_component_id" binding:"required"`
	OutputQuantity    decimal.Decimal           `json:"output_quantity" binding:"required"`
	Ingredients       []RecipeIngredientRequest `json:"ingredients" binding:"required,dive"`
}

// RecipeWithCost pairs a recipe with its cost figures, derived from the
// ingredients' current cost prices at read time. Costing is never stored.
type RecipeWithCost struct {
	models.Recipe
	Cost models.RecipeCost `json:"cost"`
}

// RecipeService manages build recipes and derives their cost.
type RecipeService interface {
	CreateRecipe(req CreateRecipeRequest) (*RecipeWithCost, error)
	GetRecipeByID(id int64) (*RecipeWithCost, error)
	GetRecipes(page, pageSize int) ([]RecipeWithCost, int, error)
	UpdateRecipe(id int64, req CreateRecipeRequest) (*RecipeWithCost, error)
	DeleteRecipe(id int64) error
	GetRecipeCost(id int64) (*models.RecipeCost, error)
}

type recipeService struct {
	recipeRepo    repositories.RecipeRepository
	componentRepo repositories.ComponentRepository
	db            *sql.DB
}

// NewRecipeService creates a new instance of RecipeService.
func NewRecipeService(rr repositories.RecipeRepository, cr repositories.ComponentRepository, db *sql.DB) RecipeService {
	return &recipeService{recipeRepo: rr, componentRepo: cr, db: db}
}

func (s *recipeService) CreateRecipe(req CreateRecipeRequest) (*RecipeWithCost, error) {
	recipe, err := s.buildRecipe(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.recipeRepo.CreateRecipe(tx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recipe transaction: %w", err)
	}
	return s.GetRecipeByID(recipe.ID)
}

func (s *recipeService) GetRecipeByID(id int64) (*RecipeWithCost, error) {
	recipe, err := s.recipeRepo.GetRecipeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrRecipeNotFound, id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &RecipeWithCost{
		Recipe: *recipe,
		Cost:   computeRecipeCost(recipe.ID, recipe.Ingredients, recipe.OutputQuantity),
	}, nil
}

func (s *recipeService) GetRecipes(page, pageSize int) ([]RecipeWithCost, int, error) {
	recipes, totalCount, err := s.recipeRepo.GetRecipes(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get recipes: %w", err)
	}
	result := make([]RecipeWithCost, 0, len(recipes))
	for _, recipe := range recipes {
		result = append(result, RecipeWithCost{
			Recipe: recipe,
			Cost:   computeRecipeCost(recipe.ID, recipe.Ingredients, recipe.OutputQuantity),
		})
	}
	return result, totalCount, nil
}

func (s *recipeService) UpdateRecipe(id int64, req CreateRecipeRequest) (*RecipeWithCost, error) {
	recipe, err := s.buildRecipe(req)
	if err != nil {
		return nil, err
	}
	recipe.ID = id

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.recipeRepo.UpdateRecipe(tx, recipe); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrRecipeNotFound, id)
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recipe transaction: %w", err)
	}
	return s.GetRecipeByID(id)
}

func (s *recipeService) DeleteRecipe(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.recipeRepo.DeleteRecipe(tx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: ID %d", ErrRecipeNotFound, id)
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe deletion: %w", err)
	}
	return nil
}

func (s *recipeService) GetRecipeCost(id int64) (*models.RecipeCost, error) {
	recipe, err := s.recipeRepo.GetRecipeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrRecipeNotFound, id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	cost := computeRecipeCost(recipe.ID, recipe.Ingredients, recipe.OutputQuantity)
	return &cost, nil
}

// buildRecipe validates the request and verifies every referenced component
// exists before any write happens.
func (s *recipeService) buildRecipe(req CreateRecipeRequest) (*models.Recipe, error) {
	if !req.OutputQuantity.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidOutputQuantity, req.OutputQuantity)
	}
	if len(req.Ingredients) == 0 {
		return nil, ErrRecipeWithoutIngredients
	}

	if _, err := s.componentRepo.GetComponentByID(req.OutputComponentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: output component ID %d", ErrComponentNotFound, req.OutputComponentID)
		}
		return nil, fmt.Errorf("failed to verify output component: %w", err)
	}

	ingredients := make([]models.RecipeIngredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if !ing.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: ingredient component ID %d has quantity %s", ErrInvalidQuantity, ing.ComponentID, ing.Quantity)
		}
		if _, err := s.componentRepo.GetComponentByID(ing.ComponentID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: ingredient component ID %d", ErrComponentNotFound, ing.ComponentID)
			}
			return nil, fmt.Errorf("failed to verify ingredient component: %w", err)
		}
		ingredients = append(ingredients, models.RecipeIngredient{
			ComponentID: ing.ComponentID,
			Quantity:    ing.Quantity,
		})
	}

	var description *string
	if req.Description != "" {
		description = &req.Description
	}
	return &models.Recipe{
		Name:              req.Name,
		Description:       description,
		OutputComponentID: req.OutputComponentID,
		OutputQuantity:    req.OutputQuantity,
		Ingredients:       ingredients,
	}, nil
}

// computeRecipeCost sums ingredient quantity times current cost price.
// Ingredients whose component carries no cost contribute zero. The unit cost
// divides by the output quantity; a non-positive output yields a zero unit
// cost rather than a division error.
func computeRecipeCost(recipeID int64, ingredients []models.RecipeIngredient, outputQuantity decimal.Decimal) models.RecipeCost {
	total := decimal.Zero
	for _, ing := range ingredients {
		if ing.Component == nil {
			continue
		}
		total = total.Add(ing.Quantity.Mul(ing.Component.CostPrice))
	}
	cost := models.RecipeCost{RecipeID: recipeID, TotalCost: total}
	if outputQuantity.IsPositive() {
		cost.UnitCost = total.Div(outputQuantity)
	}
	return cost
}
