package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
)

// RecipeRepository defines the database operations on recipes and their
// ingredient lists. Ingredient rows returned by the getters carry the
// component's current cost_price so costing can be derived without a second
// round trip.
type RecipeRepository interface {
	CreateRecipe(executor SQLExecutor, recipe *models.Recipe) (int64, error)
	GetRecipeByID(id int64) (*models.Recipe, error)
	GetRecipes(page, pageSize int) ([]models.Recipe, int, error)
	UpdateRecipe(executor SQLExecutor, recipe *models.Recipe) error
	DeleteRecipe(executor SQLExecutor, id int64) error
}

type recipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new instance of RecipeRepository.
func NewRecipeRepository(db *sql.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(executor SQLExecutor, recipe *models.Recipe) (int64, error) {
	query := `INSERT INTO recipes (name, description, output_component_id, output_quantity, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		recipe.Name, recipe.Description, recipe.OutputComponentID, recipe.OutputQuantity,
		currentTime, currentTime,
	).Scan(&recipe.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating recipe: %v", ErrDatabaseError, err)
	}

	for i := range recipe.Ingredients {
		ing := &recipe.Ingredients[i]
		ing.RecipeID = recipe.ID
		if err := r.insertIngredient(executor, ing); err != nil {
			return 0, err
		}
	}
	return recipe.ID, nil
}

func (r *recipeRepository) insertIngredient(executor SQLExecutor, ing *models.RecipeIngredient) error {
	query := `INSERT INTO recipe_ingredients (recipe_id, component_id, quantity)
	          VALUES ($1, $2, $3)
	          RETURNING id`
	if err := executor.QueryRow(query, ing.RecipeID, ing.ComponentID, ing.Quantity).Scan(&ing.ID); err != nil {
		return fmt.Errorf("%w: creating recipe ingredient (component ID %d): %v", ErrDatabaseError, ing.ComponentID, err)
	}
	return nil
}

func (r *recipeRepository) GetRecipeByID(id int64) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	var outputCode, outputName string
	query := `SELECT r.id, r.name, r.description, r.output_component_id, r.output_quantity,
	                 r.created_at, r.updated_at, c.code, c.name
	          FROM recipes r
	          JOIN components c ON r.output_component_id = c.id
	          WHERE r.id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&recipe.ID, &recipe.Name, &recipe.Description,
		&recipe.OutputComponentID, &recipe.OutputQuantity,
		&recipe.CreatedAt, &recipe.UpdatedAt,
		&outputCode, &outputName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting recipe by ID %d: %v", ErrDatabaseError, id, err)
	}
	recipe.OutputComponent = &models.Component{ID: recipe.OutputComponentID, Code: outputCode, Name: outputName}

	ingredients, err := r.getIngredients(id)
	if err != nil {
		return nil, err
	}
	recipe.Ingredients = ingredients
	return recipe, nil
}

// getIngredients loads a recipe's ingredient list with each component's
// current cost_price joined in.
func (r *recipeRepository) getIngredients(recipeID int64) ([]models.RecipeIngredient, error) {
	ingredients := []models.RecipeIngredient{}
	query := `SELECT ri.id, ri.recipe_id, ri.component_id, ri.quantity,
	                 c.code, c.name, c.cost_price
	          FROM recipe_ingredients ri
	          JOIN components c ON ri.component_id = c.id
	          WHERE ri.recipe_id = $1
	          ORDER BY ri.id`
	rows, err := r.db.Query(query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting ingredients for recipe ID %d: %v", ErrDatabaseError, recipeID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ing models.RecipeIngredient
		component := &models.Component{}
		if err := rows.Scan(
			&ing.ID, &ing.RecipeID, &ing.ComponentID, &ing.Quantity,
			&component.Code, &component.Name, &component.CostPrice,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning recipe ingredient: %v", ErrDatabaseError, err)
		}
		component.ID = ing.ComponentID
		ing.Component = component
		ingredients = append(ingredients, ing)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating recipe ingredients: %v", ErrDatabaseError, err)
	}
	return ingredients, nil
}

func (r *recipeRepository) GetRecipes(page, pageSize int) ([]models.Recipe, int, error) {
	recipes := []models.Recipe{}
	totalCount := 0
	query := `SELECT r.id, r.name, r.description, r.output_component_id, r.output_quantity,
	                 r.created_at, r.updated_at, c.code, c.name,
	                 COUNT(*) OVER() AS total_count
	          FROM recipes r
	          JOIN components c ON r.output_component_id = c.id
	          ORDER BY r.name
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting recipes: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipe models.Recipe
		var outputCode, outputName string
		if err := rows.Scan(
			&recipe.ID, &recipe.Name, &recipe.Description,
			&recipe.OutputComponentID, &recipe.OutputQuantity,
			&recipe.CreatedAt, &recipe.UpdatedAt,
			&outputCode, &outputName,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning recipe: %v", ErrDatabaseError, err)
		}
		recipe.OutputComponent = &models.Component{ID: recipe.OutputComponentID, Code: outputCode, Name: outputName}
		recipes = append(recipes, recipe)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating recipes: %v", ErrDatabaseError, err)
	}

	// Ingredient lists are needed for list-form costing; one query per recipe.
	for i := range recipes {
		ingredients, err := r.getIngredients(recipes[i].ID)
		if err != nil {
			return nil, 0, err
		}
		recipes[i].Ingredients = ingredients
	}
	return recipes, totalCount, nil
}

// UpdateRecipe rewrites the recipe header and replaces its ingredient list.
func (r *recipeRepository) UpdateRecipe(executor SQLExecutor, recipe *models.Recipe) error {
	query := `UPDATE recipes
	          SET name = $1, description = $2, output_component_id = $3, output_quantity = $4, updated_at = $5
	          WHERE id = $6`
	result, err := executor.Exec(query,
		recipe.Name, recipe.Description, recipe.OutputComponentID, recipe.OutputQuantity,
		time.Now(), recipe.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating recipe ID %d: %v", ErrDatabaseError, recipe.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if _, err := executor.Exec(`DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipe.ID); err != nil {
		return fmt.Errorf("%w: clearing ingredients for recipe ID %d: %v", ErrDatabaseError, recipe.ID, err)
	}
	for i := range recipe.Ingredients {
		ing := &recipe.Ingredients[i]
		ing.RecipeID = recipe.ID
		if err := r.insertIngredient(executor, ing); err != nil {
			return err
		}
	}
	return nil
}

func (r *recipeRepository) DeleteRecipe(executor SQLExecutor, id int64) error {
	if _, err := executor.Exec(`DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
		return fmt.Errorf("%w: deleting ingredients for recipe ID %d: %v", ErrDatabaseError, id, err)
	}
	result, err := executor.Exec(`DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting recipe ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
