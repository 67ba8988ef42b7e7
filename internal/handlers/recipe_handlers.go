package handlers

import (
	"errors"
	"net/http"

	"github.com/Industrias-CTS/inventario-sub001/internal/services"
	"github.com/Industrias-CTS/inventario-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RecipeHandler exposes build recipes and their derived costing.
type RecipeHandler struct {
	recipeService services.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(rs services.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: rs}
}

func (h *RecipeHandler) respondRecipeError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from recipeService")
	if errors.Is(err, services.ErrInvalidOutputQuantity) || errors.Is(err, services.ErrInvalidQuantity) || errors.Is(err, services.ErrRecipeWithoutIngredients) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid recipe.", err.Error()))
	} else if errors.Is(err, services.ErrRecipeNotFound) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Recipe not found.", err.Error()))
	} else if errors.Is(err, services.ErrComponentNotFound) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Component not found.", err.Error()))
	} else {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Recipe operation failed.", "Internal error"))
	}
}

// CreateRecipe creates a recipe with its ingredient list.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req services.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	recipe, err := h.recipeService.CreateRecipe(req)
	if err != nil {
		h.respondRecipeError(c, err, "CreateRecipe")
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// GetRecipes lists recipes with their cost figures.
func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	recipes, totalCount, err := h.recipeService.GetRecipes(page, pageSize)
	if err != nil {
		h.respondRecipeError(c, err, "GetRecipes")
		return
	}
	if recipes == nil {
		recipes = []services.RecipeWithCost{}
	}
	respondPaginated(c, recipes, totalCount, page, pageSize)
}

// GetRecipeByID fetches one recipe with its cost figures.
func (h *RecipeHandler) GetRecipeByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipeByID(id)
	if err != nil {
		h.respondRecipeError(c, err, "GetRecipeByID")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// GetRecipeCost returns just the derived cost of a recipe.
func (h *RecipeHandler) GetRecipeCost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cost, err := h.recipeService.GetRecipeCost(id)
	if err != nil {
		h.respondRecipeError(c, err, "GetRecipeCost")
		return
	}
	c.JSON(http.StatusOK, cost)
}

// UpdateRecipe replaces a recipe header and its ingredient list.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(id, req)
	if err != nil {
		h.respondRecipeError(c, err, "UpdateRecipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe removes a recipe and its ingredients.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(id); err != nil {
		h.respondRecipeError(c, err, "DeleteRecipe")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}
