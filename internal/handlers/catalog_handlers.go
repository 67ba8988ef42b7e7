package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Industrias-CTS/inventario-sub001/internal/database"
	"github.com/Industrias-CTS/inventario-sub001/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// CreateCategory handles creation of a new component category
func CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	query := `INSERT INTO categories (name, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	err := db.QueryRow(query, category.Name, category.Description, currentTime, currentTime).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// GetCategories handles fetching all component categories
func GetCategories(c *gin.Context) {
	db := database.GetDB()
	rows, err := db.Query(`SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories: " + err.Error()})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan category: " + err.Error()})
			return
		}
		categories = append(categories, category)
	}
	c.JSON(http.StatusOK, categories)
}

// UpdateCategory handles updating an existing category
func UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	query := `UPDATE categories SET name = $1, description = $2, updated_at = $3 WHERE id = $4
	          RETURNING id, created_at, updated_at`
	err = db.QueryRow(query, category.Name, category.Description, time.Now(), id).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles deleting a category
func DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	db := database.GetDB()
	result, err := db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			c.JSON(http.StatusConflict, gin.H{"error": "Category is still referenced by components"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category: " + err.Error()})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// CreateUnit handles creation of a new measurement unit
func CreateUnit(c *gin.Context) {
	var unit models.Unit
	if err := c.ShouldBindJSON(&unit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	query := `INSERT INTO units (name, abbreviation) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	if err := db.QueryRow(query, unit.Name, unit.Abbreviation).Scan(&unit.ID, &unit.CreatedAt, &unit.UpdatedAt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create unit: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, unit)
}

// GetUnits handles fetching all measurement units
func GetUnits(c *gin.Context) {
	db := database.GetDB()
	rows, err := db.Query(`SELECT id, name, abbreviation, created_at, updated_at FROM units ORDER BY name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch units: " + err.Error()})
		return
	}
	defer rows.Close()

	units := []models.Unit{}
	for rows.Next() {
		var unit models.Unit
		if err := rows.Scan(&unit.ID, &unit.Name, &unit.Abbreviation, &unit.CreatedAt, &unit.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan unit: " + err.Error()})
			return
		}
		units = append(units, unit)
	}
	c.JSON(http.StatusOK, units)
}

// UpdateUnit handles updating a measurement unit
func UpdateUnit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit ID"})
		return
	}

	var unit models.Unit
	if err := c.ShouldBindJSON(&unit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	query := `UPDATE units SET name = $1, abbreviation = $2, updated_at = $3 WHERE id = $4
	          RETURNING id, created_at, updated_at`
	err = db.QueryRow(query, unit.Name, unit.Abbreviation, time.Now(), id).
		Scan(&unit.ID, &unit.CreatedAt, &unit.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update unit: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, unit)
}

// DeleteUnit handles deleting a measurement unit
func DeleteUnit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit ID"})
		return
	}

	db := database.GetDB()
	result, err := db.Exec(`DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			c.JSON(http.StatusConflict, gin.H{"error": "Unit is still referenced by components"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete unit: " + err.Error()})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unit deleted successfully"})
}

// GetMovementTypes handles fetching the movement-type catalog
func GetMovementTypes(c *gin.Context) {
	db := database.GetDB()
	rows, err := db.Query(`SELECT id, code, name, operation, description FROM movement_types ORDER BY code`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movement types: " + err.Error()})
		return
	}
	defer rows.Close()

	types := []models.MovementType{}
	for rows.Next() {
		var mt models.MovementType
		if err := rows.Scan(&mt.ID, &mt.Code, &mt.Name, &mt.Operation, &mt.Description); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan movement type: " + err.Error()})
			return
		}
		types = append(types, mt)
	}
	c.JSON(http.StatusOK, types)
}
