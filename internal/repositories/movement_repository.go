package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
)

// MovementRepository defines the database operations on the movement ledger.
// Movements are append-only; there is no update or delete.
type MovementRepository interface {
	CreateMovement(executor SQLExecutor, movement *models.Movement) (int64, error)
	GetMovements(filters models.MovementFilters) ([]models.Movement, int, error)
	CountMovementsByComponent(componentID int64) (int, error)
}

type movementRepository struct {
	db *sql.DB
}

// NewMovementRepository creates a new instance of MovementRepository.
func NewMovementRepository(db *sql.DB) MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) CreateMovement(executor SQLExecutor, movement *models.Movement) (int64, error) {
	query := `INSERT INTO movements
	          (movement_type_id, component_id, recipe_id, user_id, quantity, unit_cost,
	           reference_number, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		movement.MovementTypeID, movement.ComponentID, movement.RecipeID, movement.UserID,
		movement.Quantity, movement.UnitCost, movement.ReferenceNumber, movement.Notes,
		currentTime,
	).Scan(&movement.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating movement: %v", ErrDatabaseError, err)
	}
	movement.CreatedAt = currentTime
	return movement.ID, nil
}

func (r *movementRepository) GetMovements(filters models.MovementFilters) ([]models.Movement, int, error) {
	movements := []models.Movement{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    m.id, m.movement_type_id, m.component_id, m.recipe_id, m.user_id,
	    m.quantity, m.unit_cost, m.reference_number, m.notes, m.created_at,
	    mt.code AS type_code, mt.name AS type_name, mt.operation,
	    c.code AS component_code, c.name AS component_name,
	    COUNT(*) OVER() AS total_count
	  FROM movements m
	  JOIN movement_types mt ON m.movement_type_id = mt.id
	  JOIN components c ON m.component_id = c.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.ComponentID != nil {
		conditions = append(conditions, fmt.Sprintf("m.component_id = $%d", argCount))
		args = append(args, *filters.ComponentID)
		argCount++
	}
	if filters.MovementTypeID != nil {
		conditions = append(conditions, fmt.Sprintf("m.movement_type_id = $%d", argCount))
		args = append(args, *filters.MovementTypeID)
		argCount++
	}
	if filters.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("m.created_at >= $%d", argCount))
		args = append(args, *filters.StartDate)
		argCount++
	}
	if filters.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("m.created_at <= $%d", argCount))
		args = append(args, *filters.EndDate)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY m.created_at DESC, m.id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting movements: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Movement
		var typeCode, typeName, operation string
		var componentCode, componentName string
		if err := rows.Scan(
			&m.ID, &m.MovementTypeID, &m.ComponentID, &m.RecipeID, &m.UserID,
			&m.Quantity, &m.UnitCost, &m.ReferenceNumber, &m.Notes, &m.CreatedAt,
			&typeCode, &typeName, &operation,
			&componentCode, &componentName,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning movement: %v", ErrDatabaseError, err)
		}
		m.MovementType = &models.MovementType{ID: m.MovementTypeID, Code: typeCode, Name: typeName, Operation: operation}
		m.Component = &models.Component{ID: m.ComponentID, Code: componentCode, Name: componentName}
		movements = append(movements, m)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating movements: %v", ErrDatabaseError, err)
	}
	return movements, totalCount, nil
}

func (r *movementRepository) CountMovementsByComponent(componentID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM movements WHERE component_id = $1`, componentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting movements for component ID %d: %v", ErrDatabaseError, componentID, err)
	}
	return count, nil
}
