package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ComponentRepository defines the database operations on components.
//
// GetStockForUpdate and UpdateStockLevels are the two halves of a stock
// mutation: the first locks the component row (FOR UPDATE) inside the caller's
// transaction, the second writes the new figures back. They must always run on
// the same transaction executor.
type ComponentRepository interface {
	CreateComponent(executor SQLExecutor, component *models.Component) (int64, error)
	GetComponentByID(id int64) (*models.Component, error)
	GetComponentByCode(code string) (*models.Component, error)
	GetComponents(filters models.ComponentFilters) ([]models.Component, int, error)
	UpdateComponent(executor SQLExecutor, component *models.Component) error
	DeleteComponent(executor SQLExecutor, id int64) error
	DeactivateComponent(executor SQLExecutor, id int64) error

	GetStockForUpdate(executor SQLExecutor, id int64) (*models.ComponentStock, error)
	UpdateStockLevels(executor SQLExecutor, id int64, currentStock, reservedStock, costPrice decimal.Decimal) error

	// UpsertComponentByCode locks and returns the component with the given code,
	// creating it with zero stock when absent. The second return value reports
	// whether a new row was created, so callers can surface auto-provisioned
	// SKUs instead of introducing them silently.
	UpsertComponentByCode(executor SQLExecutor, component *models.Component) (*models.ComponentStock, bool, error)
}

type componentRepository struct {
	db *sql.DB
}

// NewComponentRepository creates a new instance of ComponentRepository.
func NewComponentRepository(db *sql.DB) ComponentRepository {
	return &componentRepository{db: db}
}

const componentColumns = `id, code, name, description, category_id, unit_id,
	current_stock, reserved_stock, cost_price, min_stock, max_stock,
	location, is_active, created_at, updated_at`

func scanComponent(row interface{ Scan(...interface{}) error }, c *models.Component) error {
	return row.Scan(
		&c.ID, &c.Code, &c.Name, &c.Description, &c.CategoryID, &c.UnitID,
		&c.CurrentStock, &c.ReservedStock, &c.CostPrice, &c.MinStock, &c.MaxStock,
		&c.Location, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *componentRepository) CreateComponent(executor SQLExecutor, component *models.Component) (int64, error) {
	query := `INSERT INTO components
	          (code, name, description, category_id, unit_id, current_stock, reserved_stock,
	           cost_price, min_stock, max_stock, location, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		component.Code, component.Name, component.Description, component.CategoryID, component.UnitID,
		component.CurrentStock, component.ReservedStock, component.CostPrice,
		component.MinStock, component.MaxStock, component.Location, component.IsActive,
		currentTime, currentTime,
	).Scan(&component.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: component code '%s' already exists (constraint: %s)", ErrDuplicateKey, component.Code, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating component: %v", ErrDatabaseError, err)
	}
	component.CreatedAt = currentTime
	component.UpdatedAt = currentTime
	return component.ID, nil
}

func (r *componentRepository) GetComponentByID(id int64) (*models.Component, error) {
	component := &models.Component{}
	query := `SELECT ` + componentColumns + ` FROM components WHERE id = $1`
	err := scanComponent(r.db.QueryRow(query, id), component)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting component by ID %d: %v", ErrDatabaseError, id, err)
	}
	return component, nil
}

func (r *componentRepository) GetComponentByCode(code string) (*models.Component, error) {
	component := &models.Component{}
	query := `SELECT ` + componentColumns + ` FROM components WHERE code = $1`
	err := scanComponent(r.db.QueryRow(query, code), component)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting component by code %s: %v", ErrDatabaseError, code, err)
	}
	return component, nil
}

func (r *componentRepository) GetComponents(filters models.ComponentFilters) ([]models.Component, int, error) {
	components := []models.Component{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    c.id, c.code, c.name, c.description, c.category_id, c.unit_id,
	    c.current_stock, c.reserved_stock, c.cost_price, c.min_stock, c.max_stock,
	    c.location, c.is_active, c.created_at, c.updated_at,
	    cat.name AS category_name, u.name AS unit_name, u.abbreviation AS unit_abbreviation,
	    COUNT(*) OVER() AS total_count
	  FROM components c
	  LEFT JOIN categories cat ON c.category_id = cat.id
	  LEFT JOIN units u ON c.unit_id = u.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("c.category_id = $%d", argCount))
		args = append(args, *filters.CategoryID)
		argCount++
	}
	if filters.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("c.is_active = $%d", argCount))
		args = append(args, *filters.IsActive)
		argCount++
	}
	if filters.LowStock {
		conditions = append(conditions, "c.current_stock <= c.min_stock")
	}
	if filters.Search != nil && *filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(c.code ILIKE $%d OR c.name ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*filters.Search+"%")
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY c.code")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting components: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Component
		var categoryName, unitName, unitAbbreviation sql.NullString
		if err := rows.Scan(
			&c.ID, &c.Code, &c.Name, &c.Description, &c.CategoryID, &c.UnitID,
			&c.CurrentStock, &c.ReservedStock, &c.CostPrice, &c.MinStock, &c.MaxStock,
			&c.Location, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
			&categoryName, &unitName, &unitAbbreviation,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning component: %v", ErrDatabaseError, err)
		}
		if c.CategoryID != nil && categoryName.Valid {
			c.Category = &models.Category{ID: *c.CategoryID, Name: categoryName.String}
		}
		if c.UnitID != nil && unitName.Valid {
			unit := &models.Unit{ID: *c.UnitID, Name: unitName.String}
			if unitAbbreviation.Valid {
				unit.Abbreviation = &unitAbbreviation.String
			}
			c.Unit = unit
		}
		components = append(components, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating components: %v", ErrDatabaseError, err)
	}
	return components, totalCount, nil
}

// UpdateComponent updates the static attributes of a component. Stock and cost
// fields are deliberately excluded; only movements change those.
func (r *componentRepository) UpdateComponent(executor SQLExecutor, component *models.Component) error {
	query := `UPDATE components
	          SET name = $1, description = $2, category_id = $3, unit_id = $4,
	              min_stock = $5, max_stock = $6, location = $7, is_active = $8, updated_at = $9
	          WHERE id = $10`
	result, err := executor.Exec(query,
		component.Name, component.Description, component.CategoryID, component.UnitID,
		component.MinStock, component.MaxStock, component.Location, component.IsActive,
		time.Now(), component.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating component ID %d: %v", ErrDatabaseError, component.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *componentRepository) DeleteComponent(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM components WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting component ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *componentRepository) DeactivateComponent(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`UPDATE components SET is_active = FALSE, updated_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: deactivating component ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *componentRepository) GetStockForUpdate(executor SQLExecutor, id int64) (*models.ComponentStock, error) {
	stock := &models.ComponentStock{}
	query := `SELECT id, code, name, current_stock, reserved_stock, cost_price
	          FROM components WHERE id = $1 FOR UPDATE`
	err := executor.QueryRow(query, id).Scan(
		&stock.ID, &stock.Code, &stock.Name,
		&stock.CurrentStock, &stock.ReservedStock, &stock.CostPrice,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking component ID %d for stock update: %v", ErrDatabaseError, id, err)
	}
	return stock, nil
}

func (r *componentRepository) UpdateStockLevels(executor SQLExecutor, id int64, currentStock, reservedStock, costPrice decimal.Decimal) error {
	query := `UPDATE components
	          SET current_stock = $1, reserved_stock = $2, cost_price = $3, updated_at = $4
	          WHERE id = $5`
	result, err := executor.Exec(query, currentStock, reservedStock, costPrice, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: updating stock levels for component ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *componentRepository) UpsertComponentByCode(executor SQLExecutor, component *models.Component) (*models.ComponentStock, bool, error) {
	stock := &models.ComponentStock{}
	query := `SELECT id, code, name, current_stock, reserved_stock, cost_price
	          FROM components WHERE code = $1 FOR UPDATE`
	err := executor.QueryRow(query, component.Code).Scan(
		&stock.ID, &stock.Code, &stock.Name,
		&stock.CurrentStock, &stock.ReservedStock, &stock.CostPrice,
	)
	if err == nil {
		return stock, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%w: locking component code %s: %v", ErrDatabaseError, component.Code, err)
	}

	id, err := r.CreateComponent(executor, component)
	if err != nil {
		return nil, false, err
	}
	return &models.ComponentStock{
		ID:            id,
		Code:          component.Code,
		Name:          component.Name,
		CurrentStock:  component.CurrentStock,
		ReservedStock: component.ReservedStock,
		CostPrice:     component.CostPrice,
	}, true, nil
}
