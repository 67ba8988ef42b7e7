package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
	"github.com/Industrias-CTS/inventario-sub001/internal/repositories"
	"github.com/Industrias-CTS/inventario-sub001/pkg/utils"

	"github.com/shopspring/decimal"
)

// ErrComponentCodeExists is returned when a component code collides with an
// existing one.
var ErrComponentCodeExists = errors.New("component code already exists")

// CreateComponentRequest is the input for creating a component. Initial stock
// and reservations always enter through movements, so the stock fields are
// not part of this request; only the starting cost price is.
type CreateComponentRequest struct {
	Code        string          `json:"code" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id"`
	UnitID      *int64          `json:"unit_id"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	MinStock    decimal.Decimal `json:"min_stock"`
	MaxStock    decimal.Decimal `json:"max_stock"`
	Location    string          `json:"location"`
}

// UpdateComponentRequest updates the static attributes of a component. Stock
// and cost figures are excluded; those change only through movements.
type UpdateComponentRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id"`
	UnitID      *int64          `json:"unit_id"`
	MinStock    decimal.Decimal `json:"min_stock"`
	MaxStock    decimal.Decimal `json:"max_stock"`
	Location    string          `json:"location"`
	IsActive    *bool           `json:"is_active"`
}

// ComponentService manages the component catalog.
type ComponentService interface {
	CreateComponent(req CreateComponentRequest) (*models.Component, error)
	GetComponentByID(id int64) (*models.Component, error)
	GetComponentByCode(code string) (*models.Component, error)
	GetComponents(filters models.ComponentFilters) ([]models.Component, int, error)
	UpdateComponent(id int64, req UpdateComponentRequest) (*models.Component, error)

	// DeleteComponent removes a component with no movement history and
	// deactivates one that has any, so the ledger stays intact. The returned
	// flag reports whether the component was soft-deleted.
	DeleteComponent(id int64) (bool, error)
}

type componentService struct {
	componentRepo repositories.ComponentRepository
	movementRepo  repositories.MovementRepository
	db            *sql.DB
}

// NewComponentService creates a new instance of ComponentService.
func NewComponentService(cr repositories.ComponentRepository, mr repositories.MovementRepository, db *sql.DB) ComponentService {
	return &componentService{componentRepo: cr, movementRepo: mr, db: db}
}

func (s *componentService) CreateComponent(req CreateComponentRequest) (*models.Component, error) {
	component := &models.Component{
		Code:        req.Code,
		Name:        req.Name,
		Description: utils.NewNullString(req.Description),
		CategoryID:  req.CategoryID,
		UnitID:      req.UnitID,
		CostPrice:   req.CostPrice,
		MinStock:    req.MinStock,
		MaxStock:    req.MaxStock,
		Location:    utils.NewNullString(req.Location),
		IsActive:    true,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.componentRepo.CreateComponent(tx, component); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrComponentCodeExists, req.Code)
		}
		return nil, fmt.Errorf("failed to create component: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit component transaction: %w", err)
	}
	return component, nil
}

func (s *componentService) GetComponentByID(id int64) (*models.Component, error) {
	component, err := s.componentRepo.GetComponentByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrComponentNotFound, id)
		}
		return nil, fmt.Errorf("failed to get component: %w", err)
	}
	return component, nil
}

func (s *componentService) GetComponentByCode(code string) (*models.Component, error) {
	component, err := s.componentRepo.GetComponentByCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: code %s", ErrComponentNotFound, code)
		}
		return nil, fmt.Errorf("failed to get component: %w", err)
	}
	return component, nil
}

func (s *componentService) GetComponents(filters models.ComponentFilters) ([]models.Component, int, error) {
	components, totalCount, err := s.componentRepo.GetComponents(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get components: %w", err)
	}
	return components, totalCount, nil
}

func (s *componentService) UpdateComponent(id int64, req UpdateComponentRequest) (*models.Component, error) {
	existing, err := s.componentRepo.GetComponentByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrComponentNotFound, id)
		}
		return nil, fmt.Errorf("failed to get component: %w", err)
	}

	existing.Name = req.Name
	existing.Description = utils.NewNullString(req.Description)
	existing.CategoryID = req.CategoryID
	existing.UnitID = req.UnitID
	existing.MinStock = req.MinStock
	existing.MaxStock = req.MaxStock
	existing.Location = utils.NewNullString(req.Location)
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.componentRepo.UpdateComponent(tx, existing); err != nil {
		return nil, fmt.Errorf("failed to update component: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit component update: %w", err)
	}
	return existing, nil
}

func (s *componentService) DeleteComponent(id int64) (bool, error) {
	movementCount, err := s.movementRepo.CountMovementsByComponent(id)
	if err != nil {
		return false, fmt.Errorf("failed to count movements for component ID %d: %w", id, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	softDeleted := movementCount > 0
	if softDeleted {
		err = s.componentRepo.DeactivateComponent(tx, id)
	} else {
		err = s.componentRepo.DeleteComponent(tx, id)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, fmt.Errorf("%w: ID %d", ErrComponentNotFound, id)
		}
		return false, fmt.Errorf("failed to delete component: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit component deletion: %w", err)
	}
	return softDeleted, nil
}
