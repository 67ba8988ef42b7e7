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

// Business-rule errors shared by the stock, invoice and reservation services.
var (
	ErrInvalidMovementType  = errors.New("movement type not found")
	ErrComponentNotFound    = errors.New("component not found")
	ErrInsufficientStock    = errors.New("insufficient available stock")
	ErrInsufficientReserved = errors.New("release exceeds reserved stock")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
)

// CreateMovementRequest is the input for a single stock movement.
type CreateMovementRequest struct {
	MovementTypeID  int64           `json:"movement_type_id" binding:"required"`
	ComponentID     int64           `json:"component_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
	RecipeID        *int64          `json:"recipe_id"`
}

// MovementResult reports the ledger entry and the stock figures after a
// successful mutation, plus whether the cost price was overwritten.
type MovementResult struct {
	Movement       models.Movement `json:"movement"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	ReservedStock  decimal.Decimal `json:"reserved_stock"`
	AvailableStock decimal.Decimal `json:"available_stock"`
	PriceUpdated   bool            `json:"price_updated"`
	OldPrice       decimal.Decimal `json:"old_price"`
	NewPrice       decimal.Decimal `json:"new_price"`
}

// StockService is the stock mutation engine: it validates a movement request,
// derives the new stock/cost figures and persists the component update
// together with the ledger insert in one transaction.
type StockService interface {
	ApplyMovement(req CreateMovementRequest, actorID *int64) (*MovementResult, error)
	GetMovements(filters models.MovementFilters) ([]models.Movement, int, error)
}

type stockService struct {
	movementTypeRepo repositories.MovementTypeRepository
	componentRepo    repositories.ComponentRepository
	movementRepo     repositories.MovementRepository
	refGen           utils.RefGenerator
	db               *sql.DB
}

// NewStockService creates a new instance of StockService.
func NewStockService(
	mtr repositories.MovementTypeRepository,
	cr repositories.ComponentRepository,
	mr repositories.MovementRepository,
	refGen utils.RefGenerator,
	db *sql.DB,
) StockService {
	return &stockService{
		movementTypeRepo: mtr,
		componentRepo:    cr,
		movementRepo:     mr,
		refGen:           refGen,
		db:               db,
	}
}

func (s *stockService) ApplyMovement(req CreateMovementRequest, actorID *int64) (*MovementResult, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidQuantity, req.Quantity)
	}

	movementType, err := s.movementTypeRepo.GetMovementTypeByID(req.MovementTypeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrInvalidMovementType, req.MovementTypeID)
		}
		return nil, fmt.Errorf("failed to resolve movement type: %w", err)
	}

	reference := req.ReferenceNumber
	if reference == "" {
		reference = s.refGen.NewReference("MOV")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := applyStockMutation(tx, s.componentRepo, s.movementRepo, stockMutation{
		movementType: movementType,
		componentID:  req.ComponentID,
		quantity:     req.Quantity,
		unitCost:     req.UnitCost,
		reference:    utils.NewNullString(reference),
		notes:        req.Notes,
		recipeID:     req.RecipeID,
		userID:       actorID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit movement transaction: %w", err)
	}
	return result, nil
}

func (s *stockService) GetMovements(filters models.MovementFilters) ([]models.Movement, int, error) {
	movements, totalCount, err := s.movementRepo.GetMovements(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get movements: %w", err)
	}
	return movements, totalCount, nil
}
