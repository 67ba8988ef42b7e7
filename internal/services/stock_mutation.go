package services

import (
	"errors"
	"fmt"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
	"github.com/Industrias-CTS/inventario-sub001/internal/repositories"
	"github.com/Industrias-CTS/inventario-sub001/pkg/utils"

	"github.com/shopspring/decimal"
)

// stockMutation carries one resolved movement into the shared mutation step.
// The movement type has already been resolved by the caller; quantity has
// already been validated as positive.
type stockMutation struct {
	movementType *models.MovementType
	componentID  int64
	quantity     decimal.Decimal
	unitCost     decimal.Decimal
	reference    *string
	notes        string
	recipeID     *int64
	userID       *int64
}

// applyStockMutation locks the component row, derives the new stock and cost
// figures, writes them back and appends the ledger entry. It must run inside
// a transaction owned by the caller; all validation happens before any write,
// so a returned error means nothing was changed on this executor.
func applyStockMutation(
	tx repositories.SQLExecutor,
	componentRepo repositories.ComponentRepository,
	movementRepo repositories.MovementRepository,
	m stockMutation,
) (*MovementResult, error) {
	stock, err := componentRepo.GetStockForUpdate(tx, m.componentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrComponentNotFound, m.componentID)
		}
		return nil, fmt.Errorf("failed to load component stock: %w", err)
	}

	newCurrent, newReserved, err := applyOperation(m.movementType.Operation, stock.CurrentStock, stock.ReservedStock, m.quantity)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return nil, fmt.Errorf("%w for %s: available %s, requested %s",
				ErrInsufficientStock, stock.Name, stock.AvailableStock(), m.quantity)
		}
		if errors.Is(err, ErrInsufficientReserved) {
			return nil, fmt.Errorf("%w for %s: reserved %s, requested %s",
				ErrInsufficientReserved, stock.Name, stock.ReservedStock, m.quantity)
		}
		return nil, err
	}

	newCost, priceUpdated := applyCostRule(m.movementType.Operation, stock.CostPrice, m.unitCost)
	notes := m.notes
	if priceUpdated {
		notes = appendPriceChangeNote(notes, stock.CostPrice, newCost)
	}

	if err := componentRepo.UpdateStockLevels(tx, stock.ID, newCurrent, newReserved, newCost); err != nil {
		return nil, fmt.Errorf("failed to update stock for component %s: %w", stock.Name, err)
	}

	movement := models.Movement{
		MovementTypeID:  m.movementType.ID,
		ComponentID:     stock.ID,
		RecipeID:        m.recipeID,
		UserID:          m.userID,
		Quantity:        m.quantity,
		UnitCost:        m.unitCost,
		ReferenceNumber: m.reference,
		Notes:           utils.NewNullString(notes),
	}
	if _, err := movementRepo.CreateMovement(tx, &movement); err != nil {
		return nil, fmt.Errorf("failed to record movement for component %s: %w", stock.Name, err)
	}
	movement.MovementType = m.movementType

	return &MovementResult{
		Movement:       movement,
		CurrentStock:   newCurrent,
		ReservedStock:  newReserved,
		AvailableStock: newCurrent.Sub(newReserved),
		PriceUpdated:   priceUpdated,
		OldPrice:       stock.CostPrice,
		NewPrice:       newCost,
	}, nil
}

// applyOperation derives the stock figures a movement leaves behind.
// Quantity is always positive; the operation decides its direction.
// OUT and RESERVE check against available stock (current - reserved),
// RELEASE against the reserved amount.
func applyOperation(operation string, current, reserved, quantity decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	switch operation {
	case models.OperationIn:
		return current.Add(quantity), reserved, nil
	case models.OperationOut:
		if current.Sub(reserved).LessThan(quantity) {
			return current, reserved, ErrInsufficientStock
		}
		return current.Sub(quantity), reserved, nil
	case models.OperationReserve:
		if current.Sub(reserved).LessThan(quantity) {
			return current, reserved, ErrInsufficientStock
		}
		return current, reserved.Add(quantity), nil
	case models.OperationRelease:
		if reserved.LessThan(quantity) {
			return current, reserved, ErrInsufficientReserved
		}
		return current, reserved.Sub(quantity), nil
	default:
		return current, reserved, fmt.Errorf("%w: unknown operation %q", ErrInvalidMovementType, operation)
	}
}

// applyCostRule returns the cost price a movement leaves on the component.
// Only an IN movement with a positive unit cost above the known cost price
// overwrites it.
func applyCostRule(operation string, costPrice, unitCost decimal.Decimal) (decimal.Decimal, bool) {
	if operation == models.OperationIn && unitCost.IsPositive() && unitCost.GreaterThan(costPrice) {
		return unitCost, true
	}
	return costPrice, false
}

// appendPriceChangeNote annotates movement notes with an old/new price marker.
func appendPriceChangeNote(notes string, oldPrice, newPrice decimal.Decimal) string {
	change := fmt.Sprintf("price updated: %s -> %s", oldPrice, newPrice)
	if notes == "" {
		return change
	}
	return notes + " | " + change
}
