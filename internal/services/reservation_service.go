package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
	"github.com/Industrias-CTS/inventario-sub001/internal/repositories"
	"github.com/Industrias-CTS/inventario-sub001/pkg/utils"

	"github.com/shopspring/decimal"
)

var (
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrReservationNotActive = errors.New("reservation is not active")
	ErrInvalidReleaseStatus = errors.New("release status must be completed or cancelled")
)

// CreateReservationRequest is the input for a new soft hold on stock.
type CreateReservationRequest struct {
	ComponentID int64           `json:"component_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reference   string          `json:"reference"`
	Notes       string          `json:"notes"`
	ExpiresAt   *time.Time      `json:"expires_at"`
}

// ReleaseReservationRequest flips an active reservation to completed or
// cancelled. Status defaults to completed when empty.
type ReleaseReservationRequest struct {
	Status string `json:"status"`
}

// ReservationService manages soft holds on component stock. Creating a
// reservation increments the component's reserved_stock by the reservation
// quantity; releasing it decrements reserved_stock again and flips the
// status, in the same transaction.
type ReservationService interface {
	CreateReservation(req CreateReservationRequest, actorID *int64) (*models.Reservation, error)
	ReleaseReservation(id int64, req ReleaseReservationRequest, actorID *int64) (*models.Reservation, error)
	GetReservations(status *string, componentID *int64, page, pageSize int) ([]models.Reservation, int, error)
}

type reservationService struct {
	reservationRepo repositories.ReservationRepository
	componentRepo   repositories.ComponentRepository
	refGen          utils.RefGenerator
	db              *sql.DB
}

// NewReservationService creates a new instance of ReservationService.
func NewReservationService(
	rr repositories.ReservationRepository,
	cr repositories.ComponentRepository,
	refGen utils.RefGenerator,
	db *sql.DB,
) ReservationService {
	return &reservationService{
		reservationRepo: rr,
		componentRepo:   cr,
		refGen:          refGen,
		db:              db,
	}
}

func (s *reservationService) CreateReservation(req CreateReservationRequest, actorID *int64) (*models.Reservation, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidQuantity, req.Quantity)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	stock, err := s.componentRepo.GetStockForUpdate(tx, req.ComponentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrComponentNotFound, req.ComponentID)
		}
		return nil, fmt.Errorf("failed to load component stock: %w", err)
	}

	if stock.AvailableStock().LessThan(req.Quantity) {
		return nil, fmt.Errorf("%w for %s: available %s, requested %s",
			ErrInsufficientStock, stock.Name, stock.AvailableStock(), req.Quantity)
	}

	newReserved := stock.ReservedStock.Add(req.Quantity)
	if err := s.componentRepo.UpdateStockLevels(tx, stock.ID, stock.CurrentStock, newReserved, stock.CostPrice); err != nil {
		return nil, fmt.Errorf("failed to reserve stock for %s: %w", stock.Name, err)
	}

	reference := req.Reference
	if reference == "" {
		reference = s.refGen.NewReference("RSV")
	}

	reservation := models.Reservation{
		ComponentID: stock.ID,
		Quantity:    req.Quantity,
		Reference:   utils.NewNullString(reference),
		Notes:       utils.NewNullString(req.Notes),
		Status:      models.ReservationActive,
		ExpiresAt:   req.ExpiresAt,
		UserID:      actorID,
	}
	if _, err := s.reservationRepo.CreateReservation(tx, &reservation); err != nil {
		return nil, fmt.Errorf("failed to create reservation for %s: %w", stock.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation transaction: %w", err)
	}

	reservation.Component = &models.Component{
		ID:            stock.ID,
		Code:          stock.Code,
		Name:          stock.Name,
		CurrentStock:  stock.CurrentStock,
		ReservedStock: newReserved,
		CostPrice:     stock.CostPrice,
	}
	return &reservation, nil
}

func (s *reservationService) ReleaseReservation(id int64, req ReleaseReservationRequest, actorID *int64) (*models.Reservation, error) {
	status, err := validateReleaseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	reservation, err := s.reservationRepo.GetReservationForUpdate(tx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrReservationNotFound, id)
		}
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	if reservation.Status != models.ReservationActive {
		return nil, fmt.Errorf("%w: reservation %d is %s", ErrReservationNotActive, id, reservation.Status)
	}

	stock, err := s.componentRepo.GetStockForUpdate(tx, reservation.ComponentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrComponentNotFound, reservation.ComponentID)
		}
		return nil, fmt.Errorf("failed to load component stock: %w", err)
	}

	newReserved, err := reservedQuantityDelta(stock.ReservedStock, reservation.Quantity)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: reserved %s, reservation quantity %s",
			ErrInsufficientReserved, stock.Name, stock.ReservedStock, reservation.Quantity)
	}
	if err := s.componentRepo.UpdateStockLevels(tx, stock.ID, stock.CurrentStock, newReserved, stock.CostPrice); err != nil {
		return nil, fmt.Errorf("failed to release reserved stock for %s: %w", stock.Name, err)
	}
	if err := s.reservationRepo.UpdateReservationStatus(tx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation release: %w", err)
	}

	reservation.Status = status
	reservation.Component = &models.Component{
		ID:            stock.ID,
		Code:          stock.Code,
		Name:          stock.Name,
		CurrentStock:  stock.CurrentStock,
		ReservedStock: newReserved,
		CostPrice:     stock.CostPrice,
	}
	return reservation, nil
}

func (s *reservationService) GetReservations(status *string, componentID *int64, page, pageSize int) ([]models.Reservation, int, error) {
	reservations, totalCount, err := s.reservationRepo.GetReservations(status, componentID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get reservations: %w", err)
	}
	return reservations, totalCount, nil
}

// validateReleaseStatus normalizes the requested terminal status.
func validateReleaseStatus(status string) (string, error) {
	switch status {
	case "":
		return models.ReservationCompleted, nil
	case models.ReservationCompleted, models.ReservationCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidReleaseStatus, status)
	}
}

// reservedQuantityDelta is the reserved-stock change a release applies.
// Kept as its own function to make the invariant explicit: a release always
// returns exactly the reservation's quantity, never a clamped amount.
func reservedQuantityDelta(reserved, quantity decimal.Decimal) (decimal.Decimal, error) {
	if reserved.LessThan(quantity) {
		return decimal.Zero, ErrInsufficientReserved
	}
	return reserved.Sub(quantity), nil
}
