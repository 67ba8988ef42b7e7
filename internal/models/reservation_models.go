package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation statuses.
const (
	ReservationActive    = "active"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
)

// Reservation is a soft hold on component stock. Creating one increments the
// component's reserved_stock by the same quantity; releasing it (completed or
// cancelled) decrements it again.
type Reservation struct {
	ID          int64           `json:"id" db:"id"`
	ComponentID int64           `json:"component_id" db:"component_id"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	Reference   *string         `json:"reference,omitempty" db:"reference"`
	Notes       *string         `json:"notes,omitempty" db:"notes"`
	Status      string          `json:"status" db:"status"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty" db:"expires_at"`
	UserID      *int64          `json:"user_id,omitempty" db:"user_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	Component *Component `json:"component,omitempty"`
}
