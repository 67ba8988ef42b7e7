package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operations a movement type can apply to stock.
const (
	OperationIn      = "IN"
	OperationOut     = "OUT"
	OperationReserve = "RESERVE"
	OperationRelease = "RELEASE"
)

// MovementType maps a user-facing code (e.g. PURCHASE, SALE) to exactly one
// stock operation. The catalog is seeded once and read-only through the API.
type MovementType struct {
	ID          int64   `json:"id" db:"id"`
	Code        string  `json:"code" db:"code"`
	Name        string  `json:"name" db:"name"`
	Operation   string  `json:"operation" db:"operation"`
	Description *string `json:"description,omitempty" db:"description"`
}

// Movement is an immutable ledger entry recording a stock-affecting event.
// Quantity is always positive; its signed meaning comes from the movement
// type's operation. Movements are only ever created as the side effect of a
// successful stock mutation.
type Movement struct {
	ID              int64           `json:"id" db:"id"`
	MovementTypeID  int64           `json:"movement_type_id" db:"movement_type_id"`
	ComponentID     int64           `json:"component_id" db:"component_id"`
	RecipeID        *int64          `json:"recipe_id,omitempty" db:"recipe_id"`
	UserID          *int64          `json:"user_id,omitempty" db:"user_id"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	ReferenceNumber *string         `json:"reference_number,omitempty" db:"reference_number"`
	Notes           *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`

	MovementType *MovementType `json:"movement_type,omitempty"`
	Component    *Component    `json:"component,omitempty"`
}

// MovementFilters narrows movement listings.
type MovementFilters struct {
	ComponentID    *int64
	MovementTypeID *int64
	StartDate      *time.Time
	EndDate        *time.Time
	Page           int
	PageSize       int
}
