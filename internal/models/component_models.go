package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups components (e.g. electronics, raw materials).
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Unit is a unit of measure (e.g. piece, kilogram, meter).
type Unit struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name" binding:"required"`
	Abbreviation *string   `json:"abbreviation,omitempty" db:"abbreviation"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Component is a stock-keeping unit. current_stock is the total physical quantity
// on hand, reserved_stock the part of it earmarked by active reservations.
// Available stock is derived as current_stock - reserved_stock and never stored.
type Component struct {
	ID            int64           `json:"id" db:"id"`
	Code          string          `json:"code" db:"code" binding:"required"`
	Name          string          `json:"name" db:"name" binding:"required"`
	Description   *string         `json:"description,omitempty" db:"description"`
	CategoryID    *int64          `json:"category_id,omitempty" db:"category_id"`
	UnitID        *int64          `json:"unit_id,omitempty" db:"unit_id"`
	CurrentStock  decimal.Decimal `json:"current_stock" db:"current_stock"`
	ReservedStock decimal.Decimal `json:"reserved_stock" db:"reserved_stock"`
	CostPrice     decimal.Decimal `json:"cost_price" db:"cost_price"`
	MinStock      decimal.Decimal `json:"min_stock" db:"min_stock"`
	MaxStock      decimal.Decimal `json:"max_stock" db:"max_stock"`
	Location      *string         `json:"location,omitempty" db:"location"`
	IsActive      bool            `json:"is_active" db:"is_active"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	Category *Category `json:"category,omitempty"`
	Unit     *Unit     `json:"unit,omitempty"`
}

// AvailableStock returns the quantity eligible for new outbound or reservation
// movements.
func (c *Component) AvailableStock() decimal.Decimal {
	return c.CurrentStock.Sub(c.ReservedStock)
}

// ComponentStock is the slice of a component row that stock mutations read and
// write. Loaded with a row lock inside the mutation transaction.
type ComponentStock struct {
	ID            int64
	Code          string
	Name          string
	CurrentStock  decimal.Decimal
	ReservedStock decimal.Decimal
	CostPrice     decimal.Decimal
}

// AvailableStock returns current_stock - reserved_stock.
func (s *ComponentStock) AvailableStock() decimal.Decimal {
	return s.CurrentStock.Sub(s.ReservedStock)
}

// ComponentFilters narrows component listings.
type ComponentFilters struct {
	CategoryID *int64
	IsActive   *bool
	LowStock   bool // only components with current_stock <= min_stock
	Search     *string
	Page       int
	PageSize   int
}
