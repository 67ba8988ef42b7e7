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

// ErrEmptyInvoice is returned when an invoice has no items or a zero total
// quantity. Checked before the freight allocation divides by the total.
var ErrEmptyInvoice = errors.New("invoice must contain items with a positive total quantity")

// InvoiceItemRequest is one line of an invoice. TotalCost is the line total;
// the unit cost is derived from it.
type InvoiceItemRequest struct {
	ComponentCode string          `json:"component_code" binding:"required"`
	ComponentName string          `json:"component_name"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Unit          string          `json:"unit"`
}

// ProcessInvoiceRequest is the input for an invoice batch. All items share
// one movement type and one shipping/tax allocation.
type ProcessInvoiceRequest struct {
	MovementTypeID  int64                `json:"movement_type_id" binding:"required"`
	ReferenceNumber string               `json:"reference_number"`
	Notes           string               `json:"notes"`
	ShippingCost    decimal.Decimal      `json:"shipping_cost"`
	ShippingTax     decimal.Decimal      `json:"shipping_tax"`
	Items           []InvoiceItemRequest `json:"items" binding:"required,dive"`
}

// InvoiceItemResult reports the outcome of one processed line.
// ComponentCreated distinguishes SKUs auto-provisioned by this invoice from
// ones that already existed.
type InvoiceItemResult struct {
	ComponentID      int64           `json:"component_id"`
	ComponentCode    string          `json:"component_code"`
	ComponentCreated bool            `json:"component_created"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitCostBase     decimal.Decimal `json:"unit_cost_base"`
	UnitCostFinal    decimal.Decimal `json:"unit_cost_final"`
	Movement         models.Movement `json:"movement"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	PriceUpdated     bool            `json:"price_updated"`
}

// InvoiceResult is the invoice-level summary plus per-item results.
type InvoiceResult struct {
	ReferenceNumber       string              `json:"reference_number"`
	ItemCount             int                 `json:"item_count"`
	TotalQuantity         decimal.Decimal     `json:"total_quantity"`
	ShippingCost          decimal.Decimal     `json:"shipping_cost"`
	ShippingTax           decimal.Decimal     `json:"shipping_tax"`
	AdditionalCostPerUnit decimal.Decimal     `json:"additional_cost_per_unit"`
	Items                 []InvoiceItemResult `json:"items"`
}

// InvoiceService processes multi-line invoices: it spreads shared shipping
// and tax uniformly across every unit in the batch, resolves or creates
// components by code, and applies one stock mutation per line. The whole
// batch runs in a single transaction; any line failure rolls back every
// previously applied line.
type InvoiceService interface {
	ProcessInvoice(req ProcessInvoiceRequest, actorID *int64) (*InvoiceResult, error)
}

type invoiceService struct {
	movementTypeRepo repositories.MovementTypeRepository
	componentRepo    repositories.ComponentRepository
	movementRepo     repositories.MovementRepository
	refGen           utils.RefGenerator
	db               *sql.DB
}

// NewInvoiceService creates a new instance of InvoiceService.
func NewInvoiceService(
	mtr repositories.MovementTypeRepository,
	cr repositories.ComponentRepository,
	mr repositories.MovementRepository,
	refGen utils.RefGenerator,
	db *sql.DB,
) InvoiceService {
	return &invoiceService{
		movementTypeRepo: mtr,
		componentRepo:    cr,
		movementRepo:     mr,
		refGen:           refGen,
		db:               db,
	}
}

func (s *invoiceService) ProcessInvoice(req ProcessInvoiceRequest, actorID *int64) (*InvoiceResult, error) {
	movementType, err := s.movementTypeRepo.GetMovementTypeByID(req.MovementTypeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrInvalidMovementType, req.MovementTypeID)
		}
		return nil, fmt.Errorf("failed to resolve movement type: %w", err)
	}

	totalQuantity, additionalCostPerUnit, err := computeUnitAllocation(req.Items, req.ShippingCost, req.ShippingTax)
	if err != nil {
		return nil, err
	}

	reference := req.ReferenceNumber
	if reference == "" {
		reference = s.refGen.NewReference("INV")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	itemResults := make([]InvoiceItemResult, 0, len(req.Items))
	for _, item := range req.Items {
		unitCostBase := item.TotalCost.Div(item.Quantity)
		unitCostFinal := unitCostBase.Add(additionalCostPerUnit)

		name := item.ComponentName
		if name == "" {
			name = item.ComponentCode
		}
		stock, created, err := s.componentRepo.UpsertComponentByCode(tx, &models.Component{
			Code:      item.ComponentCode,
			Name:      name,
			CostPrice: unitCostFinal,
			IsActive:  true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to resolve component %s: %w", item.ComponentCode, err)
		}

		notes := fmt.Sprintf("Invoice %s: base unit cost %s + shared cost %s per unit", reference, unitCostBase, additionalCostPerUnit)
		if created {
			notes += " | component auto-created"
		}
		if req.Notes != "" {
			notes = req.Notes + " | " + notes
		}

		result, err := applyStockMutation(tx, s.componentRepo, s.movementRepo, stockMutation{
			movementType: movementType,
			componentID:  stock.ID,
			quantity:     item.Quantity,
			unitCost:     unitCostFinal,
			reference:    utils.NewNullString(reference),
			notes:        notes,
			userID:       actorID,
		})
		if err != nil {
			return nil, err
		}

		itemResults = append(itemResults, InvoiceItemResult{
			ComponentID:      stock.ID,
			ComponentCode:    item.ComponentCode,
			ComponentCreated: created,
			Quantity:         item.Quantity,
			UnitCostBase:     unitCostBase,
			UnitCostFinal:    unitCostFinal,
			Movement:         result.Movement,
			CurrentStock:     result.CurrentStock,
			PriceUpdated:     result.PriceUpdated,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invoice transaction: %w", err)
	}

	return &InvoiceResult{
		ReferenceNumber:       reference,
		ItemCount:             len(itemResults),
		TotalQuantity:         totalQuantity,
		ShippingCost:          req.ShippingCost,
		ShippingTax:           req.ShippingTax,
		AdditionalCostPerUnit: additionalCostPerUnit,
		Items:                 itemResults,
	}, nil
}

// computeUnitAllocation validates the batch and spreads shipping plus tax
// uniformly over every unit, regardless of item value. The zero-quantity
// check must run before the division.
func computeUnitAllocation(items []InvoiceItemRequest, shippingCost, shippingTax decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	totalQuantity := decimal.Zero
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: item %s has quantity %s", ErrInvalidQuantity, item.ComponentCode, item.Quantity)
		}
		totalQuantity = totalQuantity.Add(item.Quantity)
	}
	if len(items) == 0 || totalQuantity.IsZero() {
		return decimal.Zero, decimal.Zero, ErrEmptyInvoice
	}
	return totalQuantity, shippingCost.Add(shippingTax).Div(totalQuantity), nil
}
