package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestApplyOperation(t *testing.T) {
	tests := []struct {
		name         string
		operation    string
		current      string
		reserved     string
		quantity     string
		wantCurrent  string
		wantReserved string
		wantErr      error
	}{
		{
			name:      "in adds to current stock",
			operation: models.OperationIn,
			current:   "50", reserved: "10", quantity: "25",
			wantCurrent: "75", wantReserved: "10",
		},
		{
			name:      "out consumes available stock",
			operation: models.OperationOut,
			current:   "50", reserved: "10", quantity: "30",
			wantCurrent: "20", wantReserved: "10",
		},
		{
			name:      "out rejected when quantity exceeds available",
			operation: models.OperationOut,
			current:   "50", reserved: "10", quantity: "45",
			wantErr: ErrInsufficientStock,
		},
		{
			name:      "out can consume exactly the available stock",
			operation: models.OperationOut,
			current:   "50", reserved: "10", quantity: "40",
			wantCurrent: "10", wantReserved: "10",
		},
		{
			name:      "reserve earmarks available stock",
			operation: models.OperationReserve,
			current:   "50", reserved: "10", quantity: "15",
			wantCurrent: "50", wantReserved: "25",
		},
		{
			name:      "reserve rejected when quantity exceeds available",
			operation: models.OperationReserve,
			current:   "50", reserved: "10", quantity: "41",
			wantErr: ErrInsufficientStock,
		},
		{
			name:      "release frees reserved stock",
			operation: models.OperationRelease,
			current:   "50", reserved: "10", quantity: "10",
			wantCurrent: "50", wantReserved: "0",
		},
		{
			name:      "release rejected when quantity exceeds reserved",
			operation: models.OperationRelease,
			current:   "50", reserved: "10", quantity: "10.5",
			wantErr: ErrInsufficientReserved,
		},
		{
			name:      "fractional quantities",
			operation: models.OperationOut,
			current:   "2.75", reserved: "0.25", quantity: "2.5",
			wantCurrent: "0.25", wantReserved: "0.25",
		},
		{
			name:      "unknown operation rejected",
			operation: "TRANSFER",
			current:   "50", reserved: "10", quantity: "1",
			wantErr: ErrInvalidMovementType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCurrent, gotReserved, err := applyOperation(tt.operation, d(tt.current), d(tt.reserved), d(tt.quantity))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("applyOperation() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("applyOperation() unexpected error: %v", err)
			}
			if !gotCurrent.Equal(d(tt.wantCurrent)) {
				t.Errorf("current = %s, want %s", gotCurrent, tt.wantCurrent)
			}
			if !gotReserved.Equal(d(tt.wantReserved)) {
				t.Errorf("reserved = %s, want %s", gotReserved, tt.wantReserved)
			}
		})
	}
}

// A failed movement must leave the stock figures untouched so the caller can
// roll back without partial state.
func TestApplyOperationFailureKeepsFigures(t *testing.T) {
	current, reserved := d("50"), d("10")
	gotCurrent, gotReserved, err := applyOperation(models.OperationOut, current, reserved, d("45"))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if !gotCurrent.Equal(current) || !gotReserved.Equal(reserved) {
		t.Errorf("figures changed on failure: current %s reserved %s", gotCurrent, gotReserved)
	}
}

// Applying a mixed sequence of movements must never drive reserved above
// current or either figure below zero.
func TestApplyOperationSequenceInvariants(t *testing.T) {
	current, reserved := d("0"), d("0")
	steps := []struct {
		operation string
		quantity  string
	}{
		{models.OperationIn, "100"},
		{models.OperationReserve, "60"},
		{models.OperationOut, "40"},
		{models.OperationRelease, "20"},
		{models.OperationOut, "20"},
		{models.OperationRelease, "40"},
		{models.OperationOut, "40"},
	}

	for i, step := range steps {
		var err error
		current, reserved, err = applyOperation(step.operation, current, reserved, d(step.quantity))
		if err != nil {
			t.Fatalf("step %d (%s %s): unexpected error: %v", i, step.operation, step.quantity, err)
		}
		if reserved.GreaterThan(current) {
			t.Fatalf("step %d: reserved %s exceeds current %s", i, reserved, current)
		}
		if current.IsNegative() || reserved.IsNegative() {
			t.Fatalf("step %d: negative figure: current %s reserved %s", i, current, reserved)
		}
	}
	if !current.IsZero() || !reserved.IsZero() {
		t.Errorf("expected fully drained stock, got current %s reserved %s", current, reserved)
	}
}

func TestApplyCostRule(t *testing.T) {
	tests := []struct {
		name        string
		operation   string
		costPrice   string
		unitCost    string
		wantCost    string
		wantUpdated bool
	}{
		{
			name:      "in with higher unit cost overwrites",
			operation: models.OperationIn,
			costPrice: "1", unitCost: "1.5",
			wantCost: "1.5", wantUpdated: true,
		},
		{
			name:      "in with lower unit cost keeps price",
			operation: models.OperationIn,
			costPrice: "2", unitCost: "1.5",
			wantCost: "2", wantUpdated: false,
		},
		{
			name:      "in with equal unit cost keeps price",
			operation: models.OperationIn,
			costPrice: "2", unitCost: "2",
			wantCost: "2", wantUpdated: false,
		},
		{
			name:      "in with zero unit cost keeps price",
			operation: models.OperationIn,
			costPrice: "2", unitCost: "0",
			wantCost: "2", wantUpdated: false,
		},
		{
			name:      "in sets price on a zero-cost component",
			operation: models.OperationIn,
			costPrice: "0", unitCost: "0.25",
			wantCost: "0.25", wantUpdated: true,
		},
		{
			name:      "out never touches price",
			operation: models.OperationOut,
			costPrice: "1", unitCost: "9",
			wantCost: "1", wantUpdated: false,
		},
		{
			name:      "reserve never touches price",
			operation: models.OperationReserve,
			costPrice: "1", unitCost: "9",
			wantCost: "1", wantUpdated: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCost, gotUpdated := applyCostRule(tt.operation, d(tt.costPrice), d(tt.unitCost))
			if !gotCost.Equal(d(tt.wantCost)) {
				t.Errorf("cost = %s, want %s", gotCost, tt.wantCost)
			}
			if gotUpdated != tt.wantUpdated {
				t.Errorf("updated = %v, want %v", gotUpdated, tt.wantUpdated)
			}
		})
	}
}

func TestAppendPriceChangeNote(t *testing.T) {
	got := appendPriceChangeNote("", d("1"), d("1.5"))
	if got != "price updated: 1 -> 1.5" {
		t.Errorf("unexpected note: %q", got)
	}

	got = appendPriceChangeNote("restock order", d("1"), d("1.5"))
	if !strings.HasPrefix(got, "restock order | ") {
		t.Errorf("existing notes not preserved: %q", got)
	}
	if !strings.Contains(got, "price updated: 1 -> 1.5") {
		t.Errorf("price marker missing: %q", got)
	}
}
