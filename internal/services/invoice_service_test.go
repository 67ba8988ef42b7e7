package services

import (
	"errors"
	"testing"
)

func TestComputeUnitAllocation(t *testing.T) {
	tests := []struct {
		name         string
		quantities   []string
		shippingCost string
		shippingTax  string
		wantTotal    string
		wantPerUnit  string
		wantErr      error
	}{
		{
			name:       "spreads shipping and tax over all units",
			quantities: []string{"10", "20"},
			shippingCost: "30", shippingTax: "0",
			wantTotal: "30", wantPerUnit: "1",
		},
		{
			name:       "tax added to shipping before allocation",
			quantities: []string{"5", "5"},
			shippingCost: "15", shippingTax: "5",
			wantTotal: "10", wantPerUnit: "2",
		},
		{
			name:       "zero shared cost yields zero per unit",
			quantities: []string{"4"},
			shippingCost: "0", shippingTax: "0",
			wantTotal: "4", wantPerUnit: "0",
		},
		{
			name:       "fractional quantities",
			quantities: []string{"0.5", "1.5"},
			shippingCost: "1", shippingTax: "0",
			wantTotal: "2", wantPerUnit: "0.5",
		},
		{
			name:       "no items rejected",
			quantities: nil,
			shippingCost: "10", shippingTax: "0",
			wantErr: ErrEmptyInvoice,
		},
		{
			name:       "zero quantity item rejected",
			quantities: []string{"10", "0"},
			shippingCost: "10", shippingTax: "0",
			wantErr: ErrInvalidQuantity,
		},
		{
			name:       "negative quantity item rejected",
			quantities: []string{"-1"},
			shippingCost: "0", shippingTax: "0",
			wantErr: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]InvoiceItemRequest, 0, len(tt.quantities))
			for i, qty := range tt.quantities {
				items = append(items, InvoiceItemRequest{
					ComponentCode: string(rune('A' + i)),
					Quantity:      d(qty),
				})
			}

			total, perUnit, err := computeUnitAllocation(items, d(tt.shippingCost), d(tt.shippingTax))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("computeUnitAllocation() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("computeUnitAllocation() unexpected error: %v", err)
			}
			if !total.Equal(d(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", total, tt.wantTotal)
			}
			if !perUnit.Equal(d(tt.wantPerUnit)) {
				t.Errorf("per unit = %s, want %s", perUnit, tt.wantPerUnit)
			}
		})
	}
}

// The per-line final unit cost is the line's own unit cost plus the shared
// allocation, so lines with different values still absorb the same share per
// unit.
func TestInvoiceUnitCostComposition(t *testing.T) {
	items := []InvoiceItemRequest{
		{ComponentCode: "R-100", Quantity: d("10"), TotalCost: d("50")},
		{ComponentCode: "C-200", Quantity: d("20"), TotalCost: d("10")},
	}
	_, perUnit, err := computeUnitAllocation(items, d("30"), d("0"))
	if err != nil {
		t.Fatalf("computeUnitAllocation() unexpected error: %v", err)
	}
	if !perUnit.Equal(d("1")) {
		t.Fatalf("per unit = %s, want 1", perUnit)
	}

	wantFinal := []string{"6", "1.5"}
	for i, item := range items {
		final := item.TotalCost.Div(item.Quantity).Add(perUnit)
		if !final.Equal(d(wantFinal[i])) {
			t.Errorf("item %s: final unit cost = %s, want %s", item.ComponentCode, final, wantFinal[i])
		}
	}
}
