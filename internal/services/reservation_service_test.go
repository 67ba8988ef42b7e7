package services

import (
	"errors"
	"testing"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
)

func TestValidateReleaseStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		want    string
		wantErr error
	}{
		{name: "empty defaults to completed", status: "", want: models.ReservationCompleted},
		{name: "completed accepted", status: models.ReservationCompleted, want: models.ReservationCompleted},
		{name: "cancelled accepted", status: models.ReservationCancelled, want: models.ReservationCancelled},
		{name: "active rejected", status: models.ReservationActive, wantErr: ErrInvalidReleaseStatus},
		{name: "garbage rejected", status: "done", wantErr: ErrInvalidReleaseStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateReleaseStatus(tt.status)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("validateReleaseStatus(%q) error = %v, want %v", tt.status, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("validateReleaseStatus(%q) unexpected error: %v", tt.status, err)
			}
			if got != tt.want {
				t.Errorf("validateReleaseStatus(%q) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestReservedQuantityDelta(t *testing.T) {
	got, err := reservedQuantityDelta(d("10"), d("4"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(d("6")) {
		t.Errorf("reserved after release = %s, want 6", got)
	}

	got, err = reservedQuantityDelta(d("10"), d("10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("reserved after full release = %s, want 0", got)
	}

	// A release never returns more than was reserved; it fails instead of
	// clamping.
	if _, err = reservedQuantityDelta(d("10"), d("10.0001")); !errors.Is(err, ErrInsufficientReserved) {
		t.Errorf("expected ErrInsufficientReserved, got %v", err)
	}
}
