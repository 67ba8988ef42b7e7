package services

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"
	"github.com/Industrias-CTS/inventario-sub001/internal/repositories"
	"github.com/Industrias-CTS/inventario-sub001/pkg/utils"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// openTestDB opens the database named by TEST_DATABASE_URL, skipping the test
// when the variable is unset. The schema (including the seeded movement-type
// catalog) must already be applied.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seededMovementTypeID looks up a movement type carrying the given operation
// from the schema's seed data.
func seededMovementTypeID(t *testing.T, db *sql.DB, operation string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(`SELECT id FROM movement_types WHERE operation = $1 ORDER BY id LIMIT 1`, operation).Scan(&id)
	if err != nil {
		t.Fatalf("looking up movement type for operation %s: %v", operation, err)
	}
	return id
}

// createStockedComponent inserts a component with the given stock figures and
// registers cleanup of the component and everything referencing it.
func createStockedComponent(t *testing.T, db *sql.DB, repo repositories.ComponentRepository, code string, current, reserved decimal.Decimal) int64 {
	t.Helper()
	id, err := repo.CreateComponent(db, &models.Component{
		Code:     code,
		Name:     "Integration test " + code,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("creating component %s: %v", code, err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM movements WHERE component_id = $1`, id)
		db.Exec(`DELETE FROM reservations WHERE component_id = $1`, id)
		db.Exec(`DELETE FROM components WHERE id = $1`, id)
	})
	if err := repo.UpdateStockLevels(db, id, current, reserved, decimal.Zero); err != nil {
		t.Fatalf("stocking component %s: %v", code, err)
	}
	return id
}

func uniqueCode(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// A failing invoice line must roll back every previously applied line: no
// stock change and no ledger rows may survive from the lines before it.
func TestProcessInvoiceRollsBackOnFailure(t *testing.T) {
	db := openTestDB(t)
	componentRepo := repositories.NewComponentRepository(db)
	movementRepo := repositories.NewMovementRepository(db)
	movementTypeRepo := repositories.NewMovementTypeRepository(db)
	svc := NewInvoiceService(movementTypeRepo, componentRepo, movementRepo, utils.NewUUIDRefGenerator(), db)

	codeA := uniqueCode("ITG-A")
	codeB := uniqueCode("ITG-B")
	idA := createStockedComponent(t, db, componentRepo, codeA, d("100"), d("0"))
	idB := createStockedComponent(t, db, componentRepo, codeB, d("5"), d("0"))

	outTypeID := seededMovementTypeID(t, db, models.OperationOut)

	_, err := svc.ProcessInvoice(ProcessInvoiceRequest{
		MovementTypeID: outTypeID,
		Items: []InvoiceItemRequest{
			{ComponentCode: codeA, Quantity: d("10")},
			{ComponentCode: codeB, Quantity: d("10")},
		},
	}, nil)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("ProcessInvoice error = %v, want ErrInsufficientStock", err)
	}

	for _, tc := range []struct {
		id   int64
		want string
	}{
		{idA, "100"},
		{idB, "5"},
	} {
		component, err := componentRepo.GetComponentByID(tc.id)
		if err != nil {
			t.Fatalf("GetComponentByID(%d): %v", tc.id, err)
		}
		if !component.CurrentStock.Equal(d(tc.want)) {
			t.Errorf("component %d stock = %s after rollback, want %s", tc.id, component.CurrentStock, tc.want)
		}
		count, err := movementRepo.CountMovementsByComponent(tc.id)
		if err != nil {
			t.Fatalf("CountMovementsByComponent(%d): %v", tc.id, err)
		}
		if count != 0 {
			t.Errorf("component %d has %d ledger rows after rollback, want 0", tc.id, count)
		}
	}
}

// A successful invoice reports each line with the ledger movement it created,
// flagging components the invoice auto-provisioned.
func TestProcessInvoiceReportsCreatedMovements(t *testing.T) {
	db := openTestDB(t)
	componentRepo := repositories.NewComponentRepository(db)
	movementRepo := repositories.NewMovementRepository(db)
	movementTypeRepo := repositories.NewMovementTypeRepository(db)
	svc := NewInvoiceService(movementTypeRepo, componentRepo, movementRepo, utils.NewUUIDRefGenerator(), db)

	existingCode := uniqueCode("ITG-E")
	createStockedComponent(t, db, componentRepo, existingCode, d("20"), d("0"))
	newCode := uniqueCode("ITG-N")
	t.Cleanup(func() {
		db.Exec(`DELETE FROM movements WHERE component_id IN (SELECT id FROM components WHERE code = $1)`, newCode)
		db.Exec(`DELETE FROM components WHERE code = $1`, newCode)
	})

	inTypeID := seededMovementTypeID(t, db, models.OperationIn)

	result, err := svc.ProcessInvoice(ProcessInvoiceRequest{
		MovementTypeID: inTypeID,
		Items: []InvoiceItemRequest{
			{ComponentCode: existingCode, Quantity: d("5"), TotalCost: d("50")},
			{ComponentCode: newCode, ComponentName: "New part", Quantity: d("3"), TotalCost: d("30")},
		},
	}, nil)
	if err != nil {
		t.Fatalf("ProcessInvoice: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("got %d item results, want 2", len(result.Items))
	}

	for i, item := range result.Items {
		if item.Movement.ID == 0 {
			t.Errorf("item %d movement not populated", i)
		}
		if item.Movement.ComponentID != item.ComponentID {
			t.Errorf("item %d movement component = %d, want %d", i, item.Movement.ComponentID, item.ComponentID)
		}
	}
	if !result.Items[0].Movement.Quantity.Equal(d("5")) {
		t.Errorf("first movement quantity = %s, want 5", result.Items[0].Movement.Quantity)
	}
	if result.Items[0].ComponentCreated {
		t.Error("existing component reported as created")
	}
	if !result.Items[1].ComponentCreated {
		t.Error("auto-provisioned component not reported as created")
	}
}

// A failed movement must leave both the component row and the ledger exactly
// as they were.
func TestApplyMovementFailureLeavesNoState(t *testing.T) {
	db := openTestDB(t)
	componentRepo := repositories.NewComponentRepository(db)
	movementRepo := repositories.NewMovementRepository(db)
	movementTypeRepo := repositories.NewMovementTypeRepository(db)
	svc := NewStockService(movementTypeRepo, componentRepo, movementRepo, utils.NewUUIDRefGenerator(), db)

	id := createStockedComponent(t, db, componentRepo, uniqueCode("ITG-M"), d("50"), d("10"))
	outTypeID := seededMovementTypeID(t, db, models.OperationOut)

	_, err := svc.ApplyMovement(CreateMovementRequest{
		MovementTypeID: outTypeID,
		ComponentID:    id,
		Quantity:       d("45"),
	}, nil)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("ApplyMovement error = %v, want ErrInsufficientStock", err)
	}

	component, err := componentRepo.GetComponentByID(id)
	if err != nil {
		t.Fatalf("GetComponentByID: %v", err)
	}
	if !component.CurrentStock.Equal(d("50")) || !component.ReservedStock.Equal(d("10")) {
		t.Errorf("stock figures changed on failure: current %s reserved %s", component.CurrentStock, component.ReservedStock)
	}
	count, err := movementRepo.CountMovementsByComponent(id)
	if err != nil {
		t.Fatalf("CountMovementsByComponent: %v", err)
	}
	if count != 0 {
		t.Errorf("ledger has %d rows after failed movement, want 0", count)
	}
}

// Releasing a reservation frees its reserved stock exactly once; a second
// release must be rejected because the reservation is no longer active.
func TestReleaseReservationLifecycle(t *testing.T) {
	db := openTestDB(t)
	componentRepo := repositories.NewComponentRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	svc := NewReservationService(reservationRepo, componentRepo, utils.NewUUIDRefGenerator(), db)

	id := createStockedComponent(t, db, componentRepo, uniqueCode("ITG-R"), d("50"), d("0"))

	reservation, err := svc.CreateReservation(CreateReservationRequest{
		ComponentID: id,
		Quantity:    d("10"),
	}, nil)
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	component, err := componentRepo.GetComponentByID(id)
	if err != nil {
		t.Fatalf("GetComponentByID: %v", err)
	}
	if !component.ReservedStock.Equal(d("10")) {
		t.Fatalf("reserved = %s after reservation, want 10", component.ReservedStock)
	}

	released, err := svc.ReleaseReservation(reservation.ID, ReleaseReservationRequest{}, nil)
	if err != nil {
		t.Fatalf("ReleaseReservation: %v", err)
	}
	if released.Status != models.ReservationCompleted {
		t.Errorf("status = %q after release, want %q", released.Status, models.ReservationCompleted)
	}
	component, err = componentRepo.GetComponentByID(id)
	if err != nil {
		t.Fatalf("GetComponentByID after release: %v", err)
	}
	if !component.ReservedStock.IsZero() {
		t.Errorf("reserved = %s after release, want 0", component.ReservedStock)
	}
	if !component.CurrentStock.Equal(d("50")) {
		t.Errorf("current = %s after release, want 50", component.CurrentStock)
	}

	if _, err = svc.ReleaseReservation(reservation.ID, ReleaseReservationRequest{}, nil); !errors.Is(err, ErrReservationNotActive) {
		t.Errorf("second release error = %v, want ErrReservationNotActive", err)
	}
}
