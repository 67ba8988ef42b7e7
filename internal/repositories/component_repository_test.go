package repositories

import (
	"database/sql"
	"os"
	"testing"

	"github.com/Industrias-CTS/inventario-sub001/internal/models"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// testDB opens the database named by TEST_DATABASE_URL, skipping the test
// when the variable is unset. The schema must already be applied.
func testDB(t *testing.T) *sql.DB {
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

func TestComponentStockRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewComponentRepository(db)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	component := &models.Component{
		Code:     "TEST-RT-001",
		Name:     "Round trip test component",
		IsActive: true,
	}
	id, err := repo.CreateComponent(tx, component)
	if err != nil {
		t.Fatalf("CreateComponent: %v", err)
	}

	stock, err := repo.GetStockForUpdate(tx, id)
	if err != nil {
		t.Fatalf("GetStockForUpdate: %v", err)
	}
	if !stock.CurrentStock.IsZero() || !stock.ReservedStock.IsZero() {
		t.Fatalf("new component has non-zero stock: %+v", stock)
	}

	newCurrent := decimal.NewFromInt(50)
	newReserved := decimal.NewFromInt(10)
	newCost := decimal.NewFromFloat(1.25)
	if err := repo.UpdateStockLevels(tx, id, newCurrent, newReserved, newCost); err != nil {
		t.Fatalf("UpdateStockLevels: %v", err)
	}

	stock, err = repo.GetStockForUpdate(tx, id)
	if err != nil {
		t.Fatalf("GetStockForUpdate after update: %v", err)
	}
	if !stock.CurrentStock.Equal(newCurrent) || !stock.ReservedStock.Equal(newReserved) || !stock.CostPrice.Equal(newCost) {
		t.Errorf("stock figures not persisted: %+v", stock)
	}
	if !stock.AvailableStock().Equal(decimal.NewFromInt(40)) {
		t.Errorf("available = %s, want 40", stock.AvailableStock())
	}
}

func TestUpsertComponentByCode(t *testing.T) {
	db := testDB(t)
	repo := NewComponentRepository(db)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	stock, created, err := repo.UpsertComponentByCode(tx, &models.Component{
		Code:      "TEST-UP-001",
		Name:      "Upsert test component",
		CostPrice: decimal.NewFromFloat(2.5),
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("UpsertComponentByCode: %v", err)
	}
	if !created {
		t.Fatal("expected first upsert to create the component")
	}

	again, created, err := repo.UpsertComponentByCode(tx, &models.Component{
		Code:     "TEST-UP-001",
		Name:     "Different name, same code",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("UpsertComponentByCode second call: %v", err)
	}
	if created {
		t.Error("expected second upsert to find the existing component")
	}
	if again.ID != stock.ID {
		t.Errorf("second upsert returned ID %d, want %d", again.ID, stock.ID)
	}
	if again.Name != "Upsert test component" {
		t.Errorf("existing component renamed by upsert: %q", again.Name)
	}
}
