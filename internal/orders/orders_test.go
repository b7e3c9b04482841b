package orders

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/procureflow/procureflow/internal/catalog"
	"github.com/procureflow/procureflow/internal/models"
	"github.com/procureflow/procureflow/internal/stages"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB creates an in-memory SQLite database with all required tables.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Item{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderLine{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedItem(t *testing.T, db *gorm.DB, suffix int) *models.Item {
	t.Helper()
	item, err := catalog.Create(db, catalog.ItemInput{
		MaterialNumber: fmt.Sprintf("MAT-%d", suffix),
		VendorName:     "SOURCING METSO",
		DrawingNumber:  "DRW-1",
		ItemName:       "Liner Plate",
		Price:          80,
	})
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func validOrder() OrderInput {
	return OrderInput{
		PONumber:   "4500012345",
		VendorName: "SOURCING METSO",
		OrderDate:  time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
}

func intPtr(v int) *int        { return &v }
func flPtr(v float64) *float64 { return &v }

func TestCreate_WithLines(t *testing.T) {
	db := testDB(t)
	item := seedItem(t, db, 1)

	po, err := Create(db, validOrder(), []LineInput{
		{ItemID: item.ID, Quantity: 3},
		{ItemID: item.ID, Quantity: 1, PriceOverride: flPtr(99.5)},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(po.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(po.Lines))
	}
	for i, line := range po.Lines {
		recs := stages.Parse(line.Processes)
		if len(recs) != len(stages.Names) {
			t.Errorf("line %d stage array has %d records, want %d", i, len(recs), len(stages.Names))
		}
		for _, r := range recs {
			if r.Completed || r.Remarks != "" {
				t.Errorf("line %d stage record not fresh: %+v", i, r)
			}
		}
		if line.Item.ID != item.ID {
			t.Errorf("line %d item not preloaded", i)
		}
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testDB(t)
	item := seedItem(t, db, 1)

	tests := []struct {
		name  string
		in    OrderInput
		lines []LineInput
	}{
		{"missing po number", OrderInput{VendorName: "OTHER", OrderDate: time.Now()}, nil},
		{"unknown vendor", OrderInput{PONumber: "1", VendorName: "ACME", OrderDate: time.Now()}, nil},
		{"zero order date", OrderInput{PONumber: "1", VendorName: "OTHER"}, nil},
		{"zero quantity", validOrder(), []LineInput{{ItemID: item.ID, Quantity: 0}}},
		{"unknown item", validOrder(), []LineInput{{ItemID: 999, Quantity: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Create(db, tt.in, tt.lines); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestGet_NormalizesEmptyBlob(t *testing.T) {
	db := testDB(t)
	item := seedItem(t, db, 1)

	po, err := Create(db, validOrder(), []LineInput{{ItemID: item.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Blank the blob behind the store's back, as a legacy row would be.
	if err := db.Model(&models.PurchaseOrderLine{}).
		Where("id = ?", po.Lines[0].ID).
		Update("processes", "").Error; err != nil {
		t.Fatalf("blank blob: %v", err)
	}

	got, err := Get(db, po.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Lines[0].Processes != stages.InitialBlob() {
		t.Error("Get should substitute the initial blob for an empty one")
	}
}

func TestGet_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := Get(db, 42); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	db := testDB(t)
	item := seedItem(t, db, 1)

	older := validOrder()
	older.PONumber = "PO-OLD"
	older.OrderDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if _, err := Create(db, older, []LineInput{{ItemID: item.ID, Quantity: 1}}); err != nil {
		t.Fatalf("Create older: %v", err)
	}
	newer := validOrder()
	newer.PONumber = "PO-NEW"
	newer.OrderDate = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	if _, err := Create(db, newer, nil); err != nil {
		t.Fatalf("Create newer: %v", err)
	}

	pos, err := List(db)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pos) != 2 {
		t.Fatalf("List returned %d orders, want 2", len(pos))
	}
	if pos[0].PONumber != "PO-NEW" || pos[1].PONumber != "PO-OLD" {
		t.Errorf("order = [%s, %s], want newest first", pos[0].PONumber, pos[1].PONumber)
	}
}

func TestUpdate(t *testing.T) {
	db := testDB(t)

	po, err := Create(db, validOrder(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := validOrder()
	in.Remarks = "expedite"
	delivery := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	in.DeliveryDate = &delivery
	updated, err := Update(db, po.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Remarks != "expedite" {
		t.Errorf("Remarks = %q, want expedite", updated.Remarks)
	}
	if updated.DeliveryDate == nil || !updated.DeliveryDate.Equal(delivery) {
		t.Errorf("DeliveryDate = %v, want %v", updated.DeliveryDate, delivery)
	}

	if _, err := Update(db, 999, in); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestAddLine(t *testing.T) {
	db := testDB(t)
	item := seedItem(t, db, 1)

	po, err := Create(db, validOrder(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	line, err := AddLine(db, po.ID, LineInput{ItemID: item.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if line.Processes != stages.InitialBlob() {
		t.Error("added line should start with a fresh stage blob")
	}

	if _, err := AddLine(db, 999, LineInput{ItemID: item.ID, Quantity: 1}); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestUpdateLine(t *testing.T) {
	db := testDB(t)
	item := seedItem(t, db, 1)

	po, err := Create(db, validOrder(), []LineInput{{ItemID: item.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	lineID := po.Lines[0].ID

	updated, err := UpdateLine(db, lineID, LineUpdate{Quantity: intPtr(5), PriceOverride: flPtr(75)})
	if err != nil {
		t.Fatalf("UpdateLine: %v", err)
	}
	if updated.Quantity != 5 {
		t.Errorf("Quantity = %d, want 5", updated.Quantity)
	}
	if updated.PriceOverride == nil || *updated.PriceOverride != 75 {
		t.Errorf("PriceOverride = %v, want 75", updated.PriceOverride)
	}

	// Nil fields leave stored values alone.
	same, err := UpdateLine(db, lineID, LineUpdate{})
	if err != nil {
		t.Fatalf("UpdateLine no-op: %v", err)
	}
	if same.Quantity != 5 {
		t.Errorf("no-op changed quantity to %d", same.Quantity)
	}

	if _, err := UpdateLine(db, lineID, LineUpdate{Quantity: intPtr(0)}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := UpdateLine(db, 999, LineUpdate{}); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("err = %v, want ErrLineNotFound", err)
	}
}

func TestDeleteLine(t *testing.T) {
	db := testDB(t)
	item := seedItem(t, db, 1)

	po, err := Create(db, validOrder(), []LineInput{{ItemID: item.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := DeleteLine(db, po.Lines[0].ID); err != nil {
		t.Fatalf("DeleteLine: %v", err)
	}
	got, err := Get(db, po.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Lines) != 0 {
		t.Errorf("lines after delete = %d, want 0", len(got.Lines))
	}

	if err := DeleteLine(db, 999); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("err = %v, want ErrLineNotFound", err)
	}
}

func TestResetLineStages(t *testing.T) {
	db := testDB(t)
	item := seedItem(t, db, 1)

	po, err := Create(db, validOrder(), []LineInput{{ItemID: item.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	lineID := po.Lines[0].ID

	// An empty stored blob is replaced with the initial array.
	if err := db.Model(&models.PurchaseOrderLine{}).
		Where("id = ?", lineID).Update("processes", "").Error; err != nil {
		t.Fatalf("blank blob: %v", err)
	}
	line, err := ResetLineStages(db, lineID)
	if err != nil {
		t.Fatalf("ResetLineStages: %v", err)
	}
	if line.Processes != stages.InitialBlob() {
		t.Error("empty blob should be replaced with the initial array")
	}

	// A populated blob is kept verbatim.
	recs := stages.Initialize()
	recs[0].Completed = true
	blob, err := stages.Marshal(recs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := db.Model(&models.PurchaseOrderLine{}).
		Where("id = ?", lineID).Update("processes", blob).Error; err != nil {
		t.Fatalf("store blob: %v", err)
	}
	line, err = ResetLineStages(db, lineID)
	if err != nil {
		t.Fatalf("ResetLineStages: %v", err)
	}
	if line.Processes != blob {
		t.Error("populated blob should be kept verbatim")
	}
}
