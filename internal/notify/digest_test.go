package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/procureflow/procureflow/internal/models"
	"github.com/procureflow/procureflow/internal/stages"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Item{}, &models.PurchaseOrder{}, &models.PurchaseOrderLine{}, &models.ProcessHistory{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// seedOrder creates one order with a single line holding the given blob.
func seedOrder(t *testing.T, db *gorm.DB, blob string) {
	t.Helper()
	w := 2.0
	item := models.Item{MaterialNumber: "MAT-1", VendorName: "OTHER", DrawingNumber: "D-1", ItemName: "Plate", Weight: &w}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	po := models.PurchaseOrder{
		PONumber:   "PO-1",
		VendorName: "OTHER",
		OrderDate:  time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		Lines: []models.PurchaseOrderLine{
			{ItemID: item.ID, Quantity: 3, Processes: blob},
		},
	}
	if err := db.Create(&po).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
}

// dispatchedBlob returns a stage blob with every stage completed.
func dispatchedBlob(t *testing.T) string {
	t.Helper()
	recs := stages.Initialize()
	for i := range recs {
		recs[i].Completed = true
	}
	blob, err := stages.Marshal(recs)
	if err != nil {
		t.Fatalf("marshal blob: %v", err)
	}
	return blob
}

func TestBuildDigest_SuppressedWhenEmpty(t *testing.T) {
	db := testDB(t)

	msg, err := BuildDigest(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != nil {
		t.Errorf("msg = %+v, want nil for empty database", msg)
	}
}

func TestBuildDigest_Pending(t *testing.T) {
	db := testDB(t)
	seedOrder(t, db, stages.InitialBlob())

	msg, err := BuildDigest(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg == nil {
		t.Fatal("msg = nil, want digest with pending work")
	}
	if msg.Color != ColorInfo {
		t.Errorf("Color = %q, want %q", msg.Color, ColorInfo)
	}
	if !strings.Contains(msg.Body, "1 order line(s)") {
		t.Errorf("Body = %q, want pending count", msg.Body)
	}

	var pendingField, oldestField bool
	for _, f := range msg.Fields {
		switch f.Name {
		case "Pending Items":
			pendingField = true
			if f.Value != "1" {
				t.Errorf("Pending Items = %q, want 1", f.Value)
			}
		case "Oldest Pending Order":
			oldestField = true
			if f.Value != "2024-04-01" {
				t.Errorf("Oldest Pending Order = %q, want 2024-04-01", f.Value)
			}
		}
	}
	if !pendingField || !oldestField {
		t.Errorf("fields = %+v, want pending and oldest fields", msg.Fields)
	}
}

func TestBuildDigest_Dispatched(t *testing.T) {
	db := testDB(t)
	seedOrder(t, db, dispatchedBlob(t))

	msg, err := BuildDigest(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg == nil {
		t.Fatal("msg = nil, want digest with dispatched weight")
	}
	if msg.Color != ColorSuccess {
		t.Errorf("Color = %q, want %q", msg.Color, ColorSuccess)
	}
	if msg.Body != "All order lines are dispatched." {
		t.Errorf("Body = %q", msg.Body)
	}

	var weightField string
	for _, f := range msg.Fields {
		if f.Name == "Dispatched Weight by Month" {
			weightField = f.Value
		}
	}
	// 2.0 kg x 3 units, no delivery date so the order date's month is used.
	if !strings.Contains(weightField, "2024-04: 6.00 kg") {
		t.Errorf("weight field = %q, want 2024-04 bucket", weightField)
	}
}

func TestNewScheduler_BadExpression(t *testing.T) {
	if _, err := NewScheduler(testDB(t), nil, "not a cron"); err == nil {
		t.Fatal("expected error for bad cron expression")
	}
}

func TestNewScheduler_FiveFieldExpression(t *testing.T) {
	if _, err := NewScheduler(testDB(t), nil, "0 8 * * *"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 6-field (with seconds) expressions are not accepted.
	if _, err := NewScheduler(testDB(t), nil, "0 0 8 * * *"); err == nil {
		t.Fatal("expected error for 6-field expression")
	}
}
