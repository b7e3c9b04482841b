package history

import (
	"testing"

	"github.com/procureflow/procureflow/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB creates an in-memory SQLite database with the history table.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.ProcessHistory{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

func TestRecord(t *testing.T) {
	db := testDB(t)

	row, err := Record(db, Entry{
		LineID:     7,
		StageIndex: 2,
		StageName:  "Cutting",
		Action:     ActionCompleted,
		Completed:  true,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if row.ID == 0 {
		t.Error("Record should assign an ID")
	}
	if row.ChangedAt.IsZero() {
		t.Error("Record should assign a server-side timestamp")
	}
	if row.Remarks != nil {
		t.Errorf("Remarks = %v, want nil", *row.Remarks)
	}

	var count int64
	db.Model(&models.ProcessHistory{}).Count(&count)
	if count != 1 {
		t.Errorf("history rows = %d, want 1", count)
	}
}

func TestForLine_NewestFirst(t *testing.T) {
	db := testDB(t)

	actions := []string{ActionCompleted, ActionUncompleted, ActionRemarksAdded}
	for _, a := range actions {
		if _, err := Record(db, Entry{LineID: 1, StageIndex: 0, StageName: "Feasibility", Action: a}); err != nil {
			t.Fatalf("Record(%s): %v", a, err)
		}
	}
	// An unrelated line that must not appear.
	if _, err := Record(db, Entry{LineID: 2, StageIndex: 0, StageName: "Feasibility", Action: ActionUpdated}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	rows, err := ForLine(db, 1)
	if err != nil {
		t.Fatalf("ForLine: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("ForLine returned %d rows, want 3", len(rows))
	}
	// Newest first: reverse insertion order (id tiebreak for equal timestamps).
	want := []string{ActionRemarksAdded, ActionUncompleted, ActionCompleted}
	for i, w := range want {
		if rows[i].Action != w {
			t.Errorf("rows[%d].Action = %q, want %q", i, rows[i].Action, w)
		}
	}
}

func TestAll_NewestFirst(t *testing.T) {
	db := testDB(t)

	for lineID := uint(1); lineID <= 3; lineID++ {
		if _, err := Record(db, Entry{LineID: lineID, StageIndex: 0, StageName: "Feasibility", Action: ActionUpdated}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	rows, err := All(db)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("All returned %d rows, want 3", len(rows))
	}
	if rows[0].LineID != 3 || rows[2].LineID != 1 {
		t.Errorf("All not newest first: line order %d, %d, %d", rows[0].LineID, rows[1].LineID, rows[2].LineID)
	}
}

func TestRecord_PreservesRemarksSnapshot(t *testing.T) {
	db := testDB(t)

	row, err := Record(db, Entry{
		LineID:          5,
		StageIndex:      1,
		StageName:       "Designing",
		Action:          ActionRemarksUpdated,
		Remarks:         strPtr("B"),
		PreviousRemarks: strPtr("A"),
		Completed:       false,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if row.Remarks == nil || *row.Remarks != "B" {
		t.Errorf("Remarks = %v, want B", row.Remarks)
	}
	if row.PreviousRemarks == nil || *row.PreviousRemarks != "A" {
		t.Errorf("PreviousRemarks = %v, want A", row.PreviousRemarks)
	}
}
