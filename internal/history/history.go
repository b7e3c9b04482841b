// Package history is the append-only ledger of stage transitions. Every
// successful stage mutation records exactly one entry; entries are never
// updated or deleted.
package history

import (
	"fmt"
	"time"

	"github.com/procureflow/procureflow/internal/models"
	"gorm.io/gorm"
)

// Actions recorded per transition. A completed-flag change takes priority
// over a simultaneous remarks change; a call with no observable change is
// still logged under ActionUpdated.
const (
	ActionCompleted      = "completed"
	ActionUncompleted    = "uncompleted"
	ActionRemarksAdded   = "remarks_added"
	ActionRemarksUpdated = "remarks_updated"
	ActionUpdated        = "updated"
)

// Entry holds the fields recorded for one stage transition. The ledger does
// not validate line existence; it is invoked immediately after a successful
// tracker mutation.
type Entry struct {
	LineID          uint
	StageIndex      int
	StageName       string
	Action          string
	Remarks         *string
	PreviousRemarks *string
	Completed       bool
}

// Record appends one history row with a server-side timestamp and returns
// the stored row.
func Record(db *gorm.DB, e Entry) (*models.ProcessHistory, error) {
	row := models.ProcessHistory{
		LineID:          e.LineID,
		StageIndex:      e.StageIndex,
		StageName:       e.StageName,
		Action:          e.Action,
		Remarks:         e.Remarks,
		PreviousRemarks: e.PreviousRemarks,
		Completed:       e.Completed,
		ChangedAt:       time.Now(),
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("history: record line %d stage %d: %w", e.LineID, e.StageIndex, err)
	}
	return &row, nil
}

// ForLine returns all history entries for one line, newest first.
func ForLine(db *gorm.DB, lineID uint) ([]models.ProcessHistory, error) {
	var rows []models.ProcessHistory
	if err := db.Where("line_id = ?", lineID).
		Order("changed_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("history: list line %d: %w", lineID, err)
	}
	return rows, nil
}

// All returns every history entry, newest first. Detail views join this
// against many lines at once instead of issuing per-line queries.
func All(db *gorm.DB) ([]models.ProcessHistory, error) {
	var rows []models.ProcessHistory
	if err := db.Order("changed_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("history: list all: %w", err)
	}
	return rows, nil
}
