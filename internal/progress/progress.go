// Package progress owns a purchase-order line's walk through the fixed
// fulfillment stages: it applies one stage mutation at a time and records
// each transition in the history ledger.
package progress

import (
	"errors"
	"fmt"

	"github.com/procureflow/procureflow/internal/history"
	"github.com/procureflow/procureflow/internal/models"
	"github.com/procureflow/procureflow/internal/stages"
	"gorm.io/gorm"
)

var (
	// ErrLineNotFound reports that the referenced order line does not exist.
	ErrLineNotFound = errors.New("progress: order line not found")
	// ErrInvalidStageIndex reports a stage index outside the catalog range.
	ErrInvalidStageIndex = errors.New("progress: invalid stage index")
)

// UpdateOpts carries the optional fields of a stage update. A nil pointer
// leaves that field unchanged on the stage record.
type UpdateOpts struct {
	Remarks   *string
	Completed *bool
}

// UpdateStage mutates one stage record on a line and appends a history
// entry classifying the change. Stages may be completed in any order; no
// gating is applied against earlier stages. The full updated stage array is
// returned for redisplay.
func UpdateStage(db *gorm.DB, lineID uint, stageIndex int, opts UpdateOpts) ([]stages.Record, error) {
	var line models.PurchaseOrderLine
	if err := db.Where("id = ?", lineID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLineNotFound
		}
		return nil, fmt.Errorf("progress: load line %d: %w", lineID, err)
	}

	recs := stages.Parse(line.Processes)
	if stageIndex < 0 || stageIndex >= len(recs) {
		return nil, ErrInvalidStageIndex
	}

	prevRemarks := recs[stageIndex].Remarks
	prevCompleted := recs[stageIndex].Completed

	action := classify(opts, prevRemarks, prevCompleted)

	if opts.Remarks != nil {
		recs[stageIndex].Remarks = *opts.Remarks
	}
	if opts.Completed != nil {
		recs[stageIndex].Completed = *opts.Completed
	}

	blob, err := stages.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("progress: encode stages for line %d: %w", lineID, err)
	}
	if err := db.Model(&models.PurchaseOrderLine{}).
		Where("id = ?", lineID).
		Update("processes", blob).Error; err != nil {
		return nil, fmt.Errorf("progress: save stages for line %d: %w", lineID, err)
	}

	entry := history.Entry{
		LineID:          lineID,
		StageIndex:      stageIndex,
		StageName:       recs[stageIndex].Stage,
		Action:          action,
		Remarks:         nilIfEmpty(opts.Remarks),
		PreviousRemarks: nilIfEmptyStr(prevRemarks),
		Completed:       recs[stageIndex].Completed,
	}
	if _, err := history.Record(db, entry); err != nil {
		// The stage write above already landed; a lost audit row is an
		// accepted inconsistency, but the caller still sees the failure.
		return nil, err
	}

	return recs, nil
}

// classify labels the transition for the ledger. A completed-flag change
// wins over a simultaneous remarks change; an update with no observable
// change is still labeled "updated".
func classify(opts UpdateOpts, prevRemarks string, prevCompleted bool) string {
	if opts.Completed != nil && *opts.Completed != prevCompleted {
		if *opts.Completed {
			return history.ActionCompleted
		}
		return history.ActionUncompleted
	}
	if opts.Remarks != nil && *opts.Remarks != prevRemarks {
		if prevRemarks == "" {
			return history.ActionRemarksAdded
		}
		return history.ActionRemarksUpdated
	}
	return history.ActionUpdated
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func nilIfEmptyStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
