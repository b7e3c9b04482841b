package models

import "time"

// ProcessHistory is one append-only audit record of a stage transition on a
// purchase-order line. Rows are never updated or deleted; corrections are
// made by appending a new row.
type ProcessHistory struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	LineID          uint      `gorm:"not null;index" json:"lineId"`
	StageIndex      int       `gorm:"not null" json:"stageIndex"`
	StageName       string    `gorm:"size:64;not null" json:"stageName"`
	Action          string    `gorm:"size:24;not null" json:"action"`
	Remarks         *string   `gorm:"type:text" json:"remarks"`
	PreviousRemarks *string   `gorm:"type:text" json:"previousRemarks"`
	Completed       bool      `gorm:"not null" json:"completed"`
	ChangedAt       time.Time `gorm:"not null;index" json:"changedAt"`
}

// TableName keeps the uncountable table name.
func (ProcessHistory) TableName() string { return "process_history" }
