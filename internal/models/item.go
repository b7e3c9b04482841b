package models

import "time"

// VendorOptions is the fixed set of vendors items and orders may reference.
var VendorOptions = []string{
	"RUBBER METSO",
	"SCREEN DEVELOPEMENT METSO",
	"SCREEN REGULAR METSO",
	"SOURCING METSO",
	"LT METSO",
	"AGGREGATE METSO",
	"OTHER",
}

// IsValidVendor reports whether name is one of the fixed vendor options.
func IsValidVendor(name string) bool {
	for _, v := range VendorOptions {
		if v == name {
			return true
		}
	}
	return false
}

// Item is a catalog material item referenced by purchase-order lines.
type Item struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MaterialNumber string    `gorm:"size:64;not null;uniqueIndex" json:"materialNumber"`
	VendorName     string    `gorm:"size:64;not null" json:"vendorName"`
	DrawingNumber  string    `gorm:"size:64;not null" json:"drawingNumber"`
	RevisionNumber string    `gorm:"size:16;default:1.0" json:"revisionNumber"`
	ItemName       string    `gorm:"size:128;not null" json:"itemName"`
	Description    string    `gorm:"type:text" json:"description"`
	SpecialRemarks string    `gorm:"type:text" json:"specialRemarks"`
	Price          float64   `gorm:"not null;default:0" json:"price"`
	Weight         *float64  `json:"weight"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
