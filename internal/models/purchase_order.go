package models

import "time"

// PurchaseOrder is an order placed with a vendor, made up of item lines.
type PurchaseOrder struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	PONumber         string     `gorm:"column:po_number;size:32;not null;index" json:"poNumber"`
	VendorName       string     `gorm:"size:64;not null" json:"vendorName"`
	OrderDate        time.Time  `gorm:"not null" json:"orderDate"`
	DeliveryDate     *time.Time `json:"deliveryDate"`
	Remarks          string     `gorm:"type:text" json:"remarks"`
	ImportantRemarks string     `gorm:"type:text" json:"importantRemarks"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	Lines []PurchaseOrderLine `gorm:"foreignKey:POID" json:"items"`
}

// PurchaseOrderLine is one item row on a purchase order. Its Processes blob
// holds the serialized stage records and is initialized from the stage
// catalog when the line is created; the stage count is fixed for the life
// of the line.
type PurchaseOrderLine struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	POID          uint      `gorm:"column:po_id;not null;index" json:"poId"`
	ItemID        uint      `gorm:"not null;index" json:"itemId"`
	Quantity      int       `gorm:"not null;default:1" json:"quantity"`
	PriceOverride *float64  `json:"priceOverride"`
	Processes     string    `gorm:"type:text" json:"processes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Item Item `gorm:"foreignKey:ItemID" json:"item"`
}
