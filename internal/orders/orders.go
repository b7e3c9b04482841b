// Package orders provides purchase-order store operations. Each order owns
// its lines; a line's stage array is initialized from the stage catalog
// when the line is created and its length never changes afterwards.
package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/procureflow/procureflow/internal/catalog"
	"github.com/procureflow/procureflow/internal/models"
	"github.com/procureflow/procureflow/internal/stages"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound reports that the referenced purchase order does not exist.
	ErrOrderNotFound = errors.New("orders: purchase order not found")
	// ErrLineNotFound reports that the referenced order line does not exist.
	ErrLineNotFound = errors.New("orders: order line not found")
	// ErrInvalidInput reports a validation failure on order fields.
	ErrInvalidInput = errors.New("orders: invalid purchase order")
)

// OrderInput holds the writable fields of a purchase order.
type OrderInput struct {
	PONumber         string     `json:"poNumber"`
	VendorName       string     `json:"vendorName"`
	OrderDate        time.Time  `json:"orderDate"`
	DeliveryDate     *time.Time `json:"deliveryDate"`
	Remarks          string     `json:"remarks"`
	ImportantRemarks string     `json:"importantRemarks"`
}

// LineInput holds the fields for adding a line to an order.
type LineInput struct {
	ItemID        uint     `json:"itemId"`
	Quantity      int      `json:"quantity"`
	PriceOverride *float64 `json:"priceOverride"`
}

// LineUpdate carries optional line fields; nil pointers leave the stored
// value unchanged.
type LineUpdate struct {
	Quantity      *int     `json:"quantity"`
	PriceOverride *float64 `json:"priceOverride"`
}

func (in *OrderInput) validate() error {
	if in.PONumber == "" {
		return fmt.Errorf("%w: PO number is required", ErrInvalidInput)
	}
	if !models.IsValidVendor(in.VendorName) {
		return fmt.Errorf("%w: unknown vendor %q", ErrInvalidInput, in.VendorName)
	}
	if in.OrderDate.IsZero() {
		return fmt.Errorf("%w: order date is required", ErrInvalidInput)
	}
	return nil
}

func (in *LineInput) validate(db *gorm.DB) error {
	if in.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if _, err := catalog.Get(db, in.ItemID); err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			return fmt.Errorf("%w: item %d does not exist", ErrInvalidInput, in.ItemID)
		}
		return err
	}
	return nil
}

// Create inserts a purchase order together with its lines. Every line gets
// a freshly initialized stage blob.
func Create(db *gorm.DB, in OrderInput, lines []LineInput) (*models.PurchaseOrder, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	for _, li := range lines {
		if err := li.validate(db); err != nil {
			return nil, err
		}
	}

	po := models.PurchaseOrder{
		PONumber:         in.PONumber,
		VendorName:       in.VendorName,
		OrderDate:        in.OrderDate,
		DeliveryDate:     in.DeliveryDate,
		Remarks:          in.Remarks,
		ImportantRemarks: in.ImportantRemarks,
	}
	if err := db.Create(&po).Error; err != nil {
		return nil, fmt.Errorf("orders: create %s: %w", in.PONumber, err)
	}

	for _, li := range lines {
		line := models.PurchaseOrderLine{
			POID:          po.ID,
			ItemID:        li.ItemID,
			Quantity:      li.Quantity,
			PriceOverride: li.PriceOverride,
			Processes:     stages.InitialBlob(),
		}
		if err := db.Create(&line).Error; err != nil {
			return nil, fmt.Errorf("orders: create line for %s: %w", in.PONumber, err)
		}
	}

	return Get(db, po.ID)
}

// Get returns one order with its lines and item details. Line stage blobs
// are normalized on the way out so callers always see a well-formed array.
func Get(db *gorm.DB, id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := db.Preload("Lines").Preload("Lines.Item").
		Where("id = ?", id).First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("orders: load %d: %w", id, err)
	}
	normalizeLines(po.Lines)
	return &po, nil
}

// List returns all orders with lines and item details, newest first.
func List(db *gorm.DB) ([]models.PurchaseOrder, error) {
	var pos []models.PurchaseOrder
	if err := db.Preload("Lines").Preload("Lines.Item").
		Order("order_date DESC, id DESC").Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	for i := range pos {
		normalizeLines(pos[i].Lines)
	}
	return pos, nil
}

// Update rewrites an order's own fields. Lines are managed separately.
func Update(db *gorm.DB, id uint, in OrderInput) (*models.PurchaseOrder, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	res := db.Model(&models.PurchaseOrder{}).Where("id = ?", id).Updates(map[string]interface{}{
		"po_number":         in.PONumber,
		"vendor_name":       in.VendorName,
		"order_date":        in.OrderDate,
		"delivery_date":     in.DeliveryDate,
		"remarks":           in.Remarks,
		"important_remarks": in.ImportantRemarks,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("orders: update %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrOrderNotFound
	}
	return Get(db, id)
}

// AddLine appends a line to an existing order with a fresh stage blob.
func AddLine(db *gorm.DB, poID uint, in LineInput) (*models.PurchaseOrderLine, error) {
	if _, err := Get(db, poID); err != nil {
		return nil, err
	}
	if err := in.validate(db); err != nil {
		return nil, err
	}

	line := models.PurchaseOrderLine{
		POID:          poID,
		ItemID:        in.ItemID,
		Quantity:      in.Quantity,
		PriceOverride: in.PriceOverride,
		Processes:     stages.InitialBlob(),
	}
	if err := db.Create(&line).Error; err != nil {
		return nil, fmt.Errorf("orders: add line to %d: %w", poID, err)
	}
	return &line, nil
}

// UpdateLine applies the supplied quantity and price override to a line.
func UpdateLine(db *gorm.DB, lineID uint, in LineUpdate) (*models.PurchaseOrderLine, error) {
	line, err := getLine(db, lineID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Quantity != nil {
		if *in.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
		}
		updates["quantity"] = *in.Quantity
	}
	if in.PriceOverride != nil {
		updates["price_override"] = *in.PriceOverride
	}
	if len(updates) == 0 {
		return line, nil
	}

	if err := db.Model(&models.PurchaseOrderLine{}).Where("id = ?", lineID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("orders: update line %d: %w", lineID, err)
	}
	return getLine(db, lineID)
}

// DeleteLine removes a line from its order. History rows for the line are
// kept; the ledger is append-only.
func DeleteLine(db *gorm.DB, lineID uint) error {
	res := db.Where("id = ?", lineID).Delete(&models.PurchaseOrderLine{})
	if res.Error != nil {
		return fmt.Errorf("orders: delete line %d: %w", lineID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLineNotFound
	}
	return nil
}

// ResetLineStages rewrites a line's stage blob with its normalized form,
// substituting a fresh array when the stored value is empty.
func ResetLineStages(db *gorm.DB, lineID uint) (*models.PurchaseOrderLine, error) {
	line, err := getLine(db, lineID)
	if err != nil {
		return nil, err
	}
	blob := stages.Normalize(line.Processes)
	if err := db.Model(&models.PurchaseOrderLine{}).Where("id = ?", lineID).
		Update("processes", blob).Error; err != nil {
		return nil, fmt.Errorf("orders: reset stages for line %d: %w", lineID, err)
	}
	line.Processes = blob
	return line, nil
}

func getLine(db *gorm.DB, lineID uint) (*models.PurchaseOrderLine, error) {
	var line models.PurchaseOrderLine
	if err := db.Preload("Item").Where("id = ?", lineID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLineNotFound
		}
		return nil, fmt.Errorf("orders: load line %d: %w", lineID, err)
	}
	return &line, nil
}

func normalizeLines(lines []models.PurchaseOrderLine) {
	for i := range lines {
		lines[i].Processes = stages.Normalize(lines[i].Processes)
	}
}
