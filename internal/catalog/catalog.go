// Package catalog provides material item store operations.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/procureflow/procureflow/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrItemNotFound reports that the referenced item does not exist.
	ErrItemNotFound = errors.New("catalog: item not found")
	// ErrDuplicateMaterialNumber reports a material number collision.
	// Material numbers are compared case-insensitively.
	ErrDuplicateMaterialNumber = errors.New("catalog: material number already exists")
	// ErrInvalidInput reports a validation failure on item fields.
	ErrInvalidInput = errors.New("catalog: invalid item")
)

// ItemInput holds the writable fields of a catalog item.
type ItemInput struct {
	MaterialNumber string   `json:"materialNumber"`
	VendorName     string   `json:"vendorName"`
	DrawingNumber  string   `json:"drawingNumber"`
	RevisionNumber string   `json:"revisionNumber"`
	ItemName       string   `json:"itemName"`
	Description    string   `json:"description"`
	SpecialRemarks string   `json:"specialRemarks"`
	Price          float64  `json:"price"`
	Weight         *float64 `json:"weight"`
}

func (in *ItemInput) validate() error {
	if in.MaterialNumber == "" {
		return fmt.Errorf("%w: material number is required", ErrInvalidInput)
	}
	if in.ItemName == "" {
		return fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	if in.DrawingNumber == "" {
		return fmt.Errorf("%w: drawing number is required", ErrInvalidInput)
	}
	if !models.IsValidVendor(in.VendorName) {
		return fmt.Errorf("%w: unknown vendor %q", ErrInvalidInput, in.VendorName)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}

func (in *ItemInput) applyDefaults() {
	if in.RevisionNumber == "" {
		in.RevisionNumber = "1.0"
	}
}

// Create adds a new catalog item. The material number must be unique
// (case-insensitive).
func Create(db *gorm.DB, in ItemInput) (*models.Item, error) {
	in.applyDefaults()
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := GetByMaterialNumber(db, in.MaterialNumber); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateMaterialNumber, in.MaterialNumber)
	} else if !errors.Is(err, ErrItemNotFound) {
		return nil, err
	}

	item := models.Item{
		MaterialNumber: in.MaterialNumber,
		VendorName:     in.VendorName,
		DrawingNumber:  in.DrawingNumber,
		RevisionNumber: in.RevisionNumber,
		ItemName:       in.ItemName,
		Description:    in.Description,
		SpecialRemarks: in.SpecialRemarks,
		Price:          in.Price,
		Weight:         in.Weight,
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("catalog: create item %s: %w", in.MaterialNumber, err)
	}
	return &item, nil
}

// Update rewrites an existing item's fields. When the material number
// changes, the new value must not collide with another item.
func Update(db *gorm.DB, id uint, in ItemInput) (*models.Item, error) {
	in.applyDefaults()
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(existing.MaterialNumber, in.MaterialNumber) {
		if _, err := GetByMaterialNumber(db, in.MaterialNumber); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMaterialNumber, in.MaterialNumber)
		} else if !errors.Is(err, ErrItemNotFound) {
			return nil, err
		}
	}

	existing.MaterialNumber = in.MaterialNumber
	existing.VendorName = in.VendorName
	existing.DrawingNumber = in.DrawingNumber
	existing.RevisionNumber = in.RevisionNumber
	existing.ItemName = in.ItemName
	existing.Description = in.Description
	existing.SpecialRemarks = in.SpecialRemarks
	existing.Price = in.Price
	existing.Weight = in.Weight

	if err := db.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("catalog: update item %d: %w", id, err)
	}
	return existing, nil
}

// Get returns one item by ID.
func Get(db *gorm.DB, id uint) (*models.Item, error) {
	var item models.Item
	if err := db.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("catalog: load item %d: %w", id, err)
	}
	return &item, nil
}

// GetByMaterialNumber returns one item by material number, compared
// case-insensitively.
func GetByMaterialNumber(db *gorm.DB, materialNumber string) (*models.Item, error) {
	var item models.Item
	if err := db.Where("LOWER(material_number) = LOWER(?)", materialNumber).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("catalog: load item %s: %w", materialNumber, err)
	}
	return &item, nil
}

// List returns all items ordered by material number.
func List(db *gorm.DB) ([]models.Item, error) {
	var items []models.Item
	if err := db.Order("material_number ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("catalog: list items: %w", err)
	}
	return items, nil
}
