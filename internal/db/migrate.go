package db

import (
	"fmt"
	"time"

	"github.com/procureflow/procureflow/internal/models"
	"github.com/procureflow/procureflow/internal/stages"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Item{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderLine{},
		&models.ProcessHistory{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// Seed upserts a small set of demo items and one purchase order so a fresh
// install has something to look at. Safe to run repeatedly.
func Seed(db *gorm.DB) error {
	weight := func(w float64) *float64 { return &w }
	items := []models.Item{
		{
			MaterialNumber: "MAT-1001",
			VendorName:     "OTHER",
			DrawingNumber:  "DRW-1001",
			ItemName:       "Mounting Bracket",
			RevisionNumber: "1.0",
			Price:          125.50,
			Weight:         weight(2.4),
		},
		{
			MaterialNumber: "MAT-1002",
			VendorName:     "OTHER",
			DrawingNumber:  "DRW-1002",
			ItemName:       "Base Plate",
			RevisionNumber: "1.0",
			Price:          310.00,
			Weight:         weight(8.75),
		},
	}
	for i := range items {
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "material_number"}},
			DoNothing: true,
		}).Create(&items[i])
		if result.Error != nil {
			return fmt.Errorf("db: seed item %s: %w", items[i].MaterialNumber, result.Error)
		}
	}

	var count int64
	if err := db.Model(&models.PurchaseOrder{}).Count(&count).Error; err != nil {
		return fmt.Errorf("db: count purchase orders: %w", err)
	}
	if count > 0 {
		return nil
	}

	var seeded []models.Item
	if err := db.Order("material_number ASC").Limit(2).Find(&seeded).Error; err != nil {
		return fmt.Errorf("db: load seed items: %w", err)
	}
	if len(seeded) < 2 {
		return nil
	}

	po := models.PurchaseOrder{
		PONumber:   "PO-2024-001",
		VendorName: "OTHER",
		OrderDate:  time.Now().AddDate(0, 0, -7),
		Lines: []models.PurchaseOrderLine{
			{ItemID: seeded[0].ID, Quantity: 4, Processes: stages.InitialBlob()},
			{ItemID: seeded[1].ID, Quantity: 2, Processes: stages.InitialBlob()},
		},
	}
	if err := db.Create(&po).Error; err != nil {
		return fmt.Errorf("db: seed purchase order: %w", err)
	}
	return nil
}
