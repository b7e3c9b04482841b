// Package dashboard derives aggregate metrics from the current stage state
// of every purchase-order line. Metrics are recomputed on each request;
// nothing is cached.
package dashboard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/procureflow/procureflow/internal/models"
	"github.com/procureflow/procureflow/internal/stages"
	"gorm.io/gorm"
)

// MonthWeight is one dispatched-weight bucket keyed by YYYY-MM.
type MonthWeight struct {
	Month  string  `json:"month"`
	Weight float64 `json:"weight"`
}

// Stats holds the dashboard metrics.
type Stats struct {
	OldestPendingDate       *time.Time    `json:"oldestPendingDate"`
	PendingItemsCount       int           `json:"pendingItemsCount"`
	MonthlyDispatchedWeight []MonthWeight `json:"monthlyDispatchedWeight"`
}

// Compute scans every order line's current stage array. A line counts as
// dispatched when its final stage is complete; malformed stage blobs are
// read as freshly initialized arrays, so they count as pending rather than
// erroring.
func Compute(db *gorm.DB) (*Stats, error) {
	var orders []models.PurchaseOrder
	if err := db.Preload("Lines").Preload("Lines.Item").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("dashboard: load orders: %w", err)
	}

	stats := &Stats{MonthlyDispatchedWeight: []MonthWeight{}}
	buckets := make(map[string]float64)

	for _, po := range orders {
		orderPending := false
		for _, line := range po.Lines {
			recs := stages.Parse(line.Processes)
			if !stages.Dispatched(recs) {
				stats.PendingItemsCount++
				orderPending = true
				continue
			}

			var weight float64
			if line.Item.Weight != nil {
				weight = *line.Item.Weight
			}
			when := po.OrderDate
			if po.DeliveryDate != nil {
				when = *po.DeliveryDate
			}
			buckets[when.Format("2006-01")] += weight * float64(line.Quantity)
		}

		if orderPending {
			orderDate := po.OrderDate
			if stats.OldestPendingDate == nil || orderDate.Before(*stats.OldestPendingDate) {
				stats.OldestPendingDate = &orderDate
			}
		}
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		stats.MonthlyDispatchedWeight = append(stats.MonthlyDispatchedWeight, MonthWeight{
			Month:  m,
			Weight: math.Round(buckets[m]*100) / 100,
		})
	}

	return stats, nil
}
