package notify

import (
	"fmt"
	"strings"

	"github.com/procureflow/procureflow/internal/dashboard"
	"gorm.io/gorm"
)

// BuildDigest computes dashboard stats and formats them as a digest
// message. Returns nil when there is nothing to report.
func BuildDigest(db *gorm.DB) (*Message, error) {
	stats, err := dashboard.Compute(db)
	if err != nil {
		return nil, fmt.Errorf("notify: build digest: %w", err)
	}

	// Suppress when there is no pending work and nothing was dispatched.
	if stats.PendingItemsCount == 0 && len(stats.MonthlyDispatchedWeight) == 0 {
		return nil, nil
	}

	return formatDigest(stats), nil
}

// formatDigest renders dashboard stats into a Message.
func formatDigest(stats *dashboard.Stats) *Message {
	msg := &Message{
		Title: "Production Status Digest",
		Color: ColorInfo,
	}
	if stats.PendingItemsCount == 0 {
		msg.Color = ColorSuccess
	}

	msg.Fields = append(msg.Fields, Field{
		Name:  "Pending Items",
		Value: fmt.Sprintf("%d", stats.PendingItemsCount),
		Short: true,
	})
	if stats.OldestPendingDate != nil {
		msg.Fields = append(msg.Fields, Field{
			Name:  "Oldest Pending Order",
			Value: stats.OldestPendingDate.Format("2006-01-02"),
			Short: true,
		})
	}

	if len(stats.MonthlyDispatchedWeight) > 0 {
		var lines []string
		for _, mw := range stats.MonthlyDispatchedWeight {
			lines = append(lines, fmt.Sprintf("%s: %.2f kg", mw.Month, mw.Weight))
		}
		msg.Fields = append(msg.Fields, Field{
			Name:  "Dispatched Weight by Month",
			Value: strings.Join(lines, "\n"),
		})
	}

	if stats.PendingItemsCount == 0 {
		msg.Body = "All order lines are dispatched."
	} else {
		msg.Body = fmt.Sprintf("%d order line(s) still in production.", stats.PendingItemsCount)
	}
	return msg
}
