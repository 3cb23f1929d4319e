package order

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/timrodina/hostdesk/internal/entity"
)

// StatusFilter narrows the dashboard listing by payment state.
type StatusFilter string

const (
	StatusAll     StatusFilter = "all"
	StatusPaid    StatusFilter = "paid"
	StatusPending StatusFilter = "pending"
)

// Filter captures the dashboard's combinable search criteria.
type Filter struct {
	Search string
	Status StatusFilter
}

// ApplyFilter returns the orders matching the filter. The search term is a
// case-insensitive substring match over name, email, and order number; the
// status filter composes with it. The input slice is never mutated, so
// re-applying the same filter is idempotent.
func ApplyFilter(orders []entity.Order, f Filter) []entity.Order {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	status := f.Status
	if status == "" {
		status = StatusAll
	}

	out := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		switch status {
		case StatusPaid:
			if !o.IsPaid {
				continue
			}
		case StatusPending:
			if o.IsPaid {
				continue
			}
		}

		if term != "" &&
			!strings.Contains(strings.ToLower(o.FullName), term) &&
			!strings.Contains(strings.ToLower(o.Email), term) &&
			!strings.Contains(strings.ToLower(o.Number), term) {
			continue
		}

		out = append(out, o)
	}
	return out
}

// Stats are the dashboard's aggregate counters.
type Stats struct {
	Total   int
	Paid    int
	Pending int
	Revenue decimal.Decimal
}

// Summarize derives the aggregate counters from an order set. Revenue counts
// paid orders only.
func Summarize(orders []entity.Order) Stats {
	stats := Stats{Revenue: decimal.Zero}
	for _, o := range orders {
		stats.Total++
		if o.IsPaid {
			stats.Paid++
			stats.Revenue = stats.Revenue.Add(o.TotalAmount)
		} else {
			stats.Pending++
		}
	}
	return stats
}
