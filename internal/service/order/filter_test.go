package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timrodina/hostdesk/internal/entity"
	"github.com/timrodina/hostdesk/internal/pricing"
)

func sampleOrders() []entity.Order {
	return []entity.Order{
		{
			Number:      "ORD-20260810-AAAAAAAA",
			Plan:        pricing.PlanBasic,
			FullName:    "Jana Nováková",
			Email:       "jana@example.com",
			TotalAmount: decimal.RequireFromString("24.00"),
			IsPaid:      true,
		},
		{
			Number:      "ORD-20260815-BBBBBBBB",
			Plan:        pricing.PlanPro,
			FullName:    "Peter Kováč",
			Email:       "peter@example.com",
			TotalAmount: decimal.RequireFromString("48.00"),
			IsPaid:      false,
		},
		{
			Number:      "ORD-20260820-CCCCCCCC",
			Plan:        pricing.PlanPro,
			FullName:    "Anna Petrova",
			Email:       "anna@mail.test",
			TotalAmount: decimal.RequireFromString("12.00"),
			IsPaid:      true,
		},
	}
}

func TestApplyFilterDefaultKeepsEverything(t *testing.T) {
	orders := sampleOrders()

	got := ApplyFilter(orders, Filter{})

	assert.Equal(t, orders, got)
}

func TestApplyFilterByStatus(t *testing.T) {
	orders := sampleOrders()

	paid := ApplyFilter(orders, Filter{Status: StatusPaid})
	require.Len(t, paid, 2)
	for _, o := range paid {
		assert.True(t, o.IsPaid)
	}

	pending := ApplyFilter(orders, Filter{Status: StatusPending})
	require.Len(t, pending, 1)
	assert.Equal(t, "ORD-20260815-BBBBBBBB", pending[0].Number)
}

func TestApplyFilterSearchIsCaseInsensitive(t *testing.T) {
	orders := sampleOrders()

	byName := ApplyFilter(orders, Filter{Search: "JANA"})
	require.Len(t, byName, 1)
	assert.Equal(t, "jana@example.com", byName[0].Email)

	byEmail := ApplyFilter(orders, Filter{Search: "mail.test"})
	require.Len(t, byEmail, 1)
	assert.Equal(t, "Anna Petrova", byEmail[0].FullName)

	byNumber := ApplyFilter(orders, Filter{Search: "ord-20260815"})
	require.Len(t, byNumber, 1)
	assert.Equal(t, "Peter Kováč", byNumber[0].FullName)
}

func TestApplyFilterSearchComposesWithStatus(t *testing.T) {
	orders := sampleOrders()

	// "Pet" matches both Peter (pending) and Petrova (paid); the status
	// filter narrows the hit set further.
	got := ApplyFilter(orders, Filter{Search: "pet", Status: StatusPaid})

	require.Len(t, got, 1)
	assert.Equal(t, "Anna Petrova", got[0].FullName)
}

func TestApplyFilterDoesNotMutateInput(t *testing.T) {
	orders := sampleOrders()
	snapshot := sampleOrders()

	once := ApplyFilter(orders, Filter{Search: "example.com", Status: StatusPending})
	twice := ApplyFilter(orders, Filter{Search: "example.com", Status: StatusPending})

	assert.Equal(t, snapshot, orders)
	assert.Equal(t, once, twice)
}

func TestApplyFilterNoMatches(t *testing.T) {
	got := ApplyFilter(sampleOrders(), Filter{Search: "no such customer"})

	assert.Empty(t, got)
}

func TestSummarize(t *testing.T) {
	stats := Summarize(sampleOrders())

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Paid)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, stats.Total, stats.Paid+stats.Pending)
	// Revenue counts paid orders only: 24 + 12.
	assert.True(t, stats.Revenue.Equal(decimal.RequireFromString("36.00")), stats.Revenue.String())
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)

	assert.Equal(t, Stats{Revenue: decimal.Zero}, stats)
}
