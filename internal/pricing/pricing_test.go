package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name      string
		plan      Plan
		wordpress bool
		months    int
		want      int64
	}{
		{"basic one month", PlanBasic, false, 1, 2},
		{"basic with wordpress", PlanBasic, true, 1, 3},
		{"pro three months", PlanPro, false, 3, 9},
		{"pro yearly with wordpress", PlanPro, true, 12, 48},
		{"basic yearly", PlanBasic, false, 12, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTotal(tt.plan, tt.wordpress, tt.months)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s, want %d", got, tt.want)
		})
	}
}

func TestComputeTotal_LinearInDuration(t *testing.T) {
	for _, plan := range []Plan{PlanBasic, PlanPro} {
		for _, wordpress := range []bool{false, true} {
			for n := 1; n <= 24; n++ {
				single, err := ComputeTotal(plan, wordpress, n)
				require.NoError(t, err)
				double, err := ComputeTotal(plan, wordpress, 2*n)
				require.NoError(t, err)
				assert.True(t, double.Equal(single.Mul(decimal.NewFromInt(2))),
					"plan=%s wordpress=%v n=%d", plan, wordpress, n)
			}
		}
	}
}

func TestComputeTotal_InvalidInput(t *testing.T) {
	_, err := ComputeTotal(PlanBasic, false, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ComputeTotal(PlanBasic, true, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ComputeTotal(Plan("enterprise"), false, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParsePlan(t *testing.T) {
	plan, err := ParsePlan("basic")
	require.NoError(t, err)
	assert.Equal(t, PlanBasic, plan)

	plan, err = ParsePlan("pro")
	require.NoError(t, err)
	assert.Equal(t, PlanPro, plan)

	_, err = ParsePlan("premium")
	assert.ErrorIs(t, err, ErrInvalidInput)

	// plan matching is exact, not case-folded
	_, err = ParsePlan("Basic")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalog(t *testing.T) {
	plans := Catalog()
	require.Len(t, plans, 2)
	assert.Equal(t, PlanBasic, plans[0].ID)
	assert.Equal(t, PlanPro, plans[1].ID)
	assert.True(t, plans[0].MonthlyRate.LessThan(plans[1].MonthlyRate))
}
