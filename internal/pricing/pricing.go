// Package pricing computes upfront order totals for hosting plans.
//
// Totals are exact decimal amounts in EUR. Monthly base rates are fixed per
// plan; the WordPress add-on stacks a flat surcharge on top of either plan.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Plan identifies a hosting tier with a fixed monthly base rate.
type Plan string

const (
	PlanBasic Plan = "basic"
	PlanPro   Plan = "pro"
)

// ErrInvalidInput reports an unrecognized plan or a non-positive duration.
// Intake validation runs first, so seeing this error in a request path means
// a caller has violated the engine's contract.
var ErrInvalidInput = errors.New("pricing: invalid input")

var (
	rateBasic        = decimal.NewFromInt(2)
	ratePro          = decimal.NewFromInt(3)
	wordpressMonthly = decimal.NewFromInt(1)
)

// ParsePlan validates a raw plan string.
func ParsePlan(raw string) (Plan, error) {
	switch Plan(raw) {
	case PlanBasic, PlanPro:
		return Plan(raw), nil
	default:
		return "", fmt.Errorf("%w: unknown plan %q", ErrInvalidInput, raw)
	}
}

// MonthlyRate returns the base monthly rate for a plan.
func MonthlyRate(plan Plan) (decimal.Decimal, error) {
	switch plan {
	case PlanBasic:
		return rateBasic, nil
	case PlanPro:
		return ratePro, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown plan %q", ErrInvalidInput, plan)
	}
}

// ComputeTotal returns the upfront amount for months of the given plan,
// optionally with the WordPress add-on. The result is exact:
// (baseRate + addon) * months with no floating-point rounding.
func ComputeTotal(plan Plan, wordpress bool, months int) (decimal.Decimal, error) {
	if months <= 0 {
		return decimal.Zero, fmt.Errorf("%w: duration must be a positive number of months, got %d", ErrInvalidInput, months)
	}

	monthly, err := MonthlyRate(plan)
	if err != nil {
		return decimal.Zero, err
	}
	if wordpress {
		monthly = monthly.Add(wordpressMonthly)
	}

	return monthly.Mul(decimal.NewFromInt(int64(months))), nil
}

// PlanInfo describes a plan as presented on the landing page.
type PlanInfo struct {
	ID          Plan            `json:"id"`
	Name        string          `json:"name"`
	MonthlyRate decimal.Decimal `json:"monthly_rate"`
	Features    []string        `json:"features"`
}

// Catalog lists the plans offered to customers, cheapest first.
func Catalog() []PlanInfo {
	return []PlanInfo{
		{
			ID:          PlanBasic,
			Name:        "Webhosting",
			MonthlyRate: rateBasic,
			Features:    []string{"1 GB SSD storage", "Basic support"},
		},
		{
			ID:          PlanPro,
			Name:        "Pro",
			MonthlyRate: ratePro,
			Features:    []string{"3 GB SSD storage", "Priority support", "Custom domain connection"},
		},
	}
}

// WordPressRate returns the flat monthly surcharge for the WordPress add-on.
func WordPressRate() decimal.Decimal {
	return wordpressMonthly
}
