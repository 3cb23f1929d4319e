package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/timrodina/hostdesk/internal/pricing"
)

// Order is a customer's purchase request, pending until the operator matches
// an out-of-band payment against its number. Everything except IsPaid is
// immutable after creation; TotalAmount is priced once at creation time and
// never re-derived, so historical orders keep the rates they were sold at.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID          uuid.UUID       `bun:"id,pk,type:uuid"`
	Number      string          `bun:"order_number,notnull,unique"`
	Plan        pricing.Plan    `bun:"plan,notnull"`
	WordPress   bool            `bun:"wordpress,notnull"`
	Duration    int             `bun:"duration,notnull"`
	FullName    string          `bun:"full_name,notnull"`
	Email       string          `bun:"email,notnull"`
	TotalAmount decimal.Decimal `bun:"total_amount,notnull,type:numeric(10,2)"`
	IsPaid      bool            `bun:"is_paid,notnull,default:false"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `bun:"updated_at,nullzero"`
}
