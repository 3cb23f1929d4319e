package seeder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/timrodina/hostdesk/internal/database"
	"github.com/timrodina/hostdesk/internal/entity"
	"github.com/timrodina/hostdesk/internal/pricing"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Orders seeds example orders if they are missing. Numbers are fixed so
// re-running the seeder is a no-op.
func (s *Seeder) Orders(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Order{
		{
			ID:          uuid.New(),
			Number:      "ORD-20260801-SEEDAAAA",
			Plan:        pricing.PlanBasic,
			WordPress:   false,
			Duration:    12,
			FullName:    "Jana Nováková",
			Email:       "jana@example.com",
			TotalAmount: decimal.RequireFromString("24.00"),
			IsPaid:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New(),
			Number:      "ORD-20260801-SEEDBBBB",
			Plan:        pricing.PlanPro,
			WordPress:   true,
			Duration:    12,
			FullName:    "Peter Kováč",
			Email:       "peter@example.com",
			TotalAmount: decimal.RequireFromString("48.00"),
			IsPaid:      false,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	for _, sample := range samples {
		order := sample
		_, err := s.db.NewInsert().Model(&order).
			On("CONFLICT (order_number) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded orders", zap.Int("count", len(samples)))
	}
	return nil
}
