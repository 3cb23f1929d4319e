package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/timrodina/hostdesk/internal/cache"
	"github.com/timrodina/hostdesk/internal/config"
	"github.com/timrodina/hostdesk/internal/entity"
	"github.com/timrodina/hostdesk/internal/notifier"
	"github.com/timrodina/hostdesk/internal/pricing"
	repo "github.com/timrodina/hostdesk/internal/repository/order"
	"github.com/timrodina/hostdesk/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/timrodina/hostdesk/service/order")

// Repository is the persistence surface the service consumes.
type Repository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByNumber(ctx context.Context, number string) (*entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*entity.Order, error)
}

// Intake is the validated-on-entry order form payload.
type Intake struct {
	FullName  string
	Email     string
	Plan      string
	WordPress bool
	Duration  int
}

// Service encapsulates business logic around orders.
type Service struct {
	repo       Repository
	cache      cache.Store
	cacheTTL   time.Duration
	logger     *zap.Logger
	dispatcher notifier.Dispatcher
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Dispatcher notifier.Dispatcher
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:       p.Repository,
		cache:      p.Cache,
		cacheTTL:   p.Config.Cache.DefaultTTL,
		logger:     p.Logger,
		dispatcher: p.Dispatcher,
	}
}

// Quote recomputes the display total for a not-yet-submitted order. Pure and
// synchronous; the form calls it on every change.
func (s *Service) Quote(planRaw string, wordpress bool, duration int) (decimal.Decimal, error) {
	plan, err := pricing.ParsePlan(planRaw)
	if err != nil {
		return decimal.Zero, errorbank.BadRequest("unknown plan", errorbank.WithField("plan"))
	}
	if duration < 1 {
		return decimal.Zero, errorbank.BadRequest("duration must be at least one month", errorbank.WithField("duration"))
	}

	total, err := pricing.ComputeTotal(plan, wordpress, duration)
	if err != nil {
		// Inputs were validated above, so this is a pricing contract breach.
		return decimal.Zero, errorbank.Internal("pricing failed", errorbank.WithCause(err))
	}
	return total, nil
}

// Place validates the intake, prices it, persists the order, and hands the
// new-order notification to the dispatcher. The insert is all-or-nothing; the
// notification is best-effort and cannot fail the order.
func (s *Service) Place(ctx context.Context, intake Intake) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Place", trace.WithAttributes(
		attribute.String("order.plan", intake.Plan),
	))
	defer span.End()

	if err := validateIntake(intake); err != nil {
		return nil, err
	}
	plan, _ := pricing.ParsePlan(intake.Plan)

	total, err := pricing.ComputeTotal(plan, intake.WordPress, intake.Duration)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pricing contract breach")
		return nil, errorbank.Internal("pricing failed", errorbank.WithCause(err))
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:          uuid.New(),
		Number:      GenerateNumber(now),
		Plan:        plan,
		WordPress:   intake.WordPress,
		Duration:    intake.Duration,
		FullName:    strings.TrimSpace(intake.FullName),
		Email:       strings.TrimSpace(intake.Email),
		TotalAmount: total,
		IsPaid:      false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logCacheFailure("write", order.Number, err)
	}

	// Only after the committed write; the dispatcher owns the failure.
	if s.dispatcher != nil {
		s.dispatcher.DispatchNewOrder(ctx, order)
	}

	s.logger.Info("order placed",
		zap.String("order_number", order.Number),
		zap.String("plan", string(order.Plan)),
		zap.Int("duration", order.Duration),
	)
	return order, nil
}

// GetByNumber looks up an order for the confirmation page, consulting cache
// first.
func (s *Service) GetByNumber(ctx context.Context, number string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.GetByNumber", trace.WithAttributes(attribute.String("order.number", number)))
	defer span.End()

	if order, err := s.getFromCache(ctx, number); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logCacheFailure("read", number, err)
	}

	order, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logCacheFailure("write", number, err)
	}
	return order, nil
}

// GetByID fetches a single order for the dashboard detail view.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.GetByID", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}
	return order, nil
}

// List returns orders newest first, narrowed by the dashboard filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	orders, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return ApplyFilter(orders, filter), nil
}

// Stats derives the dashboard aggregates over all orders.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Stats")
	defer span.End()

	orders, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return Stats{}, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return Summarize(orders), nil
}

// MarkPaid performs the one-way paid transition. On failure nothing changes;
// a repeat attempt conflicts rather than silently succeeding.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.MarkPaid", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	order, err := s.repo.MarkPaid(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, errorbank.NotFound("order not found")
		case errors.Is(err, repo.ErrAlreadyPaid):
			return nil, errorbank.Conflict("order is already paid")
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, "repository error")
			return nil, errorbank.Internal("failed to update order", errorbank.WithCause(err))
		}
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logCacheFailure("write", order.Number, err)
	}

	s.logger.Info("order marked paid", zap.String("order_number", order.Number))
	return order, nil
}

func validateIntake(intake Intake) error {
	if strings.TrimSpace(intake.FullName) == "" {
		return errorbank.BadRequest("full name is required", errorbank.WithField("full_name"))
	}
	email := strings.TrimSpace(intake.Email)
	if email == "" {
		return errorbank.BadRequest("email is required", errorbank.WithField("email"))
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return errorbank.BadRequest("email is not a valid address", errorbank.WithField("email"))
	}
	if _, err := pricing.ParsePlan(intake.Plan); err != nil {
		return errorbank.BadRequest("unknown plan", errorbank.WithField("plan"))
	}
	if intake.Duration < 1 {
		return errorbank.BadRequest("duration must be at least one month", errorbank.WithField("duration"))
	}
	return nil
}

func (s *Service) cacheKey(number string) string {
	return fmt.Sprintf("orders:number:%s", number)
}

func (s *Service) getFromCache(ctx context.Context, number string) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(number))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) error {
	if s.cache == nil || order == nil {
		return nil
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.Number), bytes, s.cacheTTL)
}

func (s *Service) logCacheFailure(op, number string, err error) {
	if s.logger != nil {
		s.logger.Warn("orders cache "+op+" failed", zap.String("order_number", number), zap.Error(err))
	}
}
