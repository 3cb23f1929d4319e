package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/timrodina/hostdesk/internal/entity"
	"github.com/timrodina/hostdesk/internal/pricing"
	repo "github.com/timrodina/hostdesk/internal/repository/order"
	"github.com/timrodina/hostdesk/pkg/errorbank"
)

type fakeRepository struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*entity.Order
	createErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{orders: make(map[uuid.UUID]*entity.Order)}
}

func (f *fakeRepository) Create(_ context.Context, order *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeRepository) GetByNumber(_ context.Context, number string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, order := range f.orders {
		if order.Number == number {
			clone := *order
			return &clone, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepository) List(_ context.Context) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Order, 0, len(f.orders))
	for _, order := range f.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (f *fakeRepository) MarkPaid(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if order.IsPaid {
		return nil, repo.ErrAlreadyPaid
	}
	order.IsPaid = true
	clone := *order
	return &clone, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	orders []*entity.Order
}

func (d *recordingDispatcher) DispatchNewOrder(_ context.Context, order *entity.Order) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.orders = append(d.orders, order)
}

func newTestService(r Repository, d *recordingDispatcher) *Service {
	svc := &Service{
		repo:   r,
		logger: zap.NewNop(),
	}
	if d != nil {
		svc.dispatcher = d
	}
	return svc
}

func validIntake() Intake {
	return Intake{
		FullName:  "Jana Nováková",
		Email:     "jana@example.com",
		Plan:      "pro",
		WordPress: true,
		Duration:  12,
	}
}

func TestQuote(t *testing.T) {
	svc := newTestService(newFakeRepository(), nil)

	total, err := svc.Quote("pro", true, 12)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("48")), total.String())

	total, err = svc.Quote("basic", false, 1)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("2")), total.String())
}

func TestQuoteRejectsBadInput(t *testing.T) {
	svc := newTestService(newFakeRepository(), nil)

	_, err := svc.Quote("enterprise", false, 12)
	assertFieldError(t, err, "plan")

	_, err = svc.Quote("pro", false, 0)
	assertFieldError(t, err, "duration")
}

func TestPlace(t *testing.T) {
	fake := newFakeRepository()
	dispatcher := &recordingDispatcher{}
	svc := newTestService(fake, dispatcher)

	order, err := svc.Place(context.Background(), validIntake())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.NotEmpty(t, order.Number)
	assert.Equal(t, pricing.PlanPro, order.Plan)
	assert.True(t, order.WordPress)
	assert.Equal(t, 12, order.Duration)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("48")), order.TotalAmount.String())
	assert.False(t, order.IsPaid)

	stored, err := fake.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Number, stored.Number)

	require.Len(t, dispatcher.orders, 1)
	assert.Equal(t, order.Number, dispatcher.orders[0].Number)
}

func TestPlaceTrimsNameAndEmail(t *testing.T) {
	svc := newTestService(newFakeRepository(), nil)

	intake := validIntake()
	intake.FullName = "  Jana Nováková  "
	intake.Email = " jana@example.com "

	order, err := svc.Place(context.Background(), intake)
	require.NoError(t, err)
	assert.Equal(t, "Jana Nováková", order.FullName)
	assert.Equal(t, "jana@example.com", order.Email)
}

func TestPlaceValidation(t *testing.T) {
	svc := newTestService(newFakeRepository(), nil)

	cases := []struct {
		name   string
		mutate func(*Intake)
		field  string
	}{
		{"missing name", func(i *Intake) { i.FullName = "   " }, "full_name"},
		{"missing email", func(i *Intake) { i.Email = "" }, "email"},
		{"malformed email", func(i *Intake) { i.Email = "not-an-address" }, "email"},
		{"email with display name", func(i *Intake) { i.Email = "Jana <jana@example.com>" }, "email"},
		{"unknown plan", func(i *Intake) { i.Plan = "enterprise" }, "plan"},
		{"zero duration", func(i *Intake) { i.Duration = 0 }, "duration"},
		{"negative duration", func(i *Intake) { i.Duration = -3 }, "duration"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			intake := validIntake()
			tc.mutate(&intake)

			_, err := svc.Place(context.Background(), intake)
			assertFieldError(t, err, tc.field)
		})
	}
}

func TestPlaceRepositoryFailureCreatesNothing(t *testing.T) {
	fake := newFakeRepository()
	fake.createErr = errors.New("connection reset")
	dispatcher := &recordingDispatcher{}
	svc := newTestService(fake, dispatcher)

	_, err := svc.Place(context.Background(), validIntake())

	var appErr *errorbank.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errorbank.KindInternal, appErr.Kind())
	assert.Empty(t, fake.orders, "failed placement must not leave an order behind")
	assert.Empty(t, dispatcher.orders, "failed placement must not notify")
}

func TestGetByNumber(t *testing.T) {
	fake := newFakeRepository()
	svc := newTestService(fake, nil)

	placed, err := svc.Place(context.Background(), validIntake())
	require.NoError(t, err)

	found, err := svc.GetByNumber(context.Background(), placed.Number)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, found.ID)

	_, err = svc.GetByNumber(context.Background(), "ORD-20260101-ZZZZZZZZ")
	assertKind(t, err, errorbank.KindNotFound)
}

func TestMarkPaidIsOneWay(t *testing.T) {
	fake := newFakeRepository()
	svc := newTestService(fake, nil)

	placed, err := svc.Place(context.Background(), validIntake())
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	_, err = svc.MarkPaid(context.Background(), placed.ID)
	assertKind(t, err, errorbank.KindConflict)

	// The failed repeat leaves the order paid.
	current, err := svc.GetByID(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.True(t, current.IsPaid)
}

func TestMarkPaidUnknownOrder(t *testing.T) {
	svc := newTestService(newFakeRepository(), nil)

	_, err := svc.MarkPaid(context.Background(), uuid.New())
	assertKind(t, err, errorbank.KindNotFound)
}

func TestListAppliesFilter(t *testing.T) {
	fake := newFakeRepository()
	svc := newTestService(fake, nil)

	first, err := svc.Place(context.Background(), validIntake())
	require.NoError(t, err)

	second := validIntake()
	second.FullName = "Peter Kováč"
	second.Email = "peter@example.com"
	placed, err := svc.Place(context.Background(), second)
	require.NoError(t, err)

	_, err = svc.MarkPaid(context.Background(), placed.ID)
	require.NoError(t, err)

	pending, err := svc.List(context.Background(), Filter{Status: StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.Number, pending[0].Number)

	matched, err := svc.List(context.Background(), Filter{Search: "peter"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, placed.Number, matched[0].Number)
}

func TestStats(t *testing.T) {
	fake := newFakeRepository()
	svc := newTestService(fake, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Place(context.Background(), validIntake())
		require.NoError(t, err)
	}
	orders, err := svc.List(context.Background(), Filter{})
	require.NoError(t, err)
	_, err = svc.MarkPaid(context.Background(), orders[0].ID)
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Paid)
	assert.Equal(t, 2, stats.Pending)
	assert.True(t, stats.Revenue.Equal(decimal.RequireFromString("48")), stats.Revenue.String())
}

func assertKind(t *testing.T, err error, kind errorbank.Kind) {
	t.Helper()
	var appErr *errorbank.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, kind, appErr.Kind())
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var appErr *errorbank.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
	assert.Equal(t, field, appErr.Details()["field"])
}
