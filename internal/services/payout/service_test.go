package payout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"printhub/internal/models"
	"printhub/internal/repositories"
	"printhub/internal/services/order"
)

type mockShopRepo struct{ mock.Mock }

func (m *mockShopRepo) Create(s *models.Shop) error { return m.Called(s).Error(0) }

func (m *mockShopRepo) FindByID(id uuid.UUID) (*models.Shop, error) {
	args := m.Called(id)
	if s := args.Get(0); s != nil {
		return s.(*models.Shop), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockShopRepo) FindByOwnerID(ownerID uint) (*models.Shop, error) {
	args := m.Called(ownerID)
	if s := args.Get(0); s != nil {
		return s.(*models.Shop), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockShopRepo) Update(s *models.Shop) error { return m.Called(s).Error(0) }

func (m *mockShopRepo) ListApproved() ([]models.Shop, error) {
	args := m.Called()
	return args.Get(0).([]models.Shop), args.Error(1)
}

func (m *mockShopRepo) ListPendingApproval() ([]models.Shop, error) {
	args := m.Called()
	return args.Get(0).([]models.Shop), args.Error(1)
}

func (m *mockShopRepo) AddToPaidTotal(id uuid.UUID, amount decimal.Decimal) error {
	return m.Called(id, amount).Error(0)
}

func (m *mockShopRepo) AddToEarnings(id uuid.UUID, amount decimal.Decimal) error {
	return m.Called(id, amount).Error(0)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) Create(o *models.Order) error { return m.Called(o).Error(0) }
func (m *mockOrderRepo) Update(o *models.Order) error { return m.Called(o).Error(0) }
func (m *mockOrderRepo) Delete(o *models.Order) error { return m.Called(o).Error(0) }

func (m *mockOrderRepo) FindByID(id uint) (*models.Order, error) {
	args := m.Called(id)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) UpdateLocked(id uint, fn func(*models.Order) error) (*models.Order, error) {
	args := m.Called(id, fn)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) FindReadyByPIN(shopID uuid.UUID, pin string) (*models.Order, error) {
	args := m.Called(shopID, pin)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) ListByCustomer(customerID uint) ([]models.Order, error) {
	args := m.Called(customerID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByPhone(phone string) ([]models.Order, error) {
	args := m.Called(phone)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByShop(shopID uuid.UUID, statuses []string) ([]models.Order, error) {
	args := m.Called(shopID, statuses)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) CompletedTotals(shopID uuid.UUID) (repositories.OrderTotals, error) {
	args := m.Called(shopID)
	return args.Get(0).(repositories.OrderTotals), args.Error(1)
}

type mockRefundRepo struct{ mock.Mock }

func (m *mockRefundRepo) Create(r *models.Refund) error { return m.Called(r).Error(0) }
func (m *mockRefundRepo) Update(r *models.Refund) error { return m.Called(r).Error(0) }

func (m *mockRefundRepo) FindByID(id uint) (*models.Refund, error) {
	args := m.Called(id)
	if r := args.Get(0); r != nil {
		return r.(*models.Refund), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRefundRepo) ListPending() ([]models.Refund, error) {
	args := m.Called()
	return args.Get(0).([]models.Refund), args.Error(1)
}

func (m *mockRefundRepo) SumCompleted() (decimal.Decimal, error) {
	args := m.Called()
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func totals(payout string, count int64) repositories.OrderTotals {
	return repositories.OrderTotals{
		Gross:      dec(payout).Mul(dec("2")),
		Commission: dec(payout),
		ShopPayout: dec(payout),
		Count:      count,
	}
}

func newTestService() (*Service, *mockShopRepo, *mockOrderRepo, *mockRefundRepo) {
	shops := new(mockShopRepo)
	orders := new(mockOrderRepo)
	refunds := new(mockRefundRepo)
	svc := NewService(shops, orders, refunds, nil, nil)
	return svc, shops, orders, refunds
}

var admin = order.Principal{UserID: 1, Role: models.RoleAdmin}

func TestShopBalancePendingIsEarnedMinusPaid(t *testing.T) {
	svc, shops, orders, _ := newTestService()
	id := uuid.New()
	shop := &models.Shop{ID: id, Name: "Campus Print", PaidTotal: dec("200.00")}

	shops.On("FindByID", id).Return(shop, nil)
	orders.On("CompletedTotals", id).Return(repositories.OrderTotals{
		Gross:      dec("588.24"),
		Commission: dec("88.24"),
		ShopPayout: dec("500.00"),
		Count:      12,
	}, nil)

	b, err := svc.ShopBalance(context.Background(), id)
	assert.NoError(t, err)
	assert.True(t, b.Pending.Equal(dec("300.00")), "pending = %s", b.Pending)
	assert.Equal(t, int64(12), b.CompletedOrders)
}

func TestShopBalanceCanGoNegativeAfterOverpayout(t *testing.T) {
	svc, shops, orders, _ := newTestService()
	id := uuid.New()
	shop := &models.Shop{ID: id, PaidTotal: dec("150.00")}

	shops.On("FindByID", id).Return(shop, nil)
	orders.On("CompletedTotals", id).Return(totals("100.00", 3), nil)

	b, err := svc.ShopBalance(context.Background(), id)
	assert.NoError(t, err)
	assert.True(t, b.Pending.Equal(dec("-50.00")))
}

func TestProcessPayoutRejectsNonPositiveAmount(t *testing.T) {
	svc, shops, _, _ := newTestService()
	id := uuid.New()

	for _, amount := range []string{"0", "-10.00"} {
		_, err := svc.ProcessPayout(context.Background(), admin, id, dec(amount))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	shops.AssertNotCalled(t, "AddToPaidTotal", mock.Anything, mock.Anything)
}

func TestProcessPayoutRequiresAdmin(t *testing.T) {
	svc, _, _, _ := newTestService()
	owner := order.Principal{UserID: 9, Role: models.RoleShopOwner}

	_, err := svc.ProcessPayout(context.Background(), owner, uuid.New(), dec("50.00"))
	assert.ErrorIs(t, err, ErrAdminRequired)
}

func TestProcessPayoutIncrementsPaidTotal(t *testing.T) {
	svc, shops, orders, _ := newTestService()
	id := uuid.New()
	before := &models.Shop{ID: id, PaidTotal: dec("200.00")}
	after := &models.Shop{ID: id, PaidTotal: dec("500.00")}

	shops.On("FindByID", id).Return(before, nil).Once()
	shops.On("AddToPaidTotal", id, dec("300.00")).Return(nil)
	shops.On("FindByID", id).Return(after, nil).Once()
	orders.On("CompletedTotals", id).Return(totals("500.00", 10), nil)

	b, err := svc.ProcessPayout(context.Background(), admin, id, dec("300.00"))
	assert.NoError(t, err)
	assert.True(t, b.Pending.IsZero())
	shops.AssertExpectations(t)
}

func TestSetCommissionBounds(t *testing.T) {
	svc, shops, _, _ := newTestService()
	id := uuid.New()
	shop := &models.Shop{ID: id, CommissionRate: dec("15.00")}

	shops.On("FindByID", id).Return(shop, nil)

	for _, rate := range []string{"-1", "100.01"} {
		_, err := svc.SetCommission(context.Background(), admin, id, dec(rate))
		assert.ErrorIs(t, err, ErrInvalidCommissionRate)
	}
	shops.AssertNotCalled(t, "Update", mock.Anything)

	shops.On("Update", shop).Return(nil)
	got, err := svc.SetCommission(context.Background(), admin, id, dec("20"))
	assert.NoError(t, err)
	assert.True(t, got.CommissionRate.Equal(dec("20.00")))
}

func TestPortfolioSummaryFloorsNegativePending(t *testing.T) {
	svc, shops, orders, refunds := newTestService()
	a := models.Shop{ID: uuid.New(), Name: "A", PaidTotal: dec("0.00")}
	b := models.Shop{ID: uuid.New(), Name: "B", PaidTotal: dec("150.00")}

	shops.On("ListApproved").Return([]models.Shop{a, b}, nil)
	orders.On("CompletedTotals", a.ID).Return(totals("120.00", 4), nil)
	// Shop B has been over-paid by 50; its contribution floors at zero.
	orders.On("CompletedTotals", b.ID).Return(totals("100.00", 2), nil)
	refunds.On("SumCompleted").Return(dec("30.00"), nil)

	sum, err := svc.PortfolioSummary(context.Background(), admin)
	assert.NoError(t, err)
	assert.True(t, sum.TotalPending.Equal(dec("120.00")), "pending = %s", sum.TotalPending)
	assert.True(t, sum.Shops[1].Pending.Equal(dec("-50.00")))
	assert.True(t, sum.TotalRefunded.Equal(dec("30.00")))
	assert.True(t, sum.NetPlatformShare.Equal(dec("190.00")))
}
