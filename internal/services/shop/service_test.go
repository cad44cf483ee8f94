package shop

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

func (m *mockShopRepo) Create(s *models.Shop) error {
	args := m.Called(s)
	if args.Error(0) == nil && s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return args.Error(0)
}

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

var (
	owner = order.Principal{UserID: 9, Role: models.RoleShopOwner}
	admin = order.Principal{UserID: 1, Role: models.RoleAdmin}
)

func newTestService() (*Service, *mockShopRepo) {
	repo := new(mockShopRepo)
	return NewService(repo, nil, nil), repo
}

func TestRegisterCreatesUnapprovedShop(t *testing.T) {
	svc, repo := newTestService()

	repo.On("FindByOwnerID", uint(9)).Return(nil, repositories.ErrShopNotFound)
	repo.On("Create", mock.AnythingOfType("*models.Shop")).Return(nil)

	shop, err := svc.Register(context.Background(), owner, RegisterRequest{
		Name:     "Campus Print",
		Location: "Library basement",
		Phone:    "0712345678",
	})
	assert.NoError(t, err)
	assert.False(t, shop.IsApproved)
	assert.False(t, shop.IsVerified)
	assert.False(t, shop.IsActive())
	assert.Equal(t, uint(9), shop.OwnerID)
}

func TestRegisterOncePerOwner(t *testing.T) {
	svc, repo := newTestService()

	repo.On("FindByOwnerID", uint(9)).Return(&models.Shop{ID: uuid.New()}, nil)

	_, err := svc.Register(context.Background(), owner, RegisterRequest{Name: "Second Shop"})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegisterRequiresName(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), owner, RegisterRequest{})
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestApproveActivatesShop(t *testing.T) {
	svc, repo := newTestService()
	id := uuid.New()
	shop := &models.Shop{ID: id, Name: "Campus Print"}

	repo.On("FindByID", id).Return(shop, nil)
	repo.On("Update", shop).Return(nil)

	got, err := svc.Approve(context.Background(), admin, id)
	assert.NoError(t, err)
	assert.True(t, got.IsActive())
	assert.True(t, got.IsVerified)
}

func TestApproveRequiresStaff(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Approve(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, ErrStaffRequired)
}

func TestApproveIsNotRepeatable(t *testing.T) {
	svc, repo := newTestService()
	id := uuid.New()
	repo.On("FindByID", id).Return(&models.Shop{ID: id, IsVerified: true, IsApproved: true}, nil)

	_, err := svc.Approve(context.Background(), admin, id)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestRejectRequiresReason(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Reject(context.Background(), admin, uuid.New(), "")
	assert.ErrorIs(t, err, ErrMissingReason)
}

func TestSuspendAndReactivate(t *testing.T) {
	svc, repo := newTestService()
	id := uuid.New()
	shop := &models.Shop{ID: id, IsVerified: true, IsApproved: true}

	repo.On("FindByID", id).Return(shop, nil)
	repo.On("Update", shop).Return(nil)

	got, err := svc.Suspend(context.Background(), admin, id, "repeated quality complaints")
	assert.NoError(t, err)
	assert.False(t, got.IsActive())
	assert.Equal(t, "repeated quality complaints", got.SuspensionReason)

	got, err = svc.Reactivate(context.Background(), admin, id)
	assert.NoError(t, err)
	assert.True(t, got.IsActive())
	assert.Empty(t, got.SuspensionReason)
}

func TestReactivateRequiresSuspension(t *testing.T) {
	svc, repo := newTestService()
	id := uuid.New()
	repo.On("FindByID", id).Return(&models.Shop{ID: id, IsApproved: true}, nil)

	_, err := svc.Reactivate(context.Background(), admin, id)
	assert.ErrorIs(t, err, ErrNotSuspended)
}

func TestUpdatePricesPartial(t *testing.T) {
	svc, repo := newTestService()
	shop := &models.Shop{
		ID:           uuid.New(),
		OwnerID:      9,
		A4BWPrice:    decimal.RequireFromString("1.00"),
		A4ColorPrice: decimal.RequireFromString("5.00"),
	}

	repo.On("FindByOwnerID", uint(9)).Return(shop, nil)
	repo.On("Update", shop).Return(nil)

	newA4 := decimal.RequireFromString("1.50")
	got, err := svc.UpdatePrices(context.Background(), owner, PriceUpdate{A4BW: &newA4})
	assert.NoError(t, err)
	assert.True(t, got.A4BWPrice.Equal(decimal.RequireFromString("1.50")))
	// untouched fields keep their values
	assert.True(t, got.A4ColorPrice.Equal(decimal.RequireFromString("5.00")))
}

func TestUpdatePricesRejectsNegative(t *testing.T) {
	svc, repo := newTestService()
	shop := &models.Shop{ID: uuid.New(), OwnerID: 9}
	repo.On("FindByOwnerID", uint(9)).Return(shop, nil)

	bad := decimal.RequireFromString("-0.50")
	_, err := svc.UpdatePrices(context.Background(), owner, PriceUpdate{A3Color: &bad})
	assert.ErrorIs(t, err, ErrNegativePrice)
	repo.AssertNotCalled(t, "Update", mock.Anything)
}
