package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"printhub/internal/models"
	"printhub/internal/repositories"
)

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) Create(o *models.Order) error {
	args := m.Called(o)
	if args.Error(0) == nil {
		o.ID = 1
	}
	return args.Error(0)
}

func (m *mockOrderRepo) FindByID(id uint) (*models.Order, error) {
	args := m.Called(id)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) Update(o *models.Order) error { return m.Called(o).Error(0) }
func (m *mockOrderRepo) Delete(o *models.Order) error { return m.Called(o).Error(0) }

// UpdateLocked applies fn to the stubbed order, mirroring the real
// transaction: fn errors abort with no result.
func (m *mockOrderRepo) UpdateLocked(id uint, fn func(*models.Order) error) (*models.Order, error) {
	args := m.Called(id, fn)
	if o := args.Get(0); o != nil {
		ord := o.(*models.Order)
		if err := fn(ord); err != nil {
			return nil, err
		}
		return ord, args.Error(1)
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

type mockFileRepo struct{ mock.Mock }

func (m *mockFileRepo) Create(f *models.OrderFile) error { return m.Called(f).Error(0) }
func (m *mockFileRepo) Update(f *models.OrderFile) error { return m.Called(f).Error(0) }
func (m *mockFileRepo) Delete(id uint) error             { return m.Called(id).Error(0) }

func (m *mockFileRepo) FindByID(id uint) (*models.OrderFile, error) {
	args := m.Called(id)
	if f := args.Get(0); f != nil {
		return f.(*models.OrderFile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileRepo) FindByOrderID(orderID uint) ([]models.OrderFile, error) {
	args := m.Called(orderID)
	return args.Get(0).([]models.OrderFile), args.Error(1)
}

func (m *mockFileRepo) CountByOrderID(orderID uint) (int64, error) {
	args := m.Called(orderID)
	return args.Get(0).(int64), args.Error(1)
}

type mockShopRepo struct{ mock.Mock }

func (m *mockShopRepo) Create(s *models.Shop) error { return m.Called(s).Error(0) }
func (m *mockShopRepo) Update(s *models.Shop) error { return m.Called(s).Error(0) }

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

// fixedPageCounter avoids parsing real PDFs in unit tests.
type fixedPageCounter struct{ pages int }

func (f fixedPageCounter) PageCount(fileName string, content []byte) int { return f.pages }

type deps struct {
	orders  *mockOrderRepo
	files   *mockFileRepo
	shops   *mockShopRepo
	refunds *mockRefundRepo
}

func newTestService(pages int) (*Service, *deps) {
	d := &deps{
		orders:  new(mockOrderRepo),
		files:   new(mockFileRepo),
		shops:   new(mockShopRepo),
		refunds: new(mockRefundRepo),
	}
	svc := NewService(d.orders, d.files, d.shops, d.refunds,
		fixedPageCounter{pages: pages}, nil, nil)
	return svc, d
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func activeShop() *models.Shop {
	return &models.Shop{
		ID:             uuid.New(),
		IsVerified:     true,
		IsApproved:     true,
		A4BWPrice:      dec("1.00"),
		A4ColorPrice:   dec("5.00"),
		A3BWPrice:      dec("2.00"),
		A3ColorPrice:   dec("10.00"),
		CommissionRate: dec("15.00"),
	}
}

func TestCreateOrderSkipsDisallowedFiles(t *testing.T) {
	svc, d := newTestService(10)
	shop := activeShop()

	d.shops.On("FindByID", shop.ID).Return(shop, nil)
	d.orders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		ShopID:        shop.ID,
		CustomerPhone: "0712345678",
		Files: []FileUpload{
			{FileName: "notes.pdf", StorageKey: "up/1"},
			{FileName: "malware.exe", StorageKey: "up/2"},
			{FileName: "scan.jpg", StorageKey: "up/3"},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, order.Files, 2)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	// defaults applied per file
	assert.Equal(t, models.PaperA4, order.Files[0].PaperSize)
	assert.Equal(t, 1, order.Files[0].Copies)
}

func TestCreateOrderFailsWhenNoValidFiles(t *testing.T) {
	svc, d := newTestService(1)
	shop := activeShop()
	d.shops.On("FindByID", shop.ID).Return(shop, nil)

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		ShopID:        shop.ID,
		CustomerPhone: "0712345678",
		Files:         []FileUpload{{FileName: "report.docx", StorageKey: "up/1"}},
	})
	assert.ErrorIs(t, err, ErrNoValidFiles)
	d.orders.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateOrderRefusesInactiveShop(t *testing.T) {
	svc, d := newTestService(1)
	shop := activeShop()
	shop.IsSuspended = true
	d.shops.On("FindByID", shop.ID).Return(shop, nil)

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		ShopID: shop.ID,
		Files:  []FileUpload{{FileName: "notes.pdf"}},
	})
	assert.ErrorIs(t, err, ErrShopUnavailable)
}

func TestConfigureAggregatesTotals(t *testing.T) {
	svc, d := newTestService(10)
	shop := activeShop()

	// 10 pages, ODD filter -> 5, 2-up -> 3, duplex -> 2, x3 copies = 6 sheets
	// at A4 BW 1.00 = 6.00; plus 4 pages COLOR single 1-up x1 = 4 sheets at
	// 5.00... use a second file priced to 4.00 instead: 4 pages BW 1-up.
	order := &models.Order{
		ID:     1,
		ShopID: shop.ID,
		Status: models.OrderStatusPending,
		Files: []models.OrderFile{
			{ID: 11, PagesCount: 10},
			{ID: 12, PagesCount: 4},
		},
	}

	d.shops.On("FindByID", shop.ID).Return(shop, nil)
	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	updated, err := svc.Configure(context.Background(), 1, ConfigureRequest{
		PerFile: map[uint]FileConfig{
			11: {PaperSize: "A4", ColorMode: "BW", PrintSide: "DOUBLE",
				PagesPerSheet: 2, PageFilter: "ODD", Copies: 3},
			12: {PaperSize: "A4", ColorMode: "BW", PrintSide: "SINGLE",
				PagesPerSheet: 1, PageFilter: "ALL", Copies: 1},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 10, updated.FinalSheets)
	assert.True(t, updated.TotalPrice.Equal(dec("10.00")), "total = %s", updated.TotalPrice)
	assert.True(t, updated.CommissionAmount.Equal(dec("1.50")), "commission = %s", updated.CommissionAmount)
	assert.True(t, updated.ShopPayout.Equal(dec("8.50")), "payout = %s", updated.ShopPayout)
	// per-file memoization
	assert.Equal(t, 6, updated.Files[0].FinalSheets)
	assert.True(t, updated.Files[0].TotalPrice.Equal(dec("6.00")))
}

func TestConfigureRejectsNonPendingOrder(t *testing.T) {
	svc, d := newTestService(10)
	order := &models.Order{ID: 1, Status: models.OrderStatusPaid}

	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	_, err := svc.Configure(context.Background(), 1, ConfigureRequest{ApplyToAll: true})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestReconfigureRecomputesFromScratch(t *testing.T) {
	svc, d := newTestService(10)
	shop := activeShop()
	order := &models.Order{
		ID:     1,
		ShopID: shop.ID,
		Status: models.OrderStatusPending,
		Files: []models.OrderFile{
			{ID: 11, PagesCount: 10, PaperSize: "A4", ColorMode: "BW",
				PrintSide: "SINGLE", PagesPerSheet: 1, PageFilter: "ALL", Copies: 1,
				FinalSheets: 10, TotalPrice: dec("10.00")},
		},
	}

	d.shops.On("FindByID", shop.ID).Return(shop, nil)
	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	updated, err := svc.Configure(context.Background(), 1, ConfigureRequest{
		ApplyToAll: true,
		Common: FileConfig{PaperSize: "A4", ColorMode: "COLOR", PrintSide: "SINGLE",
			PagesPerSheet: 1, PageFilter: "ALL", Copies: 1},
	})
	assert.NoError(t, err)
	// prior memoized totals are fully replaced, not adjusted
	assert.True(t, updated.TotalPrice.Equal(dec("50.00")))
	assert.True(t, updated.Files[0].PricePerSheet.Equal(dec("5.00")))
}

func TestCommissionSnapshotUsesCurrentRate(t *testing.T) {
	svc, d := newTestService(10)
	shop := activeShop()
	shop.CommissionRate = dec("20.00")
	order := &models.Order{
		ID:     1,
		ShopID: shop.ID,
		Status: models.OrderStatusPending,
		Files: []models.OrderFile{
			{ID: 11, PagesCount: 10, PaperSize: "A4", ColorMode: "BW",
				PrintSide: "SINGLE", PagesPerSheet: 1, PageFilter: "ALL", Copies: 1},
		},
	}

	d.shops.On("FindByID", shop.ID).Return(shop, nil)
	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	updated, err := svc.CalculateTotals(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, updated.CommissionAmount.Equal(dec("2.00")))
	assert.True(t, updated.ShopPayout.Equal(dec("8.00")))
}

func TestAddFilesOnlyWhilePending(t *testing.T) {
	svc, d := newTestService(3)
	order := &models.Order{ID: 1, Status: models.OrderStatusPrinting}

	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	_, err := svc.AddFiles(context.Background(), 1, []FileUpload{{FileName: "extra.pdf"}})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestRemoveLastFileDestroysOrder(t *testing.T) {
	svc, d := newTestService(1)
	order := &models.Order{ID: 1, Status: models.OrderStatusPending}

	d.orders.On("FindByID", uint(1)).Return(order, nil)
	d.files.On("FindByID", uint(11)).Return(&models.OrderFile{ID: 11, OrderID: 1}, nil)
	d.files.On("Delete", uint(11)).Return(nil)
	d.files.On("CountByOrderID", uint(1)).Return(int64(0), nil)
	d.orders.On("Delete", order).Return(nil)

	err := svc.RemoveFile(context.Background(), 1, 11)
	assert.NoError(t, err)
	d.orders.AssertCalled(t, "Delete", order)
}
