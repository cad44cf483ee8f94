package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"printhub/internal/models"
)

func newLifecycleService() (*Service, *deps, *models.Shop) {
	svc, d := newTestService(1)
	shop := activeShop()
	shop.OwnerID = 9
	return svc, d, shop
}

var shopOwner = Principal{UserID: 9, Role: models.RoleShopOwner}

func nowPtr() *time.Time {
	now := time.Now()
	return &now
}

func TestMarkPaidSetsDeadlineAndReference(t *testing.T) {
	svc, d, shop := newLifecycleService()
	order := &models.Order{ID: 1, ShopID: shop.ID, Status: models.OrderStatusPending,
		TotalPrice: dec("10.00")}

	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	updated, err := svc.MarkPaid(context.Background(), 1, "pi_123")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, updated.Status)
	assert.Equal(t, "pi_123", updated.PaymentReference)
	assert.NotNil(t, updated.PaidAt)
	assert.NotNil(t, updated.PickupDeadline)
	assert.Equal(t, models.PickupDeadlineAfterPayment,
		updated.PickupDeadline.Sub(*updated.PaidAt))
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	svc, d, shop := newLifecycleService()
	order := &models.Order{ID: 1, ShopID: shop.ID, Status: models.OrderStatusPaid,
		PaymentReference: "pi_first"}

	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	updated, err := svc.MarkPaid(context.Background(), 1, "pi_second")
	assert.NoError(t, err)
	// duplicate confirmation keeps the first outcome
	assert.Equal(t, "pi_first", updated.PaymentReference)
}

func TestMarkPaidConflictsFromTerminalStatus(t *testing.T) {
	svc, d, shop := newLifecycleService()
	order := &models.Order{ID: 1, ShopID: shop.ID, Status: models.OrderStatusCancelled}

	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	_, err := svc.MarkPaid(context.Background(), 1, "pi_late")
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

func TestMarkReadyAssignsPIN(t *testing.T) {
	svc, d, shop := newLifecycleService()
	order := &models.Order{ID: 1, ShopID: shop.ID, Status: models.OrderStatusPrinting}

	d.shops.On("FindByOwnerID", uint(9)).Return(shop, nil)
	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	updated, err := svc.MarkReady(context.Background(), shopOwner, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusReady, updated.Status)
	assert.Regexp(t, `^\d{4}$`, updated.PinCode)
}

func TestAcceptRequiresPaidStatus(t *testing.T) {
	svc, d, shop := newLifecycleService()
	order := &models.Order{ID: 1, ShopID: shop.ID, Status: models.OrderStatusPending}

	d.shops.On("FindByOwnerID", uint(9)).Return(shop, nil)
	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	_, err := svc.Accept(context.Background(), shopOwner, 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestShopTransitionRefusesForeignOrder(t *testing.T) {
	svc, d, shop := newLifecycleService()
	order := &models.Order{ID: 1, ShopID: uuid.New(), Status: models.OrderStatusPaid}

	d.shops.On("FindByOwnerID", uint(9)).Return(shop, nil)
	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	_, err := svc.Accept(context.Background(), shopOwner, 1)
	assert.ErrorIs(t, err, ErrNotShopOwner)
}

func TestVerifyPickupCompletesOrder(t *testing.T) {
	svc, d, shop := newLifecycleService()
	orderID := uint(1)
	order := &models.Order{ID: orderID, ShopID: shop.ID,
		Status: models.OrderStatusReady, PinCode: "0042",
		TotalPrice: dec("10.00"), ShopPayout: dec("8.50")}

	d.shops.On("FindByOwnerID", uint(9)).Return(shop, nil)
	d.orders.On("UpdateLocked", orderID, mock.Anything).Return(order, nil)
	d.shops.On("AddToEarnings", shop.ID, dec("10.00")).Return(nil)

	updated, err := svc.VerifyPickup(context.Background(), shopOwner,
		VerifyPickupRequest{OrderID: &orderID, PIN: "0042"})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
	assert.NotNil(t, updated.DisputeWindowExpires)
	assert.Equal(t, models.DisputeWindowAfterPickup,
		updated.DisputeWindowExpires.Sub(*updated.CompletedAt))
	d.shops.AssertCalled(t, "AddToEarnings", shop.ID, dec("10.00"))
}

func TestVerifyPickupWrongPINIsRetryable(t *testing.T) {
	svc, d, shop := newLifecycleService()
	orderID := uint(1)
	order := &models.Order{ID: orderID, ShopID: shop.ID,
		Status: models.OrderStatusReady, PinCode: "0042"}

	d.shops.On("FindByOwnerID", uint(9)).Return(shop, nil)
	d.orders.On("UpdateLocked", orderID, mock.Anything).Return(order, nil)
	d.shops.On("AddToEarnings", shop.ID, mock.Anything).Return(nil)

	_, err := svc.VerifyPickup(context.Background(), shopOwner,
		VerifyPickupRequest{OrderID: &orderID, PIN: "9999"})
	assert.ErrorIs(t, err, ErrInvalidPIN)
	// order stays READY with its PIN; a second attempt can succeed
	assert.Equal(t, models.OrderStatusReady, order.Status)

	updated, err := svc.VerifyPickup(context.Background(), shopOwner,
		VerifyPickupRequest{OrderID: &orderID, PIN: "0042"})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
}

func TestVerifyPickupSucceedsWhenEarningsUpdateFails(t *testing.T) {
	svc, d, shop := newLifecycleService()
	orderID := uint(1)
	order := &models.Order{ID: orderID, ShopID: shop.ID,
		Status: models.OrderStatusReady, PinCode: "0042", TotalPrice: dec("10.00")}

	d.shops.On("FindByOwnerID", uint(9)).Return(shop, nil)
	d.orders.On("UpdateLocked", orderID, mock.Anything).Return(order, nil)
	d.shops.On("AddToEarnings", shop.ID, dec("10.00")).
		Return(errors.New("connection reset"))

	// The transition is already committed; the counter failure must not
	// make a verified pickup look failed to the shop.
	updated, err := svc.VerifyPickup(context.Background(), shopOwner,
		VerifyPickupRequest{OrderID: &orderID, PIN: "0042"})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
}

func TestVerifyPickupRequiresReadyStatus(t *testing.T) {
	svc, d, shop := newLifecycleService()
	orderID := uint(1)
	order := &models.Order{ID: orderID, ShopID: shop.ID,
		Status: models.OrderStatusPrinting, PinCode: "0042"}

	d.shops.On("FindByOwnerID", uint(9)).Return(shop, nil)
	d.orders.On("UpdateLocked", orderID, mock.Anything).Return(order, nil)

	_, err := svc.VerifyPickup(context.Background(), shopOwner,
		VerifyPickupRequest{OrderID: &orderID, PIN: "0042"})
	assert.ErrorIs(t, err, ErrOrderNotReady)
}

func TestVerifyPickupPINOnlyFallback(t *testing.T) {
	svc, d, shop := newLifecycleService()
	order := &models.Order{ID: 5, ShopID: shop.ID,
		Status: models.OrderStatusReady, PinCode: "0042", TotalPrice: dec("4.00")}

	d.shops.On("FindByOwnerID", uint(9)).Return(shop, nil)
	d.orders.On("FindReadyByPIN", shop.ID, "0042").Return(order, nil)
	d.orders.On("UpdateLocked", uint(5), mock.Anything).Return(order, nil)
	d.shops.On("AddToEarnings", shop.ID, dec("4.00")).Return(nil)

	updated, err := svc.VerifyPickup(context.Background(), shopOwner,
		VerifyPickupRequest{PIN: "0042"})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
}

func TestCancelRequiresReason(t *testing.T) {
	svc, _, _ := newLifecycleService()
	_, err := svc.Cancel(context.Background(), Principal{UserID: 42}, 1, "")
	assert.ErrorIs(t, err, ErrMissingReason)
}

func TestCancelOnlyBeforeFulfillment(t *testing.T) {
	svc, d, shop := newLifecycleService()
	customerID := uint(42)
	order := &models.Order{ID: 1, ShopID: shop.ID, CustomerID: &customerID,
		Status: models.OrderStatusPrinting}

	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	_, err := svc.Cancel(context.Background(), Principal{UserID: 42, Role: models.RoleCustomer},
		1, "changed my mind")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelByOwner(t *testing.T) {
	svc, d, shop := newLifecycleService()
	customerID := uint(42)
	order := &models.Order{ID: 1, ShopID: shop.ID, CustomerID: &customerID,
		Status: models.OrderStatusPending}

	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	updated, err := svc.Cancel(context.Background(), Principal{UserID: 42, Role: models.RoleCustomer},
		1, "ordered the wrong file")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	assert.Equal(t, "ordered the wrong file", updated.RejectionReason)
}

func TestCancelByAnotherCustomerIsRejected(t *testing.T) {
	svc, d, shop := newLifecycleService()
	customerID := uint(42)
	order := &models.Order{ID: 1, ShopID: shop.ID, CustomerID: &customerID,
		Status: models.OrderStatusPending}

	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	_, err := svc.Cancel(context.Background(), Principal{UserID: 777, Role: models.RoleCustomer},
		1, "not my order")
	assert.ErrorIs(t, err, ErrNotOrderOwner)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestCancelGuestOrderRequiresStaff(t *testing.T) {
	svc, d, shop := newLifecycleService()
	order := &models.Order{ID: 1, ShopID: shop.ID, Status: models.OrderStatusPending}

	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	_, err := svc.Cancel(context.Background(), Principal{UserID: 5, Role: models.RoleCustomer},
		1, "cleanup")
	assert.ErrorIs(t, err, ErrNotOrderOwner)

	updated, err := svc.Cancel(context.Background(), Principal{UserID: 6, Role: models.RoleStaff},
		1, "stale guest order")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
}

func TestRejectPaidOrderCreatesRefund(t *testing.T) {
	svc, d, shop := newLifecycleService()
	paid := nowPtr()
	order := &models.Order{ID: 1, ShopID: shop.ID,
		Status: models.OrderStatusAccepted, PaidAt: paid, TotalPrice: dec("10.00")}

	d.shops.On("FindByOwnerID", uint(9)).Return(shop, nil)
	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)
	d.refunds.On("Create", mock.AnythingOfType("*models.Refund")).
		Run(func(args mock.Arguments) {
			r := args.Get(0).(*models.Refund)
			assert.True(t, r.Amount.Equal(dec("10.00")))
			assert.Equal(t, models.RefundReasonShopRejected, r.Reason)
			assert.Equal(t, models.RefundStatusPending, r.Status)
		}).Return(nil)

	updated, err := svc.Reject(context.Background(), shopOwner, 1, "out of A3 paper")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusRejected, updated.Status)
	d.refunds.AssertExpectations(t)
}

func TestRejectUnpaidOrderCreatesNoRefund(t *testing.T) {
	svc, d, shop := newLifecycleService()
	order := &models.Order{ID: 1, ShopID: shop.ID, Status: models.OrderStatusPending}

	d.shops.On("FindByOwnerID", uint(9)).Return(shop, nil)
	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	_, err := svc.Reject(context.Background(), shopOwner, 1, "printer down")
	assert.NoError(t, err)
	d.refunds.AssertNotCalled(t, "Create", mock.Anything)
}

func TestForceRefundedOverridesAnyStatus(t *testing.T) {
	svc, d, shop := newLifecycleService()
	order := &models.Order{ID: 1, ShopID: shop.ID, Status: models.OrderStatusCompleted}

	d.orders.On("UpdateLocked", uint(1), mock.Anything).Return(order, nil)

	updated, err := svc.ForceRefunded(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusRefunded, updated.Status)
}
