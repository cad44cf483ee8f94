package payment

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"printhub/internal/errors"
	"printhub/internal/models"
	"printhub/internal/repositories"
	"printhub/internal/services/order"
)

var (
	ErrOrderNotFound = errors.NotFound("ORDER_NOT_FOUND", "order not found")
	ErrNotPayable    = errors.StateConflict("ORDER_NOT_PAYABLE",
		"order must be pending with a non-zero total")
	ErrNoPaymentRef = errors.StateConflict("NO_PAYMENT_REFERENCE",
		"order has no payment to refund")
)

// Lifecycle is the slice of the order service checkout needs.
type Lifecycle interface {
	MarkPaid(ctx context.Context, orderID uint, paymentRef string) (*models.Order, error)
}

type Service struct {
	gateway   Gateway
	orders    repositories.OrderRepository
	lifecycle Lifecycle
}

func NewService(gateway Gateway, orders repositories.OrderRepository, lifecycle Lifecycle) *Service {
	if gateway == nil || orders == nil || lifecycle == nil {
		panic("payment.NewService: nil dependency")
	}
	return &Service{gateway: gateway, orders: orders, lifecycle: lifecycle}
}

// Checkout opens a gateway charge for a pending order's total. The returned
// charge reference is not attached to the order until Confirm; an abandoned
// checkout leaves the order untouched.
func (s *Service) Checkout(ctx context.Context, actor order.Principal, orderID uint) (*Charge, error) {
	o, err := s.orders.FindByID(orderID)
	if err != nil {
		if err == repositories.ErrOrderNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if o.Status != models.OrderStatusPending || !o.TotalPrice.GreaterThan(decimal.Zero) {
		return nil, ErrNotPayable
	}

	return s.gateway.CreateCharge(ctx, o.TotalPrice,
		"print order "+strconv.FormatUint(uint64(o.ID), 10))
}

// Confirm records a successful gateway payment against the order. Duplicate
// confirmations are absorbed by the PAID idempotency of MarkPaid.
func (s *Service) Confirm(ctx context.Context, orderID uint, paymentRef string) (*models.Order, error) {
	return s.lifecycle.MarkPaid(ctx, orderID, paymentRef)
}

// RefundToGateway pushes an approved refund back to the processor and
// returns the gateway's refund reference. The refund ledger stays PENDING
// until an admin confirms settlement.
func (s *Service) RefundToGateway(ctx context.Context, orderID uint, amount decimal.Decimal) (string, error) {
	o, err := s.orders.FindByID(orderID)
	if err != nil {
		if err == repositories.ErrOrderNotFound {
			return "", ErrOrderNotFound
		}
		return "", err
	}
	if o.PaymentReference == "" {
		return "", ErrNoPaymentRef
	}
	return s.gateway.RefundCharge(ctx, o.PaymentReference, amount)
}
