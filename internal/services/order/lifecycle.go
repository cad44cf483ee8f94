package order

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printhub/internal/models"
	"printhub/internal/repositories"
	"printhub/internal/services/audit"
	"printhub/internal/utils"
)

// MarkPaid transitions PENDING→PAID on an external payment confirmation.
// Idempotent when the order is already PAID; any other status is a conflict.
// Sets paid_at and a 7-day pickup deadline.
func (s *Service) MarkPaid(ctx context.Context, orderID uint, paymentRef string) (*models.Order, error) {
	updated, err := s.orders.UpdateLocked(orderID, func(order *models.Order) error {
		if order.Status == models.OrderStatusPaid {
			return nil // duplicate confirmation, keep first outcome
		}
		if order.Status != models.OrderStatusPending {
			return ErrAlreadyTerminal
		}
		now := time.Now()
		deadline := now.Add(models.PickupDeadlineAfterPayment)
		order.Status = models.OrderStatusPaid
		order.PaidAt = &now
		order.PickupDeadline = &deadline
		order.PaymentReference = paymentRef
		return nil
	})
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	s.invalidate(ctx, orderID)
	s.audit.Record(nil, "order.mark_paid", "order", itoa(orderID),
		audit.Detailf("payment ref %s", paymentRef))
	return updated, nil
}

// Accept transitions PAID→ACCEPTED; shop-initiated.
func (s *Service) Accept(ctx context.Context, actor Principal, orderID uint) (*models.Order, error) {
	return s.shopTransition(ctx, actor, orderID, "order.accept",
		[]string{models.OrderStatusPaid},
		func(order *models.Order) { order.Status = models.OrderStatusAccepted })
}

// StartPrinting transitions PAID/ACCEPTED→PRINTING; shop-initiated.
func (s *Service) StartPrinting(ctx context.Context, actor Principal, orderID uint) (*models.Order, error) {
	return s.shopTransition(ctx, actor, orderID, "order.start_printing",
		[]string{models.OrderStatusPaid, models.OrderStatusAccepted},
		func(order *models.Order) { order.Status = models.OrderStatusPrinting })
}

// MarkReady transitions to READY and assigns a fresh 4-digit pickup PIN.
// PINs are drawn independently per order; concurrent READY orders at the
// same shop may collide, which the PIN-only verification path cannot
// disambiguate.
func (s *Service) MarkReady(ctx context.Context, actor Principal, orderID uint) (*models.Order, error) {
	return s.shopTransition(ctx, actor, orderID, "order.mark_ready",
		[]string{models.OrderStatusPaid, models.OrderStatusAccepted, models.OrderStatusPrinting},
		func(order *models.Order) {
			order.Status = models.OrderStatusReady
			order.PinCode = utils.GeneratePIN()
		})
}

// VerifyPickup is the atomic check-then-transition that completes an order:
// the PIN must match while the order is still READY, both evaluated under
// the same lock so two concurrent pickups cannot both succeed. A wrong PIN
// leaves the order READY and is retryable.
//
// On success sets completed_at, opens the 48-hour dispute window and adds
// the order's gross to the shop's lifetime earnings.
func (s *Service) VerifyPickup(ctx context.Context, actor Principal, req VerifyPickupRequest) (*models.Order, error) {
	shop, err := s.shops.FindByOwnerID(actor.UserID)
	if err != nil {
		return nil, ErrNotShopOwner
	}

	orderID, err := s.resolvePickupOrder(shop.ID, req)
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.UpdateLocked(orderID, func(order *models.Order) error {
		if order.ShopID != shop.ID {
			return ErrNotShopOwner
		}
		if order.Status != models.OrderStatusReady {
			return ErrOrderNotReady
		}
		if order.PinCode == "" || order.PinCode != req.PIN {
			return ErrInvalidPIN
		}
		now := time.Now()
		expires := now.Add(models.DisputeWindowAfterPickup)
		order.Status = models.OrderStatusCompleted
		order.CompletedAt = &now
		order.DisputeWindowExpires = &expires
		return nil
	})
	if err != nil {
		return nil, s.mapRepoErr(err)
	}

	// The pickup is committed; a failed earnings increment must not surface
	// as a failed pickup. The payout ledger reconciles from completed orders,
	// not from this counter.
	if err := s.shops.AddToEarnings(shop.ID, updated.TotalPrice); err != nil {
		log.Printf("order %d: earnings increment failed: %v", orderID, err)
	}
	s.invalidate(ctx, orderID)
	s.invalidateShop(ctx, shop.ID)
	s.audit.Record(&actor.UserID, "order.complete", "order", itoa(orderID),
		audit.Detailf("pickup verified, payout %s", updated.ShopPayout.StringFixed(2)))
	return updated, nil
}

// Cancel exits the order before fulfillment with a mandatory reason.
// Customer- or system-initiated.
func (s *Service) Cancel(ctx context.Context, actor Principal, orderID uint, reason string) (*models.Order, error) {
	if reason == "" {
		return nil, ErrMissingReason
	}
	updated, err := s.orders.UpdateLocked(orderID, func(order *models.Order) error {
		if !actor.staffLevel() && (order.CustomerID == nil || *order.CustomerID != actor.UserID) {
			return ErrNotOrderOwner
		}
		if !statusIn(order.Status, []string{models.OrderStatusPending, models.OrderStatusAccepted}) {
			return ErrInvalidTransition
		}
		order.Status = models.OrderStatusCancelled
		order.RejectionReason = reason
		return nil
	})
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	s.invalidate(ctx, orderID)
	s.audit.Record(&actor.UserID, "order.cancel", "order", itoa(orderID), reason)
	return updated, nil
}

// Reject is the shop declining an order, with a mandatory reason. Rejecting
// an already-paid order records a PENDING full-amount refund.
func (s *Service) Reject(ctx context.Context, actor Principal, orderID uint, reason string) (*models.Order, error) {
	if reason == "" {
		return nil, ErrMissingReason
	}
	shop, err := s.shops.FindByOwnerID(actor.UserID)
	if err != nil {
		return nil, ErrNotShopOwner
	}

	updated, err := s.orders.UpdateLocked(orderID, func(order *models.Order) error {
		if order.ShopID != shop.ID {
			return ErrNotShopOwner
		}
		if !statusIn(order.Status, []string{models.OrderStatusPending, models.OrderStatusAccepted}) {
			return ErrInvalidTransition
		}
		order.Status = models.OrderStatusRejected
		order.RejectionReason = reason
		return nil
	})
	if err != nil {
		return nil, s.mapRepoErr(err)
	}

	if updated.PaidAt != nil && updated.TotalPrice.GreaterThan(decimal.Zero) {
		refund := &models.Refund{
			OrderID: updated.ID,
			Amount:  updated.TotalPrice,
			Reason:  models.RefundReasonShopRejected,
			Status:  models.RefundStatusPending,
		}
		if err := s.refunds.Create(refund); err != nil {
			return nil, err
		}
	}
	s.invalidate(ctx, orderID)
	s.audit.Record(&actor.UserID, "order.reject", "order", itoa(orderID), reason)
	return updated, nil
}

// ForceRefunded sets the order status to REFUNDED, independent of its prior
// status. Only reachable through a completed refund.
func (s *Service) ForceRefunded(ctx context.Context, orderID uint) (*models.Order, error) {
	updated, err := s.orders.UpdateLocked(orderID, func(order *models.Order) error {
		order.Status = models.OrderStatusRefunded
		return nil
	})
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	s.invalidate(ctx, orderID)
	return updated, nil
}

func (s *Service) shopTransition(
	ctx context.Context,
	actor Principal,
	orderID uint,
	action string,
	allowed []string,
	apply func(*models.Order),
) (*models.Order, error) {
	shop, err := s.shops.FindByOwnerID(actor.UserID)
	if err != nil {
		return nil, ErrNotShopOwner
	}
	updated, err := s.orders.UpdateLocked(orderID, func(order *models.Order) error {
		if order.ShopID != shop.ID {
			return ErrNotShopOwner
		}
		if !statusIn(order.Status, allowed) {
			return ErrInvalidTransition
		}
		apply(order)
		return nil
	})
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	s.invalidate(ctx, orderID)
	s.audit.Record(&actor.UserID, action, "order", itoa(orderID), "")
	return updated, nil
}

func (s *Service) resolvePickupOrder(shopID uuid.UUID, req VerifyPickupRequest) (uint, error) {
	if req.OrderID != nil {
		return *req.OrderID, nil
	}
	// Deprecated fallback: PIN-only lookup within the shop.
	found, err := s.orders.FindReadyByPIN(shopID, req.PIN)
	if err != nil {
		if err == repositories.ErrOrderNotFound {
			return 0, ErrOrderNotReady
		}
		return 0, err
	}
	return found.ID, nil
}

func (s *Service) invalidateShop(ctx context.Context, shopID uuid.UUID) {
	if s.cache != nil {
		s.cache.InvalidateShop(ctx, shopID)
	}
}

func statusIn(status string, allowed []string) bool {
	for _, a := range allowed {
		if status == a {
			return true
		}
	}
	return false
}
