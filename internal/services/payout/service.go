// Package payout tracks money owed to shops. A shop's pending payout is the
// sum of its completed-order payouts minus everything already paid out; the
// platform settles it offline and records the transfer here.
package payout

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printhub/internal/models"
	"printhub/internal/repositories"
	"printhub/internal/services/audit"
	"printhub/internal/services/order"
)

// Balance is one shop's earnings position.
type Balance struct {
	ShopID          uuid.UUID       `json:"shop_id"`
	ShopName        string          `json:"shop_name"`
	CompletedOrders int64           `json:"completed_orders"`
	Gross           decimal.Decimal `json:"gross"`
	Commission      decimal.Decimal `json:"commission"`
	Earned          decimal.Decimal `json:"earned"`
	Paid            decimal.Decimal `json:"paid"`
	// Pending can briefly go negative after an over-payout; the portfolio
	// summary floors it at zero, the per-shop view reports it as is.
	Pending decimal.Decimal `json:"pending"`
}

// Summary is the platform-wide earnings position across all approved shops.
type Summary struct {
	Shops            []Balance       `json:"shops"`
	TotalGross       decimal.Decimal `json:"total_gross"`
	TotalCommission  decimal.Decimal `json:"total_commission"`
	TotalPending     decimal.Decimal `json:"total_pending"`
	TotalRefunded    decimal.Decimal `json:"total_refunded"`
	NetPlatformShare decimal.Decimal `json:"net_platform_share"`
}

// Cache invalidation hooks the service needs after commission changes.
type Cache interface {
	InvalidateShop(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	shops   repositories.ShopRepository
	orders  repositories.OrderRepository
	refunds repositories.RefundRepository
	cache   Cache
	audit   audit.Recorder
}

func NewService(
	shops repositories.ShopRepository,
	orders repositories.OrderRepository,
	refunds repositories.RefundRepository,
	cache Cache,
	auditRec audit.Recorder,
) *Service {
	if shops == nil || orders == nil || refunds == nil {
		panic("payout.NewService: nil dependency")
	}
	if auditRec == nil {
		auditRec = audit.NoopRecorder{}
	}
	return &Service{
		shops:   shops,
		orders:  orders,
		refunds: refunds,
		cache:   cache,
		audit:   auditRec,
	}
}

// ShopBalance computes a shop's position from its completed orders. The
// pending figure is derived, never stored, so it is always consistent with
// the order table.
func (s *Service) ShopBalance(ctx context.Context, shopID uuid.UUID) (*Balance, error) {
	shop, err := s.shops.FindByID(shopID)
	if err != nil {
		if err == repositories.ErrShopNotFound {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return s.balanceFor(shop)
}

// OwnerBalance resolves the shop owned by the acting user and returns its
// balance.
func (s *Service) OwnerBalance(ctx context.Context, actor order.Principal) (*Balance, error) {
	shop, err := s.shops.FindByOwnerID(actor.UserID)
	if err != nil {
		if err == repositories.ErrShopNotFound {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return s.balanceFor(shop)
}

// ProcessPayout records an offline transfer to a shop. The amount must be
// strictly positive; no upper bound is enforced, so an over-payout simply
// drives the pending balance negative until more orders complete.
func (s *Service) ProcessPayout(ctx context.Context, actor order.Principal, shopID uuid.UUID, amount decimal.Decimal) (*Balance, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrAdminRequired
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	shop, err := s.shops.FindByID(shopID)
	if err != nil {
		if err == repositories.ErrShopNotFound {
			return nil, ErrShopNotFound
		}
		return nil, err
	}

	if err := s.shops.AddToPaidTotal(shop.ID, amount.Round(2)); err != nil {
		return nil, err
	}
	s.invalidate(ctx, shop.ID)
	s.audit.Record(&actor.UserID, "payout.process", "shop", shop.ID.String(),
		audit.Detailf("paid %s", amount.StringFixed(2)))

	refreshed, err := s.shops.FindByID(shop.ID)
	if err != nil {
		return nil, err
	}
	return s.balanceFor(refreshed)
}

// SetCommission updates a shop's commission rate. Orders already aggregated
// keep the rate they snapshotted.
func (s *Service) SetCommission(ctx context.Context, actor order.Principal, shopID uuid.UUID, rate decimal.Decimal) (*models.Shop, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrAdminRequired
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidCommissionRate
	}

	shop, err := s.shops.FindByID(shopID)
	if err != nil {
		if err == repositories.ErrShopNotFound {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	shop.CommissionRate = rate.Round(2)
	if err := s.shops.Update(shop); err != nil {
		return nil, err
	}
	s.invalidate(ctx, shop.ID)
	s.audit.Record(&actor.UserID, "commission.set", "shop", shop.ID.String(),
		audit.Detailf("rate %s%%", rate.StringFixed(2)))
	return shop, nil
}

// PortfolioSummary aggregates every approved shop. Each shop's contribution
// to the pending total is floored at zero so one over-paid shop cannot mask
// money owed elsewhere.
func (s *Service) PortfolioSummary(ctx context.Context, actor order.Principal) (*Summary, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrAdminRequired
	}

	shops, err := s.shops.ListApproved()
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Shops:           make([]Balance, 0, len(shops)),
		TotalGross:      decimal.Zero,
		TotalCommission: decimal.Zero,
		TotalPending:    decimal.Zero,
	}
	for i := range shops {
		b, err := s.balanceFor(&shops[i])
		if err != nil {
			return nil, err
		}
		sum.Shops = append(sum.Shops, *b)
		sum.TotalGross = sum.TotalGross.Add(b.Gross)
		sum.TotalCommission = sum.TotalCommission.Add(b.Commission)
		if b.Pending.IsPositive() {
			sum.TotalPending = sum.TotalPending.Add(b.Pending)
		}
	}

	refunded, err := s.refunds.SumCompleted()
	if err != nil {
		return nil, err
	}
	sum.TotalRefunded = refunded
	sum.NetPlatformShare = sum.TotalCommission.Sub(refunded)
	return sum, nil
}

func (s *Service) balanceFor(shop *models.Shop) (*Balance, error) {
	totals, err := s.orders.CompletedTotals(shop.ID)
	if err != nil {
		return nil, err
	}
	return &Balance{
		ShopID:          shop.ID,
		ShopName:        shop.Name,
		CompletedOrders: totals.Count,
		Gross:           totals.Gross,
		Commission:      totals.Commission,
		Earned:          totals.ShopPayout,
		Paid:            shop.PaidTotal,
		Pending:         totals.ShopPayout.Sub(shop.PaidTotal),
	}, nil
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.InvalidateShop(ctx, id)
	}
}
