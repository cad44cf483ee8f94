// Package shop manages print-shop registration, the approval workflow and
// the per-sheet price table that drives order pricing.
package shop

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printhub/internal/models"
	"printhub/internal/repositories"
	"printhub/internal/services/audit"
	"printhub/internal/services/order"
)

// RegisterRequest is a shop-owner's application. The shop starts unverified
// and cannot take orders until an admin approves it.
type RegisterRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
}

// PriceUpdate carries new per-sheet prices. Nil fields keep the current
// value.
type PriceUpdate struct {
	A4BW    *decimal.Decimal `json:"a4_bw"`
	A4Color *decimal.Decimal `json:"a4_color"`
	A3BW    *decimal.Decimal `json:"a3_bw"`
	A3Color *decimal.Decimal `json:"a3_color"`
}

// Cache is the read-through shop cache; pricing reads the shop's price table
// on every aggregation, so lookups go through here first.
type Cache interface {
	GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, bool)
	CacheShop(ctx context.Context, shop *models.Shop) error
	InvalidateShop(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	shops repositories.ShopRepository
	cache Cache
	audit audit.Recorder
}

func NewService(shops repositories.ShopRepository, cache Cache, auditRec audit.Recorder) *Service {
	if shops == nil {
		panic("shop.NewService: nil repository")
	}
	if auditRec == nil {
		auditRec = audit.NoopRecorder{}
	}
	return &Service{shops: shops, cache: cache, audit: auditRec}
}

// Register creates a shop for the acting user. One shop per owner.
func (s *Service) Register(ctx context.Context, actor order.Principal, req RegisterRequest) (*models.Shop, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}
	if existing, err := s.shops.FindByOwnerID(actor.UserID); err == nil && existing != nil {
		return nil, ErrAlreadyRegistered
	} else if err != nil && err != repositories.ErrShopNotFound {
		return nil, err
	}

	shop := &models.Shop{
		OwnerID:  actor.UserID,
		Name:     req.Name,
		Location: req.Location,
		Phone:    req.Phone,
	}
	if err := s.shops.Create(shop); err != nil {
		return nil, err
	}
	s.audit.Record(&actor.UserID, "shop.register", "shop", shop.ID.String(), shop.Name)
	return shop, nil
}

// Get returns a shop, serving from cache when possible.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	if s.cache != nil {
		if shop, ok := s.cache.GetShop(ctx, id); ok {
			return shop, nil
		}
	}
	shop, err := s.shops.FindByID(id)
	if err != nil {
		if err == repositories.ErrShopNotFound {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.CacheShop(ctx, shop)
	}
	return shop, nil
}

// OwnShop returns the shop owned by the acting user.
func (s *Service) OwnShop(ctx context.Context, actor order.Principal) (*models.Shop, error) {
	shop, err := s.shops.FindByOwnerID(actor.UserID)
	if err != nil {
		if err == repositories.ErrShopNotFound {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return shop, nil
}

// ListApproved returns shops customers can order from.
func (s *Service) ListApproved(ctx context.Context) ([]models.Shop, error) {
	return s.shops.ListApproved()
}

// ListPendingApproval returns shops awaiting review, oldest first.
func (s *Service) ListPendingApproval(ctx context.Context, actor order.Principal) ([]models.Shop, error) {
	if !staffLevel(actor) {
		return nil, ErrStaffRequired
	}
	return s.shops.ListPendingApproval()
}

// Approve marks a pending shop verified and approved so it can take orders.
func (s *Service) Approve(ctx context.Context, actor order.Principal, id uuid.UUID) (*models.Shop, error) {
	if !staffLevel(actor) {
		return nil, ErrStaffRequired
	}
	shop, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if shop.IsVerified {
		return nil, ErrAlreadyReviewed
	}
	shop.IsVerified = true
	shop.IsApproved = true
	shop.RejectionReason = ""
	if err := s.shops.Update(shop); err != nil {
		return nil, err
	}
	s.invalidate(ctx, shop.ID)
	s.audit.Record(&actor.UserID, "shop.approve", "shop", shop.ID.String(), shop.Name)
	return shop, nil
}

// Reject declines a pending shop with a mandatory reason.
func (s *Service) Reject(ctx context.Context, actor order.Principal, id uuid.UUID, reason string) (*models.Shop, error) {
	if !staffLevel(actor) {
		return nil, ErrStaffRequired
	}
	if reason == "" {
		return nil, ErrMissingReason
	}
	shop, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if shop.IsVerified {
		return nil, ErrAlreadyReviewed
	}
	shop.IsVerified = true
	shop.IsApproved = false
	shop.RejectionReason = reason
	if err := s.shops.Update(shop); err != nil {
		return nil, err
	}
	s.invalidate(ctx, shop.ID)
	s.audit.Record(&actor.UserID, "shop.reject", "shop", shop.ID.String(), reason)
	return shop, nil
}

// Suspend takes an approved shop off the marketplace. Existing orders keep
// their lifecycle; new orders are refused while suspended.
func (s *Service) Suspend(ctx context.Context, actor order.Principal, id uuid.UUID, reason string) (*models.Shop, error) {
	if !staffLevel(actor) {
		return nil, ErrStaffRequired
	}
	if reason == "" {
		return nil, ErrMissingReason
	}
	shop, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	shop.IsSuspended = true
	shop.SuspensionReason = reason
	if err := s.shops.Update(shop); err != nil {
		return nil, err
	}
	s.invalidate(ctx, shop.ID)
	s.audit.Record(&actor.UserID, "shop.suspend", "shop", shop.ID.String(), reason)
	return shop, nil
}

// Reactivate lifts a suspension.
func (s *Service) Reactivate(ctx context.Context, actor order.Principal, id uuid.UUID) (*models.Shop, error) {
	if !staffLevel(actor) {
		return nil, ErrStaffRequired
	}
	shop, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if !shop.IsSuspended {
		return nil, ErrNotSuspended
	}
	shop.IsSuspended = false
	shop.SuspensionReason = ""
	if err := s.shops.Update(shop); err != nil {
		return nil, err
	}
	s.invalidate(ctx, shop.ID)
	s.audit.Record(&actor.UserID, "shop.reactivate", "shop", shop.ID.String(), shop.Name)
	return shop, nil
}

// UpdatePrices changes the owner's per-sheet price table. Already-aggregated
// orders keep the prices they were computed with.
func (s *Service) UpdatePrices(ctx context.Context, actor order.Principal, req PriceUpdate) (*models.Shop, error) {
	shop, err := s.shops.FindByOwnerID(actor.UserID)
	if err != nil {
		if err == repositories.ErrShopNotFound {
			return nil, ErrNotShopOwner
		}
		return nil, err
	}

	for _, p := range []*decimal.Decimal{req.A4BW, req.A4Color, req.A3BW, req.A3Color} {
		if p != nil && p.IsNegative() {
			return nil, ErrNegativePrice
		}
	}
	if req.A4BW != nil {
		shop.A4BWPrice = req.A4BW.Round(2)
	}
	if req.A4Color != nil {
		shop.A4ColorPrice = req.A4Color.Round(2)
	}
	if req.A3BW != nil {
		shop.A3BWPrice = req.A3BW.Round(2)
	}
	if req.A3Color != nil {
		shop.A3ColorPrice = req.A3Color.Round(2)
	}

	if err := s.shops.Update(shop); err != nil {
		return nil, err
	}
	s.invalidate(ctx, shop.ID)
	s.audit.Record(&actor.UserID, "shop.update_prices", "shop", shop.ID.String(),
		audit.Detailf("A4 %s/%s A3 %s/%s",
			shop.A4BWPrice.StringFixed(2), shop.A4ColorPrice.StringFixed(2),
			shop.A3BWPrice.StringFixed(2), shop.A3ColorPrice.StringFixed(2)))
	return shop, nil
}

func (s *Service) lookup(id uuid.UUID) (*models.Shop, error) {
	shop, err := s.shops.FindByID(id)
	if err != nil {
		if err == repositories.ErrShopNotFound {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return shop, nil
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.InvalidateShop(ctx, id)
	}
}

func staffLevel(actor order.Principal) bool {
	return actor.Role == models.RoleAdmin || actor.Role == models.RoleStaff
}
