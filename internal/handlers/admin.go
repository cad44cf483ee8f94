package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printhub/internal/models"
	"printhub/internal/repositories"
	"printhub/internal/services/order"
	"printhub/internal/services/payout"
	"printhub/internal/services/shop"
	"printhub/internal/utils/pagination"
	"printhub/internal/utils/response"
)

// AdminHandler covers the admin portal: shop review, payouts, commission and
// user administration. Routes are gated by the staff/admin middleware; money
// operations additionally check the admin role in the services.
type AdminHandler struct {
	shopService   *shop.Service
	payoutService *payout.Service
	users         repositories.UserRepository
}

func NewAdminHandler(shopService *shop.Service, payoutService *payout.Service, users repositories.UserRepository) *AdminHandler {
	return &AdminHandler{
		shopService:   shopService,
		payoutService: payoutService,
		users:         users,
	}
}

// PendingShops lists shop applications awaiting review.
func (h *AdminHandler) PendingShops(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	shops, err := h.shopService.ListPendingApproval(c.Context(), actor)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "pending shops retrieved", shops)
}

func (h *AdminHandler) ApproveShop(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid shop id")
	}
	s, err := h.shopService.Approve(c.Context(), actor, id)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "shop approved", s)
}

func (h *AdminHandler) RejectShop(c *fiber.Ctx) error {
	return h.shopDecision(c, h.shopService.Reject, "shop rejected")
}

func (h *AdminHandler) SuspendShop(c *fiber.Ctx) error {
	return h.shopDecision(c, h.shopService.Suspend, "shop suspended")
}

func (h *AdminHandler) ReactivateShop(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid shop id")
	}
	s, err := h.shopService.Reactivate(c.Context(), actor, id)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "shop reactivated", s)
}

// PortfolioSummary aggregates every approved shop's earnings position.
func (h *AdminHandler) PortfolioSummary(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	summary, err := h.payoutService.PortfolioSummary(c.Context(), actor)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "portfolio summary retrieved", summary)
}

// ShopBalance reports one shop's earnings position.
func (h *AdminHandler) ShopBalance(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid shop id")
	}
	balance, err := h.payoutService.ShopBalance(c.Context(), id)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "balance retrieved", balance)
}

// ProcessPayout records an offline transfer to a shop.
func (h *AdminHandler) ProcessPayout(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid shop id")
	}
	var body struct {
		Amount string `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return response.BadRequest(c, "amount must be a decimal string")
	}

	balance, err := h.payoutService.ProcessPayout(c.Context(), actor, id, amount)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "payout processed", balance)
}

// SetCommission updates a shop's commission rate for future aggregations.
func (h *AdminHandler) SetCommission(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid shop id")
	}
	var body struct {
		Rate string `json:"rate"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	rate, err := decimal.NewFromString(body.Rate)
	if err != nil {
		return response.BadRequest(c, "rate must be a decimal string")
	}

	s, err := h.payoutService.SetCommission(c.Context(), actor, id, rate)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "commission updated", s)
}

// Users lists accounts, optionally filtered by ?role=.
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	page := pagination.ParseFromRequest(c)
	users, err := h.users.List(c.Query("role"), page.Limit, page.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list users")
	}
	for i := range users {
		users[i].Password = ""
	}
	return response.Success(c, "users retrieved", users)
}

func (h *AdminHandler) shopDecision(
	c *fiber.Ctx,
	op func(ctx context.Context, actor order.Principal, id uuid.UUID, reason string) (*models.Shop, error),
	message string,
) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid shop id")
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	s, err := op(c.Context(), actor, id, body.Reason)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, message, s)
}
