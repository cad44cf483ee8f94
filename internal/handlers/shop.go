package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"printhub/internal/models"
	"printhub/internal/services/order"
	"printhub/internal/services/payout"
	"printhub/internal/services/shop"
	"printhub/internal/utils/response"
)

// ShopHandler covers the shop-owner surface: registration, the price table,
// the order queue and pickup verification.
type ShopHandler struct {
	shopService   *shop.Service
	orderService  *order.Service
	payoutService *payout.Service
}

func NewShopHandler(shopService *shop.Service, orderService *order.Service, payoutService *payout.Service) *ShopHandler {
	return &ShopHandler{
		shopService:   shopService,
		orderService:  orderService,
		payoutService: payoutService,
	}
}

// Register files a shop application for the acting user.
func (h *ShopHandler) Register(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var req shop.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	created, err := h.shopService.Register(c.Context(), actor, req)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "shop registered, pending approval", created)
}

// ListApproved is the public shop directory.
func (h *ShopHandler) ListApproved(c *fiber.Ctx) error {
	shops, err := h.shopService.ListApproved(c.Context())
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "shops retrieved", shops)
}

func (h *ShopHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid shop id")
	}
	s, err := h.shopService.Get(c.Context(), id)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "shop retrieved", s)
}

// Mine returns the acting owner's shop.
func (h *ShopHandler) Mine(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	s, err := h.shopService.OwnShop(c.Context(), actor)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "shop retrieved", s)
}

// UpdatePrices changes the per-sheet price table.
func (h *ShopHandler) UpdatePrices(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var req shop.PriceUpdate
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	updated, err := h.shopService.UpdatePrices(c.Context(), actor, req)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "prices updated", updated)
}

// Orders lists the shop's orders, optionally filtered by ?status=PAID,READY.
func (h *ShopHandler) Orders(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var statuses []string
	if raw := c.Query("status"); raw != "" {
		statuses = strings.Split(strings.ToUpper(raw), ",")
	}

	orders, err := h.orderService.ListShopOrders(c.Context(), actor, statuses)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "orders retrieved", orders)
}

// Balance reports the owner's earnings position.
func (h *ShopHandler) Balance(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	balance, err := h.payoutService.OwnerBalance(c.Context(), actor)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "balance retrieved", balance)
}

// Accept, StartPrinting, MarkReady advance the fulfillment lifecycle.

func (h *ShopHandler) Accept(c *fiber.Ctx) error {
	return h.transition(c, h.orderService.Accept)
}

func (h *ShopHandler) StartPrinting(c *fiber.Ctx) error {
	return h.transition(c, h.orderService.StartPrinting)
}

func (h *ShopHandler) MarkReady(c *fiber.Ctx) error {
	return h.transition(c, h.orderService.MarkReady)
}

// Reject declines an order with a mandatory reason; paid orders get a
// pending full refund recorded.
func (h *ShopHandler) Reject(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	orderID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	updated, err := h.orderService.Reject(c.Context(), actor, orderID, body.Reason)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "order rejected", updated)
}

// VerifyPickup completes an order at the counter. order_id plus PIN is the
// primary path; PIN alone is the deprecated fallback.
func (h *ShopHandler) VerifyPickup(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var body struct {
		OrderID *uint  `json:"order_id"`
		PIN     string `json:"pin"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	updated, err := h.orderService.VerifyPickup(c.Context(), actor, order.VerifyPickupRequest{
		OrderID: body.OrderID,
		PIN:     body.PIN,
	})
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "pickup verified", updated)
}

func (h *ShopHandler) transition(
	c *fiber.Ctx,
	op func(ctx context.Context, actor order.Principal, orderID uint) (*models.Order, error),
) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	orderID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}

	updated, err := op(c.Context(), actor, orderID)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "order updated", updated)
}
