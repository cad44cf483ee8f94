package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printhub/internal/services/dispute"
	"printhub/internal/utils/response"
)

type DisputeHandler struct {
	disputeService *dispute.Service
}

func NewDisputeHandler(disputeService *dispute.Service) *DisputeHandler {
	return &DisputeHandler{disputeService: disputeService}
}

// Raise opens a dispute against one of the caller's completed orders.
func (h *DisputeHandler) Raise(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var body struct {
		OrderID     uint   `json:"order_id"`
		IssueType   string `json:"issue_type"`
		Description string `json:"description"`
		ProofImage  string `json:"proof_image"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	d, err := h.disputeService.Raise(c.Context(), actor, dispute.RaiseRequest{
		OrderID:     body.OrderID,
		IssueType:   body.IssueType,
		Description: body.Description,
		ProofImage:  body.ProofImage,
	})
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "dispute raised", d)
}

// ForOrder lists all disputes against one order.
func (h *DisputeHandler) ForOrder(c *fiber.Ctx) error {
	orderID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	disputes, err := h.disputeService.OrderDisputes(c.Context(), orderID)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "disputes retrieved", disputes)
}

// ListOpen is the admin review queue.
func (h *DisputeHandler) ListOpen(c *fiber.Ctx) error {
	disputes, err := h.disputeService.ListOpen(c.Context())
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "open disputes retrieved", disputes)
}

// Resolve applies a staff recommendation or admin decision.
func (h *DisputeHandler) Resolve(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	disputeID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid dispute id")
	}
	var body struct {
		Decision     string `json:"decision"`
		AdminNotes   string `json:"admin_notes"`
		RefundAmount string `json:"refund_amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	d, err := h.disputeService.Resolve(c.Context(), actor, disputeID, dispute.ResolveRequest{
		Decision:     body.Decision,
		AdminNotes:   body.AdminNotes,
		RefundAmount: body.RefundAmount,
	})
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "dispute resolved", d)
}

// PendingRefunds lists refunds awaiting settlement confirmation.
func (h *DisputeHandler) PendingRefunds(c *fiber.Ctx) error {
	refunds, err := h.disputeService.ListPendingRefunds(c.Context())
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "pending refunds retrieved", refunds)
}

// ProcessRefund confirms a settled refund; the order is forced to REFUNDED.
func (h *DisputeHandler) ProcessRefund(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	refundID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid refund id")
	}

	r, err := h.disputeService.ProcessRefund(c.Context(), actor, refundID)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "refund processed", r)
}
