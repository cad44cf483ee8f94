package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"printhub/internal/services/order"
	"printhub/internal/services/payment"
	"printhub/internal/utils"
	"printhub/internal/utils/response"
	"printhub/internal/validation"
)

type OrderHandler struct {
	orderService   *order.Service
	paymentService *payment.Service
}

func NewOrderHandler(orderService *order.Service, paymentService *payment.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService, paymentService: paymentService}
}

// Create opens a PENDING order from a multipart upload. Guests identify by
// phone; logged-in customers are linked by their claims.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "multipart form required")
	}

	shopID, err := uuid.Parse(c.FormValue("shop_id"))
	if err != nil {
		return response.BadRequest(c, "invalid shop_id")
	}

	req := order.CreateOrderRequest{
		ShopID:        shopID,
		CustomerName:  c.FormValue("customer_name"),
		CustomerPhone: c.FormValue("customer_phone"),
	}
	if claims, err := utils.GetUserClaims(c); err == nil {
		req.CustomerID = &claims.UserID
	}

	v := validation.New()
	v.Phone("customer_phone", req.CustomerPhone)
	if !v.Valid() {
		return response.BadRequest(c, "a valid customer phone is required")
	}

	uploads, err := readUploads(form.File["files"])
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	req.Files = uploads

	created, err := h.orderService.CreateOrder(c.Context(), req)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "order created", created)
}

// AddFiles appends more files to a PENDING order.
func (h *OrderHandler) AddFiles(c *fiber.Ctx) error {
	orderID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "multipart form required")
	}

	uploads, err := readUploads(form.File["files"])
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	added, err := h.orderService.AddFiles(c.Context(), orderID, uploads)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "files added", added)
}

// RemoveFile deletes one file; removing the last file destroys the order.
func (h *OrderHandler) RemoveFile(c *fiber.Ctx) error {
	orderID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	fileID, err := paramUint(c, "fileId")
	if err != nil {
		return response.BadRequest(c, "invalid file id")
	}

	if err := h.orderService.RemoveFile(c.Context(), orderID, fileID); err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "file removed", nil)
}

type fileConfigBody struct {
	PaperSize     string `json:"paper_size"`
	ColorMode     string `json:"color_mode"`
	PrintSide     string `json:"print_side"`
	PagesPerSheet int    `json:"pages_per_sheet"`
	PageFilter    string `json:"page_filter"`
	Copies        int    `json:"copies"`
	SpecialNote   string `json:"special_note"`
}

// Configure applies print settings to a PENDING order and returns the
// re-aggregated totals.
func (h *OrderHandler) Configure(c *fiber.Ctx) error {
	orderID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}

	var body struct {
		ApplyToAll bool                    `json:"apply_to_all"`
		Common     fileConfigBody          `json:"common"`
		PerFile    map[uint]fileConfigBody `json:"per_file"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	req := order.ConfigureRequest{ApplyToAll: body.ApplyToAll}
	if body.ApplyToAll {
		req.Common = toFileConfig(v, body.Common)
	} else {
		req.PerFile = make(map[uint]order.FileConfig, len(body.PerFile))
		for id, cfg := range body.PerFile {
			req.PerFile[id] = toFileConfig(v, cfg)
		}
	}
	if !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "invalid print configuration",
			"fields": v.Errors,
		})
	}

	updated, err := h.orderService.Configure(c.Context(), orderID, req)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "order configured", updated)
}

// Quote re-runs aggregation and returns totals without any other change.
func (h *OrderHandler) Quote(c *fiber.Ctx) error {
	orderID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	updated, err := h.orderService.CalculateTotals(c.Context(), orderID)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "totals calculated", fiber.Map{
		"final_sheets":      updated.FinalSheets,
		"total_price":       updated.TotalPrice,
		"commission_amount": updated.CommissionAmount,
		"shop_payout":       updated.ShopPayout,
	})
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	orderID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	o, err := h.orderService.GetOrder(c.Context(), orderID)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "order retrieved", o)
}

// ListMine returns the authenticated customer's order history.
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	orders, err := h.orderService.ListCustomerOrders(c.Context(), claims.UserID)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "orders retrieved", orders)
}

// Checkout opens a gateway charge for the order total.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	orderID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	actor, _ := principal(c)

	charge, err := h.paymentService.Checkout(c.Context(), actor, orderID)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "checkout created", charge)
}

// ConfirmPayment records a successful gateway payment. Idempotent on
// duplicate confirmations.
func (h *OrderHandler) ConfirmPayment(c *fiber.Ctx) error {
	orderID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	var body struct {
		PaymentReference string `json:"payment_reference"`
	}
	if err := c.BodyParser(&body); err != nil || body.PaymentReference == "" {
		return response.BadRequest(c, "payment_reference is required")
	}

	updated, err := h.paymentService.Confirm(c.Context(), orderID, body.PaymentReference)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "payment confirmed", updated)
}

// Cancel exits a not-yet-fulfilled order with a mandatory reason.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	orderID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	actor, err := principal(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	updated, err := h.orderService.Cancel(c.Context(), actor, orderID, body.Reason)
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "order cancelled", updated)
}

// toFileConfig validates one file's print settings while converting them.
func toFileConfig(v *validation.Validator, body fileConfigBody) order.FileConfig {
	v.PaperSize("paper_size", body.PaperSize)
	v.ColorMode("color_mode", body.ColorMode)
	v.PrintSide("print_side", body.PrintSide)
	v.PageFilter("page_filter", body.PageFilter)
	v.PagesPerSheet("pages_per_sheet", body.PagesPerSheet)
	v.Copies("copies", body.Copies)
	v.MaxLength("special_note", body.SpecialNote, validation.MaxDescriptionLength)
	return order.FileConfig{
		PaperSize:     body.PaperSize,
		ColorMode:     body.ColorMode,
		PrintSide:     body.PrintSide,
		PagesPerSheet: body.PagesPerSheet,
		PageFilter:    body.PageFilter,
		Copies:        body.Copies,
		SpecialNote:   body.SpecialNote,
	}
}

// readUploads materializes multipart files into service uploads. Storage
// here is content-addressed under uploads/ by a fresh UUID.
func readUploads(files []*multipart.FileHeader) ([]order.FileUpload, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one file is required")
	}
	uploads := make([]order.FileUpload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s", fh.Filename)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s", fh.Filename)
		}
		uploads = append(uploads, order.FileUpload{
			FileName:   fh.Filename,
			StorageKey: "uploads/" + uuid.NewString(),
			Content:    content,
		})
	}
	return uploads, nil
}
