package order

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printhub/internal/models"
	"printhub/internal/repositories"
	"printhub/internal/services/audit"
	"printhub/internal/services/document"
	"printhub/internal/services/pricing"
)

// Cache is the slice of the cache layer the order service touches.
type Cache interface {
	GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, bool)
	CacheShop(ctx context.Context, shop *models.Shop) error
	InvalidateShop(ctx context.Context, id uuid.UUID) error
	InvalidateOrder(ctx context.Context, id uint) error
}

// Service owns order intake, configuration, aggregation and the fulfillment
// lifecycle.
type Service struct {
	orders  repositories.OrderRepository
	files   repositories.OrderFileRepository
	shops   repositories.ShopRepository
	refunds repositories.RefundRepository
	pages   document.PageCounter
	cache   Cache
	audit   audit.Recorder
}

func NewService(
	orders repositories.OrderRepository,
	files repositories.OrderFileRepository,
	shops repositories.ShopRepository,
	refunds repositories.RefundRepository,
	pages document.PageCounter,
	cache Cache,
	auditRec audit.Recorder,
) *Service {
	if orders == nil || files == nil || shops == nil || refunds == nil {
		panic("order service: repositories are required")
	}
	if pages == nil {
		pages = document.NewPageCounter()
	}
	if auditRec == nil {
		auditRec = audit.NoopRecorder{}
	}
	return &Service{
		orders:  orders,
		files:   files,
		shops:   shops,
		refunds: refunds,
		pages:   pages,
		cache:   cache,
		audit:   auditRec,
	}
}

// CreateOrder opens a PENDING order with the first batch of files. Files
// with disallowed extensions are skipped; if none survive the order is not
// created at all.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	shop, err := s.getShop(ctx, req.ShopID)
	if err != nil {
		return nil, err
	}
	if !shop.IsActive() {
		return nil, ErrShopUnavailable
	}

	valid := validUploads(req.Files)
	if len(valid) == 0 {
		return nil, ErrNoValidFiles
	}

	order := &models.Order{
		ShopID:        shop.ID,
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Status:        models.OrderStatusPending,
		TotalPrice:    decimal.Zero,
	}
	for _, upload := range valid {
		order.Files = append(order.Files, s.newOrderFile(upload))
	}
	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	s.audit.Record(req.CustomerID, "order.create", "order", itoa(order.ID),
		audit.Detailf("%d file(s) at shop %s", len(order.Files), shop.ID))
	return order, nil
}

// AddFiles appends more files to a PENDING order.
func (s *Service) AddFiles(ctx context.Context, orderID uint, uploads []FileUpload) ([]models.OrderFile, error) {
	valid := validUploads(uploads)
	if len(valid) == 0 {
		return nil, ErrNoValidFiles
	}

	var added []models.OrderFile
	_, err := s.orders.UpdateLocked(orderID, func(order *models.Order) error {
		if order.Status != models.OrderStatusPending {
			return ErrNotEditable
		}
		for _, upload := range valid {
			file := s.newOrderFile(upload)
			file.OrderID = order.ID
			order.Files = append(order.Files, file)
		}
		added = order.Files[len(order.Files)-len(valid):]
		return nil
	})
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	s.invalidate(ctx, orderID)
	return added, nil
}

// RemoveFile deletes one file from a PENDING order. An order left with zero
// files is destroyed, not archived.
func (s *Service) RemoveFile(ctx context.Context, orderID, fileID uint) error {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return s.mapRepoErr(err)
	}
	if order.Status != models.OrderStatusPending {
		return ErrNotEditable
	}

	file, err := s.files.FindByID(fileID)
	if err != nil || file.OrderID != orderID {
		return ErrOrderNotFound
	}
	if err := s.files.Delete(fileID); err != nil {
		return err
	}

	remaining, err := s.files.CountByOrderID(orderID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := s.orders.Delete(order); err != nil {
			return err
		}
		s.audit.Record(order.CustomerID, "order.destroy", "order", itoa(orderID),
			"last file removed")
	}
	s.invalidate(ctx, orderID)
	return nil
}

// Configure applies print settings and re-aggregates totals. Only allowed
// while the order is still PENDING.
func (s *Service) Configure(ctx context.Context, orderID uint, req ConfigureRequest) (*models.Order, error) {
	updated, err := s.orders.UpdateLocked(orderID, func(order *models.Order) error {
		if order.Status != models.OrderStatusPending {
			return ErrNotEditable
		}
		for i := range order.Files {
			cfg, ok := s.configFor(&order.Files[i], req)
			if !ok {
				continue
			}
			applyConfig(&order.Files[i], cfg)
		}
		return s.aggregate(ctx, order)
	})
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	s.invalidate(ctx, orderID)
	s.audit.Record(updated.CustomerID, "order.configure", "order", itoa(orderID),
		audit.Detailf("total %s, %d sheets", updated.TotalPrice.StringFixed(2), updated.FinalSheets))
	return updated, nil
}

// CalculateTotals re-prices every file and re-aggregates the order under a
// lock, so concurrent sibling edits never produce partially-summed totals.
func (s *Service) CalculateTotals(ctx context.Context, orderID uint) (*models.Order, error) {
	updated, err := s.orders.UpdateLocked(orderID, func(order *models.Order) error {
		return s.aggregate(ctx, order)
	})
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	s.invalidate(ctx, orderID)
	return updated, nil
}

// GetOrder returns one order with its files.
func (s *Service) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	return order, nil
}

// ListCustomerOrders returns a customer's order history.
func (s *Service) ListCustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	return s.orders.ListByCustomer(customerID)
}

// ListShopOrders returns a shop's orders for the owner's dashboard.
func (s *Service) ListShopOrders(ctx context.Context, actor Principal, statuses []string) ([]models.Order, error) {
	shop, err := s.shops.FindByOwnerID(actor.UserID)
	if err != nil {
		return nil, ErrNotShopOwner
	}
	return s.orders.ListByShop(shop.ID, statuses)
}

// aggregate reprices all files from the shop's live price table and
// commission rate, then snapshots the results on the order. Rounding is
// applied once, at the commission step.
func (s *Service) aggregate(ctx context.Context, order *models.Order) error {
	shop, err := s.getShop(ctx, order.ShopID)
	if err != nil {
		return err
	}

	total := decimal.Zero
	sheets := 0
	for i := range order.Files {
		f := &order.Files[i]
		res, err := pricing.Calculate(f.PagesCount, pricing.Config{
			PaperSize:     f.PaperSize,
			ColorMode:     f.ColorMode,
			PrintSide:     f.PrintSide,
			PagesPerSheet: f.PagesPerSheet,
			PageFilter:    f.PageFilter,
			Copies:        f.Copies,
		}, shop)
		if err != nil {
			return err
		}
		f.PricePerSheet = res.PricePerSheet
		f.FinalSheets = res.FinalSheets
		f.TotalPrice = res.TotalPrice
		total = total.Add(res.TotalPrice)
		sheets += res.FinalSheets
	}

	order.TotalPrice = total
	order.FinalSheets = sheets
	order.CommissionAmount = shop.Commission(total)
	order.ShopPayout = total.Sub(order.CommissionAmount)
	return nil
}

func (s *Service) newOrderFile(upload FileUpload) models.OrderFile {
	return models.OrderFile{
		StorageKey:    upload.StorageKey,
		FileName:      upload.FileName,
		FileSizeMB:    document.SizeMB(int64(len(upload.Content))),
		PagesCount:    s.pages.PageCount(upload.FileName, upload.Content),
		PaperSize:     models.PaperA4,
		ColorMode:     models.ColorBW,
		PrintSide:     models.SideSingle,
		PagesPerSheet: 1,
		PageFilter:    models.FilterAll,
		Copies:        1,
	}
}

func (s *Service) configFor(file *models.OrderFile, req ConfigureRequest) (FileConfig, bool) {
	if req.ApplyToAll {
		return req.Common, true
	}
	cfg, ok := req.PerFile[file.ID]
	return cfg, ok
}

func applyConfig(file *models.OrderFile, cfg FileConfig) {
	file.PaperSize = cfg.PaperSize
	file.ColorMode = cfg.ColorMode
	file.PrintSide = cfg.PrintSide
	file.PagesPerSheet = cfg.PagesPerSheet
	file.PageFilter = cfg.PageFilter
	file.Copies = cfg.Copies
	file.SpecialNote = cfg.SpecialNote
}

func (s *Service) getShop(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
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
		s.cache.CacheShop(ctx, shop)
	}
	return shop, nil
}

func (s *Service) invalidate(ctx context.Context, orderID uint) {
	if s.cache != nil {
		s.cache.InvalidateOrder(ctx, orderID)
	}
}

func (s *Service) mapRepoErr(err error) error {
	switch err {
	case repositories.ErrOrderNotFound:
		return ErrOrderNotFound
	case repositories.ErrShopNotFound:
		return ErrShopNotFound
	}
	return err
}

func validUploads(uploads []FileUpload) []FileUpload {
	var valid []FileUpload
	for _, u := range uploads {
		if document.Allowed(u.FileName) {
			valid = append(valid, u)
		}
	}
	return valid
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
