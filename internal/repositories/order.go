package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printhub/internal/models"
)

// OrderTotals aggregates completed-order money per shop.
type OrderTotals struct {
	Gross      decimal.Decimal
	Commission decimal.Decimal
	ShopPayout decimal.Decimal
	Count      int64
}

type OrderRepository interface {
	Create(order *models.Order) error
	FindByID(id uint) (*models.Order, error)
	Update(order *models.Order) error
	Delete(order *models.Order) error

	// UpdateLocked loads the order with all files under a row-level lock,
	// applies fn and persists the result in one transaction. fn returning
	// an error aborts the transaction with the order untouched. Every
	// status transition and aggregation goes through this so a transition
	// observed to start from state S either fully succeeds against S or
	// fails cleanly because another writer advanced the order first.
	UpdateLocked(id uint, fn func(order *models.Order) error) (*models.Order, error)

	// FindReadyByPIN is the deprecated PIN-only pickup lookup, scoped to a
	// shop. Two READY orders at one shop can share a PIN; this returns the
	// oldest match.
	FindReadyByPIN(shopID uuid.UUID, pin string) (*models.Order, error)

	ListByCustomer(customerID uint) ([]models.Order, error)
	ListByPhone(phone string) ([]models.Order, error)
	ListByShop(shopID uuid.UUID, statuses []string) ([]models.Order, error)

	// CompletedTotals sums money over COMPLETED orders for one shop.
	CompletedTotals(shopID uuid.UUID) (OrderTotals, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Files").Preload("Shop").First(&order, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) Update(order *models.Order) error {
	if err := r.db.Save(order).Error; err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

func (r *orderRepository) Delete(order *models.Order) error {
	// Files cascade with the order.
	if err := r.db.Select(clause.Associations).Delete(order).Error; err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

func (r *orderRepository) UpdateLocked(id uint, fn func(order *models.Order) error) (*models.Order, error) {
	var order models.Order
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}
		if err := tx.Where("order_id = ?", id).Find(&order.Files).Error; err != nil {
			return fmt.Errorf("failed to load order files: %w", err)
		}
		if err := fn(&order); err != nil {
			return err
		}
		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		for i := range order.Files {
			if err := tx.Save(&order.Files[i]).Error; err != nil {
				return fmt.Errorf("failed to save order file: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindReadyByPIN(shopID uuid.UUID, pin string) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Where("shop_id = ? AND pin_code = ? AND status = ?", shopID, pin, models.OrderStatusReady).
		Order("created_at").
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by pin: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) ListByCustomer(customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Files").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) ListByPhone(phone string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Files").
		Where("customer_phone = ?", phone).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) ListByShop(shopID uuid.UUID, statuses []string) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.Preload("Files").Where("shop_id = ?", shopID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list shop orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) CompletedTotals(shopID uuid.UUID) (OrderTotals, error) {
	var row struct {
		Gross      decimal.Decimal
		Commission decimal.Decimal
		ShopPayout decimal.Decimal
		Count      int64
	}
	err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0) AS gross, "+
			"COALESCE(SUM(commission_amount), 0) AS commission, "+
			"COALESCE(SUM(shop_payout), 0) AS shop_payout, "+
			"COUNT(*) AS count").
		Where("shop_id = ? AND status = ?", shopID, models.OrderStatusCompleted).
		Scan(&row).Error
	if err != nil {
		return OrderTotals{}, fmt.Errorf("failed to sum completed orders: %w", err)
	}
	return OrderTotals{
		Gross:      row.Gross,
		Commission: row.Commission,
		ShopPayout: row.ShopPayout,
		Count:      row.Count,
	}, nil
}
