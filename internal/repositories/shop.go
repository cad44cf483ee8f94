package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printhub/internal/models"
)

type ShopRepository interface {
	Create(shop *models.Shop) error
	FindByID(id uuid.UUID) (*models.Shop, error)
	FindByOwnerID(ownerID uint) (*models.Shop, error)
	Update(shop *models.Shop) error
	ListApproved() ([]models.Shop, error)
	ListPendingApproval() ([]models.Shop, error)

	// AddToPaidTotal atomically increments the shop's paid_total. The
	// amount must already be validated as positive by the caller.
	AddToPaidTotal(id uuid.UUID, amount decimal.Decimal) error

	// AddToEarnings atomically increments the shop's lifetime gross
	// earnings, called when an order completes.
	AddToEarnings(id uuid.UUID, amount decimal.Decimal) error
}

type shopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Create(shop *models.Shop) error {
	if err := r.db.Create(shop).Error; err != nil {
		return fmt.Errorf("failed to create shop: %w", err)
	}
	return nil
}

func (r *shopRepository) FindByID(id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.First(&shop, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return &shop, nil
}

func (r *shopRepository) FindByOwnerID(ownerID uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.Where("owner_id = ?", ownerID).First(&shop).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return &shop, nil
}

func (r *shopRepository) Update(shop *models.Shop) error {
	if err := r.db.Save(shop).Error; err != nil {
		return fmt.Errorf("failed to update shop: %w", err)
	}
	return nil
}

func (r *shopRepository) ListApproved() ([]models.Shop, error) {
	var shops []models.Shop
	if err := r.db.Where("is_approved = ?", true).Order("created_at DESC").Find(&shops).Error; err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	return shops, nil
}

func (r *shopRepository) ListPendingApproval() ([]models.Shop, error) {
	var shops []models.Shop
	if err := r.db.Where("is_verified = ?", false).Order("created_at").Find(&shops).Error; err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	return shops, nil
}

func (r *shopRepository) AddToPaidTotal(id uuid.UUID, amount decimal.Decimal) error {
	return r.addToColumn(id, "paid_total", amount)
}

func (r *shopRepository) AddToEarnings(id uuid.UUID, amount decimal.Decimal) error {
	return r.addToColumn(id, "earnings_total", amount)
}

func (r *shopRepository) addToColumn(id uuid.UUID, column string, amount decimal.Decimal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var shop models.Shop
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&shop, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrShopNotFound
			}
			return fmt.Errorf("failed to lock shop: %w", err)
		}
		res := tx.Model(&shop).UpdateColumn(column,
			gorm.Expr(column+" + ?", amount))
		if res.Error != nil {
			return fmt.Errorf("failed to update shop %s: %w", column, res.Error)
		}
		return nil
	})
}
