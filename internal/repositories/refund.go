package repositories

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"printhub/internal/models"
)

type RefundRepository interface {
	Create(refund *models.Refund) error
	FindByID(id uint) (*models.Refund, error)
	ListPending() ([]models.Refund, error)
	Update(refund *models.Refund) error

	// SumCompletedSince totals settled refunds, for analytics.
	SumCompleted() (decimal.Decimal, error)
}

type refundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(refund *models.Refund) error {
	if err := r.db.Create(refund).Error; err != nil {
		return fmt.Errorf("failed to create refund: %w", err)
	}
	return nil
}

func (r *refundRepository) FindByID(id uint) (*models.Refund, error) {
	var refund models.Refund
	if err := r.db.Preload("Order").First(&refund, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRefundNotFound
		}
		return nil, fmt.Errorf("failed to get refund: %w", err)
	}
	return &refund, nil
}

func (r *refundRepository) ListPending() ([]models.Refund, error) {
	var refunds []models.Refund
	err := r.db.Preload("Order").
		Where("status = ?", models.RefundStatusPending).
		Order("created_at").
		Find(&refunds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending refunds: %w", err)
	}
	return refunds, nil
}

func (r *refundRepository) Update(refund *models.Refund) error {
	if err := r.db.Save(refund).Error; err != nil {
		return fmt.Errorf("failed to update refund: %w", err)
	}
	return nil
}

func (r *refundRepository) SumCompleted() (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.Model(&models.Refund{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status = ?", models.RefundStatusCompleted).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum refunds: %w", err)
	}
	return row.Total, nil
}
