package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"printhub/internal/models"
)

type DisputeRepository interface {
	Create(dispute *models.Dispute) error
	FindByID(id uint) (*models.Dispute, error)
	FindByOrderID(orderID uint) ([]models.Dispute, error)
	ListOpen() ([]models.Dispute, error)
	Update(dispute *models.Dispute) error
}

type disputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) DisputeRepository {
	return &disputeRepository{db: db}
}

func (r *disputeRepository) Create(dispute *models.Dispute) error {
	if err := r.db.Create(dispute).Error; err != nil {
		return fmt.Errorf("failed to create dispute: %w", err)
	}
	return nil
}

func (r *disputeRepository) FindByID(id uint) (*models.Dispute, error) {
	var dispute models.Dispute
	if err := r.db.Preload("Order").First(&dispute, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDisputeNotFound
		}
		return nil, fmt.Errorf("failed to get dispute: %w", err)
	}
	return &dispute, nil
}

func (r *disputeRepository) FindByOrderID(orderID uint) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.Where("order_id = ?", orderID).Order("created_at DESC").Find(&disputes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list disputes: %w", err)
	}
	return disputes, nil
}

func (r *disputeRepository) ListOpen() ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.Preload("Order").
		Where("status IN ?", []string{models.DisputeStatusPending, models.DisputeStatusInReview}).
		Order("created_at").
		Find(&disputes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open disputes: %w", err)
	}
	return disputes, nil
}

func (r *disputeRepository) Update(dispute *models.Dispute) error {
	if err := r.db.Save(dispute).Error; err != nil {
		return fmt.Errorf("failed to update dispute: %w", err)
	}
	return nil
}
