package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"printhub/internal/models"
)

type AuditRepository interface {
	Create(entry *models.AuditLog) error
	ListRecent(limit int) ([]models.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(entry *models.AuditLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

func (r *auditRepository) ListRecent(limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
