package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"printhub/internal/models"
)

type OrderFileRepository interface {
	Create(file *models.OrderFile) error
	FindByID(id uint) (*models.OrderFile, error)
	FindByOrderID(orderID uint) ([]models.OrderFile, error)
	Update(file *models.OrderFile) error
	Delete(id uint) error
	CountByOrderID(orderID uint) (int64, error)
}

type orderFileRepository struct {
	db *gorm.DB
}

func NewOrderFileRepository(db *gorm.DB) OrderFileRepository {
	return &orderFileRepository{db: db}
}

func (r *orderFileRepository) Create(file *models.OrderFile) error {
	if err := r.db.Create(file).Error; err != nil {
		return fmt.Errorf("failed to create order file: %w", err)
	}
	return nil
}

func (r *orderFileRepository) FindByID(id uint) (*models.OrderFile, error) {
	var file models.OrderFile
	if err := r.db.First(&file, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get order file: %w", err)
	}
	return &file, nil
}

func (r *orderFileRepository) FindByOrderID(orderID uint) ([]models.OrderFile, error) {
	var files []models.OrderFile
	if err := r.db.Where("order_id = ?", orderID).Order("id").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list order files: %w", err)
	}
	return files, nil
}

func (r *orderFileRepository) Update(file *models.OrderFile) error {
	if err := r.db.Save(file).Error; err != nil {
		return fmt.Errorf("failed to update order file: %w", err)
	}
	return nil
}

func (r *orderFileRepository) Delete(id uint) error {
	res := r.db.Delete(&models.OrderFile{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order file: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (r *orderFileRepository) CountByOrderID(orderID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.OrderFile{}).Where("order_id = ?", orderID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count order files: %w", err)
	}
	return count, nil
}
