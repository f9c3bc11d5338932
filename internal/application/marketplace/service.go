package marketplace

import (
	"context"

	"tessera-backend/internal/domain"
	"tessera-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the read-only property catalog.
type Service struct {
	DB *gorm.DB
}

// GetProperties lists properties, optionally filtered by status.
func (s *Service) GetProperties(ctx context.Context, status string) ([]domain.Property, error) {
	db := s.DB.WithContext(ctx)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	var properties []domain.Property
	if err := db.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// GetPropertyByID returns a single property.
func (s *Service) GetPropertyByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	var property domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", id).First(&property).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Property not found")
		}
		return nil, err
	}
	return &property, nil
}
