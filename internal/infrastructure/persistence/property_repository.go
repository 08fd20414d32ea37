package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rogerioboitto/casa-backend/internal/domain/portfolio"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/persistence/models"
)

// GormPropertyRepository implements portfolio.PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

var _ portfolio.PropertyRepository = (*GormPropertyRepository)(nil)

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID finds a property by its ID
func (r *GormPropertyRepository) FindByID(ctx context.Context, id string) (*portfolio.Property, error) {
	var model models.PropertyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every property record
func (r *GormPropertyRepository) FindAll(ctx context.Context) ([]portfolio.Property, error) {
	var rows []models.PropertyModel
	if err := r.db.WithContext(ctx).Order("address ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	properties := make([]portfolio.Property, 0, len(rows))
	for i := range rows {
		properties = append(properties, *rows[i].ToDomain())
	}
	return properties, nil
}

// Save inserts or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, property *portfolio.Property) error {
	var model models.PropertyModel
	model.FromDomain(property)
	return r.db.WithContext(ctx).Save(&model).Error
}
