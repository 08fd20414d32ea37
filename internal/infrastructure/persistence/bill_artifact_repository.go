package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rogerioboitto/casa-backend/internal/domain/billing"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/persistence/models"
)

// GormBillArtifactRepository implements billing.ArtifactRepository using GORM
type GormBillArtifactRepository struct {
	db *gorm.DB
}

var _ billing.ArtifactRepository = (*GormBillArtifactRepository)(nil)

// NewGormBillArtifactRepository creates a new GormBillArtifactRepository
func NewGormBillArtifactRepository(db *gorm.DB) *GormBillArtifactRepository {
	return &GormBillArtifactRepository{db: db}
}

// FindByID finds an artifact by its ID
func (r *GormBillArtifactRepository) FindByID(ctx context.Context, id string) (*billing.BillArtifact, error) {
	var model models.BillArtifactModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every stored artifact, newest upload first
func (r *GormBillArtifactRepository) FindAll(ctx context.Context) ([]billing.BillArtifact, error) {
	var rows []models.BillArtifactModel
	if err := r.db.WithContext(ctx).Order("uploaded_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	artifacts := make([]billing.BillArtifact, 0, len(rows))
	for i := range rows {
		artifacts = append(artifacts, *rows[i].ToDomain())
	}
	return artifacts, nil
}

// Save inserts or updates an artifact
func (r *GormBillArtifactRepository) Save(ctx context.Context, artifact *billing.BillArtifact) error {
	var model models.BillArtifactModel
	model.FromDomain(artifact)
	return r.db.WithContext(ctx).Save(&model).Error
}

// UpdateReading corrects the meter index of an artifact. An artifact gaining
// an index becomes a reading, matching ingestion-time classification.
func (r *GormBillArtifactRepository) UpdateReading(ctx context.Context, id string, reading float64) error {
	result := r.db.WithContext(ctx).Model(&models.BillArtifactModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_reading": reading,
			"kind":            string(billing.BillKindReading),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an artifact permanently
func (r *GormBillArtifactRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.BillArtifactModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
