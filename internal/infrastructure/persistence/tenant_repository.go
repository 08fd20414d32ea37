package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rogerioboitto/casa-backend/internal/domain/portfolio"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/persistence/models"
)

// GormTenantRepository implements portfolio.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

var _ portfolio.TenantRepository = (*GormTenantRepository)(nil)

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id string) (*portfolio.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every tenant record
func (r *GormTenantRepository) FindAll(ctx context.Context) ([]portfolio.Tenant, error) {
	var rows []models.TenantModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	tenants := make([]portfolio.Tenant, 0, len(rows))
	for i := range rows {
		tenants = append(tenants, *rows[i].ToDomain())
	}
	return tenants, nil
}

// Save inserts or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *portfolio.Tenant) error {
	var model models.TenantModel
	model.FromDomain(tenant)
	return r.db.WithContext(ctx).Save(&model).Error
}

// UpdateCustomerRef persists the payment-provider customer id
func (r *GormTenantRepository) UpdateCustomerRef(ctx context.Context, tenantID, customerRef string) error {
	result := r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("id = ?", tenantID).
		Update("customer_ref", customerRef)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
