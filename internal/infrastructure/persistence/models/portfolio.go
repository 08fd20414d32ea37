package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerioboitto/casa-backend/internal/domain/portfolio"
)

// TenantModel is the persistence model for tenant records
type TenantModel struct {
	ID          string     `gorm:"type:varchar(36);primary_key"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Email       string     `gorm:"type:varchar(200)"`
	Phone       string     `gorm:"type:varchar(50)"`
	TaxID       string     `gorm:"type:varchar(20);index"`
	PropertyID  string     `gorm:"type:varchar(36);index"`
	CustomerRef string     `gorm:"type:varchar(50)"`
	DueDay      int        `gorm:"not null;default:0"`
	EntryDate   *time.Time `gorm:""`
	ExitDate    *time.Time `gorm:""`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant
func (m *TenantModel) ToDomain() *portfolio.Tenant {
	return &portfolio.Tenant{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		TaxID:       m.TaxID,
		PropertyID:  m.PropertyID,
		CustomerRef: m.CustomerRef,
		DueDay:      m.DueDay,
		EntryDate:   m.EntryDate,
		ExitDate:    m.ExitDate,
	}
}

// FromDomain populates the persistence model from a domain Tenant
func (m *TenantModel) FromDomain(t *portfolio.Tenant) {
	m.ID = t.ID
	m.Name = t.Name
	m.Email = t.Email
	m.Phone = t.Phone
	m.TaxID = t.TaxID
	m.PropertyID = t.PropertyID
	m.CustomerRef = t.CustomerRef
	m.DueDay = t.DueDay
	m.EntryDate = t.EntryDate
	m.ExitDate = t.ExitDate
}

// PropertyModel is the persistence model for property records
type PropertyModel struct {
	ID              string          `gorm:"type:varchar(36);primary_key"`
	Address         string          `gorm:"type:varchar(255);not null"`
	BaseRent        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TenantID        string          `gorm:"type:varchar(36);index"`
	MainMeterID     string          `gorm:"type:varchar(50);index"`
	WaterMeterID    string          `gorm:"type:varchar(50);index"`
	SubMeterID      string          `gorm:"type:varchar(50)"`
	WaterSubMeterID string          `gorm:"type:varchar(50)"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property
func (m *PropertyModel) ToDomain() *portfolio.Property {
	return &portfolio.Property{
		ID:              m.ID,
		Address:         m.Address,
		BaseRent:        m.BaseRent,
		TenantID:        m.TenantID,
		MainMeterID:     m.MainMeterID,
		WaterMeterID:    m.WaterMeterID,
		SubMeterID:      m.SubMeterID,
		WaterSubMeterID: m.WaterSubMeterID,
	}
}

// FromDomain populates the persistence model from a domain Property
func (m *PropertyModel) FromDomain(p *portfolio.Property) {
	m.ID = p.ID
	m.Address = p.Address
	m.BaseRent = p.BaseRent
	m.TenantID = p.TenantID
	m.MainMeterID = p.MainMeterID
	m.WaterMeterID = p.WaterMeterID
	m.SubMeterID = p.SubMeterID
	m.WaterSubMeterID = p.WaterSubMeterID
}
