package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerioboitto/casa-backend/internal/domain/billing"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

// BillArtifactModel is the persistence model for uploaded utility records
type BillArtifactModel struct {
	ID                string          `gorm:"type:varchar(36);primary_key"`
	Utility           string          `gorm:"type:varchar(10);not null;index:idx_artifact_slot,priority:1"`
	Kind              string          `gorm:"type:varchar(10);not null;index:idx_artifact_slot,priority:2"`
	FileName          string          `gorm:"type:varchar(255)"`
	ReferenceMonth    string          `gorm:"type:varchar(7);not null;index:idx_artifact_slot,priority:3"`
	PropertyID        string          `gorm:"type:varchar(36);index"`
	InstallationCode  string          `gorm:"type:varchar(50);index"`
	MeterSerial       string          `gorm:"type:varchar(50)"`
	CurrentReading    *float64        `gorm:""`
	UnitCost          decimal.Decimal `gorm:"type:decimal(12,6);not null;default:0"`
	FlagSurcharge     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	RefundAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MasterConsumption *float64        `gorm:""`
	UploadedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BillArtifactModel) TableName() string {
	return "bill_artifacts"
}

// ToDomain converts the persistence model to a domain BillArtifact
func (m *BillArtifactModel) ToDomain() *billing.BillArtifact {
	return &billing.BillArtifact{
		ID:                m.ID,
		Utility:           billing.Utility(m.Utility),
		Kind:              billing.BillKind(m.Kind),
		FileName:          m.FileName,
		ReferenceMonth:    valueobject.ReferenceMonth(m.ReferenceMonth),
		PropertyID:        m.PropertyID,
		InstallationCode:  m.InstallationCode,
		MeterSerial:       m.MeterSerial,
		CurrentReading:    m.CurrentReading,
		UnitCost:          m.UnitCost,
		FlagSurcharge:     m.FlagSurcharge,
		RefundAmount:      m.RefundAmount,
		MasterConsumption: m.MasterConsumption,
		UploadedAt:        m.UploadedAt,
	}
}

// FromDomain populates the persistence model from a domain BillArtifact
func (m *BillArtifactModel) FromDomain(a *billing.BillArtifact) {
	m.ID = a.ID
	m.Utility = a.Utility.String()
	m.Kind = string(a.Kind)
	m.FileName = a.FileName
	m.ReferenceMonth = a.ReferenceMonth.String()
	m.PropertyID = a.PropertyID
	m.InstallationCode = a.InstallationCode
	m.MeterSerial = a.MeterSerial
	m.CurrentReading = a.CurrentReading
	m.UnitCost = a.UnitCost
	m.FlagSurcharge = a.FlagSurcharge
	m.RefundAmount = a.RefundAmount
	m.MasterConsumption = a.MasterConsumption
	m.UploadedAt = a.UploadedAt
}
