package models

import "time"

// ChargeRecordModel is the persistence model for the charge ledger:
// one row per issued charge, keyed by tenant and reference month
type ChargeRecordModel struct {
	ChargeKey      string    `gorm:"type:varchar(50);primary_key"`
	TenantID       string    `gorm:"type:varchar(36);not null;index"`
	ReferenceMonth string    `gorm:"type:varchar(7);not null;index"`
	PaymentID      string    `gorm:"type:varchar(50);not null;index"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChargeRecordModel) TableName() string {
	return "charge_records"
}
