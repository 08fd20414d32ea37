package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rogerioboitto/casa-backend/internal/domain/charging"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/persistence/models"
)

// GormChargeLedger implements charging.ChargeLedger on the charge_records
// table. The database backing makes the ledger survive restarts and be
// shared by every instance pointed at the same database.
type GormChargeLedger struct {
	db *gorm.DB
}

var _ charging.ChargeLedger = (*GormChargeLedger)(nil)

// NewGormChargeLedger creates a new GormChargeLedger
func NewGormChargeLedger(db *gorm.DB) *GormChargeLedger {
	return &GormChargeLedger{db: db}
}

// Has reports whether a charge is recorded for the key
func (l *GormChargeLedger) Has(ctx context.Context, key charging.ChargeKey) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.ChargeRecordModel{}).
		Where("charge_key = ?", key.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Get returns the external payment id for the key
func (l *GormChargeLedger) Get(ctx context.Context, key charging.ChargeKey) (string, bool, error) {
	var record models.ChargeRecordModel
	err := l.db.WithContext(ctx).First(&record, "charge_key = ?", key.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return record.PaymentID, true, nil
}

// Put records a successfully created charge
func (l *GormChargeLedger) Put(ctx context.Context, key charging.ChargeKey, paymentID string) error {
	month, _ := key.Month()
	record := models.ChargeRecordModel{
		ChargeKey:      key.String(),
		TenantID:       tenantIDOf(key, month),
		ReferenceMonth: month.String(),
		PaymentID:      paymentID,
		CreatedAt:      time.Now().UTC(),
	}
	return l.db.WithContext(ctx).Save(&record).Error
}

// Remove drops the entry for the key
func (l *GormChargeLedger) Remove(ctx context.Context, key charging.ChargeKey) error {
	return l.db.WithContext(ctx).
		Delete(&models.ChargeRecordModel{}, "charge_key = ?", key.String()).Error
}

// Entries returns a snapshot of every recorded charge
func (l *GormChargeLedger) Entries(ctx context.Context) (map[charging.ChargeKey]string, error) {
	var rows []models.ChargeRecordModel
	if err := l.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make(map[charging.ChargeKey]string, len(rows))
	for _, r := range rows {
		entries[charging.ChargeKey(r.ChargeKey)] = r.PaymentID
	}
	return entries, nil
}

// Reconcile drops entries for the observed months whose payment id no longer
// exists remotely
func (l *GormChargeLedger) Reconcile(ctx context.Context, months []valueobject.ReferenceMonth, remoteIDs map[string]struct{}) ([]charging.ChargeKey, error) {
	entries, err := l.Entries(ctx)
	if err != nil {
		return nil, err
	}
	stale := charging.ReconcilePlan(entries, months, remoteIDs)
	if len(stale) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(stale))
	for _, key := range stale {
		keys = append(keys, key.String())
	}
	if err := l.db.WithContext(ctx).
		Delete(&models.ChargeRecordModel{}, "charge_key IN ?", keys).Error; err != nil {
		return nil, err
	}
	return stale, nil
}

// tenantIDOf strips the month suffix from a charge key
func tenantIDOf(key charging.ChargeKey, month valueobject.ReferenceMonth) string {
	s := key.String()
	suffix := "-" + month.String()
	if month != "" && len(s) > len(suffix) && s[len(s)-len(suffix):] == suffix {
		return s[:len(s)-len(suffix)]
	}
	return s
}
