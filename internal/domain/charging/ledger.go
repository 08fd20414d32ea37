package charging

import (
	"context"
	"strings"

	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

// ChargeKey identifies one issued charge as "tenantId-referenceMonth"
type ChargeKey string

// NewChargeKey builds the ledger key for a tenant and reference month
func NewChargeKey(tenantID string, month valueobject.ReferenceMonth) ChargeKey {
	return ChargeKey(tenantID + "-" + string(month))
}

// Month extracts the reference-month part of the key. The month is always
// the last two dash-separated segments ("YYYY-MM"); tenant ids may themselves
// contain dashes.
func (k ChargeKey) Month() (valueobject.ReferenceMonth, bool) {
	parts := strings.Split(string(k), "-")
	if len(parts) < 3 {
		return "", false
	}
	m := valueobject.ReferenceMonth(strings.Join(parts[len(parts)-2:], "-"))
	if !m.IsValid() {
		return "", false
	}
	return m, true
}

func (k ChargeKey) String() string {
	return string(k)
}

// ChargeLedger records which charges this office has already issued, keyed
// by tenant and month. It is a cache over the remote payment ledger, not the
// source of truth; Reconcile heals it when charges are deleted out-of-band.
type ChargeLedger interface {
	// Has reports whether a charge is recorded for the key
	Has(ctx context.Context, key ChargeKey) (bool, error)

	// Get returns the external payment id for the key
	Get(ctx context.Context, key ChargeKey) (string, bool, error)

	// Put records a successfully created charge
	Put(ctx context.Context, key ChargeKey, paymentID string) error

	// Remove drops the entry for the key after a confirmed external deletion
	Remove(ctx context.Context, key ChargeKey) error

	// Entries returns a snapshot of every recorded charge
	Entries(ctx context.Context) (map[ChargeKey]string, error)

	// Reconcile drops entries for the observed months whose payment id is no
	// longer present remotely. Callers must only pass months they observed
	// exhaustively; remoteIDs is the complete set of payment ids that exist
	// for those months.
	Reconcile(ctx context.Context, months []valueobject.ReferenceMonth, remoteIDs map[string]struct{}) ([]ChargeKey, error)
}

// ReconcilePlan computes which ledger entries to drop: those whose month was
// fully observed and whose payment id did not appear remotely. Entries for
// months outside the observed set are never touched, so a partial remote page
// can never cause false pruning. Shared by every ChargeLedger implementation.
func ReconcilePlan(entries map[ChargeKey]string, months []valueobject.ReferenceMonth, remoteIDs map[string]struct{}) []ChargeKey {
	observed := make(map[valueobject.ReferenceMonth]struct{}, len(months))
	for _, m := range months {
		observed[m] = struct{}{}
	}

	var stale []ChargeKey
	for key, paymentID := range entries {
		month, ok := key.Month()
		if !ok {
			continue
		}
		if _, seen := observed[month]; !seen {
			continue
		}
		if _, exists := remoteIDs[paymentID]; !exists {
			stale = append(stale, key)
		}
	}
	return stale
}
