package billing

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

// Utility identifies which metered utility an artifact belongs to
type Utility string

const (
	UtilityEnergy Utility = "ENERGY"
	UtilityWater  Utility = "WATER"
)

// IsValid returns true if the utility is valid
func (u Utility) IsValid() bool {
	switch u {
	case UtilityEnergy, UtilityWater:
		return true
	default:
		return false
	}
}

// String returns the string representation of Utility
func (u Utility) String() string {
	return string(u)
}

// BillKind distinguishes meter-reading artifacts from provider invoices.
// The tag is assigned once at ingestion (see Classify) and carried on the
// record instead of being re-derived on every read.
type BillKind string

const (
	BillKindReading BillKind = "READING"
	BillKindInvoice BillKind = "INVOICE"
)

// BillArtifact is one uploaded utility record: either a meter-index
// observation or a provider invoice for a reference month. Records are
// immutable after ingestion except CurrentReading, which operators may
// correct manually.
type BillArtifact struct {
	ID               string
	Utility          Utility
	Kind             BillKind
	FileName         string
	ReferenceMonth   valueobject.ReferenceMonth
	PropertyID       string // empty when only the installation code is known
	InstallationCode string // provider-side meter id, fallback grouping key
	MeterSerial      string

	// Reading fields
	CurrentReading *float64

	// Invoice fields
	UnitCost          decimal.Decimal
	FlagSurcharge     decimal.Decimal // tariff-flag additional cost, whole invoice
	RefundAmount      decimal.Decimal // credit returned on the invoice
	MasterConsumption *float64        // total consumption across the shared upstream meter

	UploadedAt time.Time
}

// readingToken marks reading placeholders in scanned file names. Uploads
// produced by the meter-photo flow are named "Leitura ...", so the token
// rescues readings whose extracted index was lost. Known approximation: an
// invoice whose file name happens to contain the token is misclassified.
const readingToken = "leitura"

// Classify tags an artifact as a reading or an invoice. An artifact with a
// meter index is a reading; one whose file name carries the reading token is
// a reading placeholder; anything else, including ambiguous records, defaults
// to invoice.
func Classify(fileName string, currentReading *float64) BillKind {
	if currentReading != nil {
		return BillKindReading
	}
	if strings.Contains(strings.ToLower(fileName), readingToken) {
		return BillKindReading
	}
	return BillKindInvoice
}

// GroupKey returns the grouping key for the artifact's property-or-installation
// identity. Artifacts that resolve to no property group under their
// installation code so sibling readings and invoices still pair up.
func (a *BillArtifact) GroupKey() string {
	if a.PropertyID != "" {
		return a.PropertyID
	}
	if a.InstallationCode != "" {
		return "inst_" + a.InstallationCode
	}
	return "unknown"
}

// PropertyKey returns the key used for previous-reading lookups
func (a *BillArtifact) PropertyKey() string {
	if a.PropertyID != "" {
		return a.PropertyID
	}
	return a.InstallationCode
}

// ArtifactRepository provides access to bill artifacts
type ArtifactRepository interface {
	FindByID(ctx context.Context, id string) (*BillArtifact, error)
	FindAll(ctx context.Context) ([]BillArtifact, error)
	Save(ctx context.Context, artifact *BillArtifact) error
	UpdateReading(ctx context.Context, id string, reading float64) error
	Delete(ctx context.Context, id string) error
}
