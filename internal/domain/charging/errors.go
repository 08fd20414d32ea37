package charging

import "github.com/rogerioboitto/casa-backend/internal/domain/shared"

// Charge issuance errors. Each precondition and submission failure surfaces
// a distinct error so operators can tell them apart.
var (
	// ErrMissingTaxID indicates the tenant has no tax identifier on record
	ErrMissingTaxID = shared.NewDomainError("MISSING_TAX_ID", "tenant has no tax identifier (CPF/CNPJ)")

	// ErrMissingDueDay indicates the tenant has no configured payment due day
	ErrMissingDueDay = shared.NewDomainError("MISSING_DUE_DAY", "tenant has no configured due day")

	// ErrNothingToCharge indicates the computed total payable is not positive
	ErrNothingToCharge = shared.NewDomainError("NOTHING_TO_CHARGE", "total payable is zero or negative")

	// ErrDuplicateCharge indicates a charge for this tenant and month already
	// exists, detected either in the local ledger or by the remote description
	// marker
	ErrDuplicateCharge = shared.NewDomainError("DUPLICATE_CHARGE", "a charge for this tenant and month already exists")

	// ErrCustomerResolutionFailed indicates the external customer record could
	// not be found or created
	ErrCustomerResolutionFailed = shared.NewDomainError("CUSTOMER_RESOLUTION_FAILED", "could not resolve or create the provider customer")

	// ErrStaleCustomerReference indicates the stored customer reference is no
	// longer valid on the provider side. Issuance retries exactly once after
	// re-resolving the customer.
	ErrStaleCustomerReference = shared.NewDomainError("STALE_CUSTOMER_REFERENCE", "stored customer reference rejected by the provider")

	// ErrChargeSubmissionFailed indicates the provider rejected the payment
	// creation request. Terminal, never retried.
	ErrChargeSubmissionFailed = shared.NewDomainError("CHARGE_SUBMISSION_FAILED", "payment provider rejected the charge")

	// ErrChargeInFlight indicates an issuance for the same tenant is still
	// running in this process
	ErrChargeInFlight = shared.NewDomainError("CHARGE_IN_FLIGHT", "a charge for this tenant is already being issued")
)
