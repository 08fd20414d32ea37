package asaas

// Wire types for the Asaas REST API (v3)

type customerPayload struct {
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CpfCnpj   string `json:"cpfCnpj"`
	Reference string `json:"externalReference,omitempty"`
}

type customerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	CpfCnpj string `json:"cpfCnpj"`
}

type customerListResponse struct {
	Data       []customerResponse `json:"data"`
	TotalCount int                `json:"totalCount"`
}

type discountPayload struct {
	Value            float64 `json:"value"`
	DueDateLimitDays int     `json:"dueDateLimitDays"`
	Type             string  `json:"type"`
}

type finePayload struct {
	Value float64 `json:"value"`
}

type interestPayload struct {
	Value float64 `json:"value"`
}

type paymentPayload struct {
	Customer    string           `json:"customer"`
	BillingType string           `json:"billingType"`
	Value       float64          `json:"value"`
	DueDate     string           `json:"dueDate"`
	Description string           `json:"description,omitempty"`
	Discount    *discountPayload `json:"discount,omitempty"`
	Fine        *finePayload     `json:"fine,omitempty"`
	Interest    *interestPayload `json:"interest,omitempty"`
}

type paymentResponse struct {
	ID          string  `json:"id"`
	Customer    string  `json:"customer"`
	Value       float64 `json:"value"`
	DueDate     string  `json:"dueDate"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	InvoiceURL  string  `json:"invoiceUrl"`
}

type paymentListResponse struct {
	Data       []paymentResponse `json:"data"`
	TotalCount int               `json:"totalCount"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type errorResponse struct {
	Errors []apiError `json:"errors"`
}
