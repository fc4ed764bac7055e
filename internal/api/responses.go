package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// BillingRunResponse is the batch summary returned by the billing job trigger.
type BillingRunResponse struct {
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

// ChargeResult is one line item of an auto-charge run.
type ChargeResult struct {
	BookingID int    `json:"booking_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// ChargeRunResponse is the batch summary returned by the auto-charge job trigger.
type ChargeRunResponse struct {
	Processed int            `json:"processed"`
	Results   []ChargeResult `json:"results"`
}
