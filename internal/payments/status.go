package payments

// Status is the local interpretation of a gateway payment status after
// a redirect-back. Only Succeeded completes a booking; everything else
// leaves the client on the payment step for a manual retry.
type Status string

const (
	StatusSucceeded             Status = "succeeded"
	StatusProcessing            Status = "processing"
	StatusRequiresPaymentMethod Status = "requires_payment_method"
	StatusUnknown               Status = "unknown"
)

// ParseStatus maps a raw gateway status value to the local outcome.
func ParseStatus(raw string) Status {
	switch raw {
	case "succeeded":
		return StatusSucceeded
	case "processing":
		return StatusProcessing
	case "requires_payment_method":
		return StatusRequiresPaymentMethod
	}
	return StatusUnknown
}

// Succeeded reports whether the status confirms the payment.
func (s Status) Succeeded() bool { return s == StatusSucceeded }

// Message returns the user-facing text for the status.
func (s Status) Message() string {
	switch s {
	case StatusSucceeded:
		return "Payment succeeded!"
	case StatusProcessing:
		return "Your payment is processing."
	case StatusRequiresPaymentMethod:
		return "Your payment was not successful, please try again."
	}
	return "Something went wrong."
}
