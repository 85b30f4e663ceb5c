package quoteflow

import "fmt"

// Flow error codes surfaced to clients.
const (
	CodeMissingServiceInfo  = "missingServiceInfo"
	CodeIncompleteSelection = "incompleteSelection"
	CodeInsufficientFunds   = "insufficientFunds"
	CodePaymentFailed       = "paymentFailed"
	CodeVerificationFailed  = "verificationFailed"
	CodeInvalidStep         = "invalidStep"
	CodeFlowNotFound        = "flowNotFound"
	CodeStaleCheckout       = "staleCheckout"
)

type FlowError struct {
	Code    string
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewFlowError(code, msg string) error {
	return &FlowError{
		Code:    code,
		Message: msg,
	}
}

// User-facing messages for the recoverable payment failures.
const (
	msgMissingServiceInfo  = "This booking has no service attached; please contact support."
	msgIncompleteSelection = "Please choose a date, time slot and payment method before proceeding."
	msgInsufficientFunds   = "Your wallet balance is not enough for this payment."
	msgPaymentFailed       = "Payment could not be completed. Please try again."
	msgVerificationFailed  = "We could not verify your payment. If you were charged, it will be reversed."
)
