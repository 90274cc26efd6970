package vrf

// VRFError is a custom error type for coordinator errors
type VRFError string

// Error implements the error interface
func (e VRFError) Error() string {
	return string(e)
}

const (
	ErrNonexistentRequest    VRFError = "nonexistent request"
	ErrInvalidSubscription   VRFError = "invalid subscription"
	ErrInvalidConsumer       VRFError = "invalid consumer"
	ErrInsufficientBalance   VRFError = "insufficient subscription balance"
	ErrNumWordsTooBig        VRFError = "num words out of range"
	ErrGasLimitTooBig        VRFError = "callback gas limit out of range"
	ErrInvalidAmount         VRFError = "amount must be positive"
	ErrFulfillmentInProgress VRFError = "fulfillment already in progress"
	ErrCallbackFailed        VRFError = "consumer callback failed"
	ErrUnknownToConsumer     VRFError = "request unknown to consumer"
	ErrInvalidProof          VRFError = "invalid proof"
	ErrNilConsumer           VRFError = "consumer cannot be nil"
	ErrNilConfig             VRFError = "config cannot be nil"
)
