package order

import "errors"

var (
	// ErrOrderNotFound is returned when the order lookup fails
	ErrOrderNotFound = errors.New("order not found")
	// ErrUserNotFound is returned when the purchasing user does not exist
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidTransition is returned for a target state the machine forbids
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrNoOpTransition is returned when the order is already in the target state
	ErrNoOpTransition = errors.New("order already in requested status")
	// ErrOrderingClosed is returned when the network is toggled off in settings
	ErrOrderingClosed = errors.New("ordering is currently closed for this network")
	// ErrBatchTooLarge is returned when a bulk request exceeds the entry bound
	ErrBatchTooLarge = errors.New("too many orders in batch")
)

// ValidationError reports a malformed request field. It is raised before any
// database transaction opens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
