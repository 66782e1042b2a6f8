package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPassenger = errors.New("passenger is not selectable in this session")
	ErrSessionClosed    = errors.New("routing session is closed")
	ErrSessionNotFound  = errors.New("routing session not found")
	ErrAssemblerClosed  = errors.New("route assembler is closed")
)

// Provider statuses produced locally rather than by the directions service.
const (
	StatusTimeout         = "TIMEOUT"
	StatusInvalidResponse = "INVALID_RESPONSE"
	StatusUnavailable     = "UNAVAILABLE"
)

// DataFetchFailure reports that the passenger list could not be retrieved.
type DataFetchFailure struct {
	Err error
}

func (e *DataFetchFailure) Error() string {
	return fmt.Sprintf("fetch passengers: %v", e.Err)
}

func (e *DataFetchFailure) Unwrap() error { return e.Err }

// InvalidPassengerData reports a passenger record lacking usable coordinates.
// It is logged and the record is excluded; it is never shown to users.
type InvalidPassengerData struct {
	PassengerID string
	Reason      string
}

func (e *InvalidPassengerData) Error() string {
	return fmt.Sprintf("invalid passenger %q: %s", e.PassengerID, e.Reason)
}

// RoutingFailure reports a non-success outcome from the route provider.
// Status carries the provider's status string (e.g. ZERO_RESULTS).
type RoutingFailure struct {
	Status  string
	Message string
}

func (e *RoutingFailure) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("routing failed: %s", e.Status)
	}
	return fmt.Sprintf("routing failed: %s: %s", e.Status, e.Message)
}

// AsRoutingFailure returns the RoutingFailure in err's chain, if any.
func AsRoutingFailure(err error) (*RoutingFailure, bool) {
	var rf *RoutingFailure
	if errors.As(err, &rf) {
		return rf, true
	}
	return nil, false
}
