package acumidata

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned when no API key is configured for the
// requested environment.
var ErrMissingCredential = errors.New("acumidata: missing credential")

// APIError is a non-2xx response from the vendor. Status and body are kept
// verbatim so callers can surface them for diagnosis.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("acumidata: api error %d: %s", e.Status, e.Body)
}

// TransportError wraps network-level failures (DNS, refused, timeout). These
// are never retried automatically; the user re-submits.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "acumidata: transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError reports malformed input caught before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("acumidata: invalid %s: %s", e.Field, e.Reason)
}

// ParseError reports a vendor payload that could not be turned into a Report.
// Raw keeps the payload available for inspection.
type ParseError struct {
	Endpoint string
	Missing  string
	Raw      []byte
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("acumidata: incomplete response from %s: missing %s", e.Endpoint, e.Missing)
}
