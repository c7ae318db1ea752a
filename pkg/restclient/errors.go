package restclient

import (
	"errors"
	"fmt"
)

// TransportKind distinguishes why a request never produced a usable
// response.
type TransportKind string

const (
	KindTimeout TransportKind = "timeout"
	KindOffline TransportKind = "offline"
	KindUnknown TransportKind = "unknown"
)

// TransportError is a network-level failure: the request did not reach
// the backend or the response never arrived.
type TransportError struct {
	Kind TransportKind
	Err  error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "request timeout"
	case KindOffline:
		return "network connection failed"
	default:
		if e.Err != nil {
			return fmt.Sprintf("request failed: %v", e.Err)
		}
		return "request failed"
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// BusinessError is a well-formed backend response with success=false.
// Message is the server-provided text, surfaced verbatim.
type BusinessError struct {
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected (code %d)", e.Code)
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// AsBusiness extracts a BusinessError if err carries one.
func AsBusiness(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
