package remote

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransport    = errors.New("remote call failed")
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// ErrorKind classifies transport failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUnavailable
	KindUnauthorized
	KindStatus
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindUnauthorized:
		return "unauthorized"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// TransportError is a classified remote failure.
type TransportError struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("remote %s: %s", e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels and any *TransportError of the same kind.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return true
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	}
	t, ok := target.(*TransportError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// kindForStatus maps an HTTP status of a failed response to an ErrorKind.
func kindForStatus(code int) ErrorKind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindUnavailable
	default:
		return KindStatus
	}
}

func statusError(op string, code int, body []byte) *TransportError {
	msg := string(body)
	if len(msg) > 256 {
		msg = msg[:256]
	}
	return &TransportError{Kind: kindForStatus(code), Op: op, StatusCode: code, Message: msg}
}
