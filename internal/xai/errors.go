package xai

import "fmt"

// ErrorKind classifies transport failures.
type ErrorKind int

const (
	// KindNetwork covers dial, TLS, proxy and timeout failures.
	KindNetwork ErrorKind = iota
	// KindHTTPStatus means the provider answered with a non-2xx status.
	KindHTTPStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindHTTPStatus:
		return "http_status"
	default:
		return "network"
	}
}

// TransportError is returned by Client.Send for every failed call.
type TransportError struct {
	Kind       ErrorKind
	StatusCode int    // set for KindHTTPStatus
	Body       string // response body, set for KindHTTPStatus
	Err        error  // underlying cause, set for KindNetwork
}

func (e *TransportError) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("xai status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("xai network: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
