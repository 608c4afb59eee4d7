package faults

import "net/http"

// Kind is the category of a failure as seen by callers.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "notFound"
	KindStorage    Kind = "storageFault"
	KindNetwork    Kind = "networkUnreachable"
	KindRender     Kind = "renderFault"
)

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	switch k {
	case KindValidation, KindNotFound, KindStorage, KindNetwork, KindRender:
		return true
	}
	return false
}

// Expected reports whether the kind is a normal outcome of caller input
// rather than a fault of the system.
func (k Kind) Expected() bool {
	return k == KindValidation || k == KindNotFound
}

// Retryable reports whether repeating the same request may succeed.
func (k Kind) Retryable() bool {
	switch k {
	case KindStorage, KindNetwork, KindRender:
		return true
	}
	return false
}

// HTTPStatus returns the response status for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// KindForStatus maps a response status back to a kind, for responses that
// carry no kind of their own.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusServiceUnavailable || status == http.StatusBadGateway || status == http.StatusGatewayTimeout:
		return KindNetwork
	default:
		return KindStorage
	}
}
