package api

import (
	"errors"
	"fmt"
)

// HTTPError is a response whose status is outside the 2xx range.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.Status, e.URL)
}

// DecodeError is a 2xx response whose body is not the expected JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NetworkError is a transport failure: no usable response was received.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Failure kinds returned by Kind.
const (
	KindHTTP    = "http"
	KindDecode  = "decode"
	KindNetwork = "network"
)

// Kind classifies err as KindHTTP, KindDecode or KindNetwork. It returns
// "" for nil and for errors not produced by this package.
func Kind(err error) string {
	var he *HTTPError
	var de *DecodeError
	var ne *NetworkError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &he):
		return KindHTTP
	case errors.As(err, &de):
		return KindDecode
	case errors.As(err, &ne):
		return KindNetwork
	default:
		return ""
	}
}
