package remote

import "fmt"

// ComputeError is a domain-level failure reported by the calculation
// service, e.g. division by zero. The call itself succeeded.
type ComputeError struct {
	Code    string
	Message string
	Status  int
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("compute error %s: %s", e.Code, e.Message)
}

// TransportError means the call could not be completed or the response
// could not be understood: dial failures, timeouts, 5xx, bad bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("calculator %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
