package gateway

// NetworkErrorDetail is the normalized detail for transport-level failures:
// the request primitive itself failed (offline, DNS, refused connection).
const NetworkErrorDetail = "Network Error"

// APIError is the uniform rejection shape surfaced by every gateway operation.
// StatusCode is 0 for network-level failures. Raw carries the server's full
// rejection payload for form-level display.
type APIError struct {
	StatusCode int
	Detail     string
	Raw        map[string]any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Detail
}

// IsNetwork reports whether the failure never reached the server.
func (e *APIError) IsNetwork() bool {
	return e.StatusCode == 0
}

// networkError builds the normalized transport failure.
func networkError() *APIError {
	return &APIError{Detail: NetworkErrorDetail}
}
