package analytics

import "fmt"

// AuthError wraps a failed bearer-token acquisition. Fatal for the request,
// never retried.
type AuthError struct {
	Err error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *AuthError) Unwrap() error {
	return e.Err
}

// UpstreamError carries a non-2xx response of the analytics backend
type UpstreamError struct {
	StatusCode int
	Body       []byte
	Message    string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}
