// Package v1alpha1 contains wire types exchanged between the PiBoard device
// client and the directory and content services.
package v1alpha1

// Error represents an API error response body
type Error struct {
	// Code provides error classification
	Code string `json:"code"`
	// Message provides error details
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}
