package dto

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse acknowledges an operation without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}
