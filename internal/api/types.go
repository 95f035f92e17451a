package api

import "github.com/mattjoyce/inlet/internal/message"

// StatusResponse is the body for accepted deliveries and liveness.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body for every rejected request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessagesResponse is the paginated listing envelope.
type MessagesResponse struct {
	Data   []message.Message `json:"data"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// Default values
const (
	DefaultLimit       = 50
	DefaultMaxBodySize = 1048576 // 1 MB
)
