package types

// PaginationResponse represents pagination information for list endpoints
type PaginationResponse struct {
	// Total number of items returned in this page
	Total int `json:"total"`

	// Maximum number of items per page
	Limit int `json:"limit"`

	// Number of items skipped from the beginning of the result set
	Offset int `json:"offset"`
}

// ListResponse defines a generic response structure for listing resources
type ListResponse[T any] struct {
	// Array of resource items
	Rows []T `json:"rows"`

	// Pagination information for the result set
	Pagination PaginationResponse `json:"pagination"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	// Error message describing what went wrong
	Error string `json:"error"`

	// Optional additional details, such as the job's current status on an
	// invalid-state refusal
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Success bool `json:"success"`

	// Optional data returned by the operation
	Data interface{} `json:"data,omitempty"`
}

// ErrInvalidInput builds the error body for a validation failure
func ErrInvalidInput(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// ErrServer builds the error body for an internal failure; callers pass a
// stable message, never raw error detail
func ErrServer(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// Success builds the standard success envelope
func Success(data interface{}) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}
