package models

// Error contains the error code and human readable message
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error envelope returned by all handlers
type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

// PaginationInfo describes the page window of a list response
type PaginationInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// NewErrorResponse builds an ErrorResponse with the given code and message
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   Error{Code: code, Message: message},
	}
}
