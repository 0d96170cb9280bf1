package common

// ErrorResponse is the body returned for every failed contact request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// RouteErrorResponse is returned by the catch-all handlers
type RouteErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is returned by the health check
type StatusResponse struct {
	Status string `json:"status"`
}

// Messages returned to callers. None of them carry internal detail.
const (
	MsgInvalidBody     = "Invalid request body."
	MsgBodyTooLarge    = "Request body is too large."
	MsgSendFailed      = "Failed to send email. Please try again later."
	MsgEmailSent       = "Email sent successfully!"
	MsgTooManyRequests = "Too many requests from this IP, please try again later."
	MsgRateLimited     = "Rate limit exceeded. Please try again later."
	MsgRouteNotFound   = "Route not found"
	MsgInternal        = "Something went wrong!"
)

// NewErrorResponse creates a new error API response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   message,
	}
}
