package constants

// Context keys set by middleware and read by handlers
const (
	ContextKeyRequestID = "RequestID"
	ContextKeyContact   = "contact"
	ContextKeyRateLimit = "rateLimit"
)
