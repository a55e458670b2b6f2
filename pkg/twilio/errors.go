package twilio

const (
	ErrorCodeServerError   = "SERVER_ERROR"   // For 5xx HTTP status
	ErrorCodeTimeout       = "TIMEOUT"        // For context timeout
	ErrorCodeInvalidNumber = "INVALID_NUMBER" // For 400/validation errors
	ErrorCodeAuthFailed    = "AUTH_FAILED"    // For 401/403 on the tenant account
	ErrorCodeNetworkError  = "NETWORK_ERROR"  // For connection failures
)
