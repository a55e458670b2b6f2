package constants

const (
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	ErrCodeMissingFields       = "MISSING_FIELDS"
	ErrCodeInvalidPhoneNumber  = "INVALID_PHONE_NUMBER"
	ErrCodeTenantNotConfigured = "TENANT_NOT_CONFIGURED"
	ErrCodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	ErrCodeSmsSendFailed       = "SMS_SEND_FAILED"
	ErrCodeRequestExpired      = "REQUEST_EXPIRED"
	ErrCodeRequestTimeout      = "REQUEST_TIMEOUT"
	ErrCodeMessageTooLong      = "MESSAGE_TOO_LONG"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

const (
	ErrMsgInvalidRequestBody  = "failed to parse request body"
	ErrMsgMissingFields       = "missing required fields"
	ErrMsgInvalidPhoneNumber  = "phone number must be in E.164 format"
	ErrMsgTenantNotConfigured = "Twilio credentials not configured for tenant"
	ErrMsgInsufficientCredits = "insufficient credits"
	ErrMsgSmsSendFailed       = "failed to send SMS"
	ErrMsgRequestExpired      = "request expired or invalid"
	ErrMsgRequestTimeout      = "request timed out"
	ErrMsgMessageTooLong      = "message too long (max 1600 characters)"
	ErrMsgInternalError       = "Internal server error"
)

var errorMessages = map[string]string{
	ErrCodeInvalidRequestBody:  ErrMsgInvalidRequestBody,
	ErrCodeMissingFields:       ErrMsgMissingFields,
	ErrCodeInvalidPhoneNumber:  ErrMsgInvalidPhoneNumber,
	ErrCodeTenantNotConfigured: ErrMsgTenantNotConfigured,
	ErrCodeInsufficientCredits: ErrMsgInsufficientCredits,
	ErrCodeSmsSendFailed:       ErrMsgSmsSendFailed,
	ErrCodeRequestExpired:      ErrMsgRequestExpired,
	ErrCodeRequestTimeout:      ErrMsgRequestTimeout,
	ErrCodeMessageTooLong:      ErrMsgMessageTooLong,
	ErrCodeInternalError:       ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeMissingFields, ErrCodeInvalidPhoneNumber,
		ErrCodeTenantNotConfigured, ErrCodeMessageTooLong:
		return 400
	case ErrCodeInsufficientCredits:
		return 402
	case ErrCodeRequestExpired, ErrCodeRequestTimeout:
		return 408
	case ErrCodeSmsSendFailed:
		return 500
	default:
		return 500
	}
}
