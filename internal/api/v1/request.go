package v1

// CollectInfoRequest is the flat payload used by the test harness and any
// caller that carries its tenant explicitly.
type CollectInfoRequest struct {
	TenantID     string `json:"tenant_id" validate:"required"`
	CallID       string `json:"call_id" validate:"required"`
	CallerNumber string `json:"caller_number" validate:"required,e164"`
	InfoType     string `json:"info_type"`
	Message      string `json:"message" validate:"required"`
}

// AgentCollectRequest is the voice-agent tool-call payload. The tenant comes
// from the URL path instead of the body.
type AgentCollectRequest struct {
	Call struct {
		CallID     string `json:"call_id"`
		FromNumber string `json:"from_number"`
	} `json:"call"`
	Name string `json:"name"`
	Args struct {
		Message  string `json:"message"`
		InfoType string `json:"info_type"`
	} `json:"args"`
}

type SendMessageRequest struct {
	TenantID    string `json:"tenant_id" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	Body        string `json:"message_body" validate:"required"`
}
