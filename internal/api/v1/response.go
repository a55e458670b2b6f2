package v1

type CollectSuccessResponse struct {
	Success    bool   `json:"success"`
	RequestID  string `json:"request_id"`
	Value      string `json:"value"`
	ReceivedAt string `json:"received_at"`
}

type CollectFailureResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error"`
}

type SendMessageResponse struct {
	Success    bool   `json:"success"`
	MessageSID string `json:"message_sid"`
}

type SweepResponse struct {
	Success      bool `json:"success"`
	ExpiredCount int  `json:"expired_count"`
}

type MessageResponse struct {
	PhoneNumber string  `json:"phone_number"`
	Body        string  `json:"message_body"`
	Direction   string  `json:"direction"`
	RequestID   *string `json:"request_id"`
	CreatedAt   string  `json:"created_at"`
}

type GetMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int               `json:"total"`
}

type InfoRequestResponse struct {
	RequestID      string  `json:"request_id"`
	CallID         string  `json:"call_id"`
	RecipientPhone string  `json:"recipient_phone"`
	InfoType       string  `json:"info_type"`
	Status         string  `json:"status"`
	ReceivedValue  *string `json:"received_value"`
	CreatedAt      string  `json:"created_at"`
	ExpiresAt      string  `json:"expires_at"`
}

type GetRequestsResponse struct {
	Requests []InfoRequestResponse `json:"requests"`
}

type GetCreditsResponse struct {
	TenantID string `json:"tenant_id"`
	Balance  int64  `json:"credits"`
}
