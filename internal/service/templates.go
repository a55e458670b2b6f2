package service

import (
	"fmt"

	"github.com/thiagoricci/Rewlio/internal/model"
)

func infoTypeLabel(infoType model.InfoType) string {
	switch infoType {
	case model.InfoTypeEmail:
		return "email address"
	case model.InfoTypeAddress:
		return "full address"
	case model.InfoTypeAccountNumber:
		return "account number"
	default:
		return "information"
	}
}

// correctiveSMS is sent when a reply fails typed validation. The request
// stays pending so the recipient can try again.
func correctiveSMS(validationError string) string {
	return fmt.Sprintf("That doesn't look right.\n\n%s\n\nPlease reply again with the correct information.",
		validationError)
}

// timeoutSMS notifies the recipient that an expired request can no longer
// be answered.
func timeoutSMS() string {
	return "This request has expired.\n\nIf you're still on the call, ask the agent to send a new request."
}
