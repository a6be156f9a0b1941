package sms

import (
	"context"
	"fmt"
	"strings"
)

// Status is the provider's view of a message right after submission.
type Status string

const (
	StatusDelivered Status = "delivered"
	StatusQueued    Status = "queued"
	StatusSent      Status = "sent"
	StatusSending   Status = "sending"
	StatusFailed    Status = "failed"
)

// Result holds the outcome of an accepted submission. A non-zero ErrorCode
// means the provider took the message but flagged it (for example a
// compliance hold discovered on the post-submit status check).
type Result struct {
	MessageID    string
	Status       Status
	ErrorCode    int
	ErrorMessage string
}

// Gateway sends SMS messages. The destination must already be in
// international-dialing form (see phone.ToE164).
type Gateway interface {
	Send(ctx context.Context, to, body string) (*Result, error)
}

// FailureKind partitions provider-side send failures into the closed set
// the application branches on.
type FailureKind int

const (
	FailureOther FailureKind = iota
	// FailurePendingCompliance: delivery held pending sender-registration
	// (A2P campaign) approval. Not a hard failure from the subscriber's
	// point of view.
	FailurePendingCompliance
	FailureInvalidRecipient
	FailureInvalidSender
	FailureAuth
)

// SendError is a classified hard failure from the gateway.
type SendError struct {
	Kind       FailureKind
	Code       int
	Message    string
	MessageID  string
	HTTPStatus int
}

func (e *SendError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("sms send failed (code %d): %s", e.Code, e.Message)
	}
	return "sms send failed: " + e.Message
}

// Provider error codes with a known meaning. Twilio numbering.
const (
	codeInvalidRecipient    = 21211 // malformed "to" number
	codeUnverifiedRecipient = 21608 // trial account, recipient not verified
	codeInvalidSender       = 21614 // "from" is not an SMS-capable provider number
	codeCampaignUnderReview = 21610 // messaging held for campaign review
	codeUnregisteredNumber  = 30034 // sender not registered with an A2P campaign
)

// Classify maps a provider error to a FailureKind. The code table is
// authoritative; the message text catches compliance holds reported
// without a stable code.
func Classify(code int, message string, httpStatus int) FailureKind {
	switch code {
	case codeUnregisteredNumber, codeCampaignUnderReview:
		return FailurePendingCompliance
	case codeInvalidRecipient, codeUnverifiedRecipient:
		return FailureInvalidRecipient
	case codeInvalidSender:
		return FailureInvalidSender
	}
	if httpStatus == 401 {
		return FailureAuth
	}
	for _, marker := range []string{"A2P", "campaign", "Unregistered"} {
		if strings.Contains(message, marker) {
			return FailurePendingCompliance
		}
	}
	return FailureOther
}

// ComplianceHoldNotice is surfaced to subscribers when delivery is held
// pending campaign approval. The subscription itself has succeeded.
const ComplianceHoldNotice = "Your confirmation SMS is held pending carrier campaign approval " +
	"(typically 2-3 weeks). Your phone number has been saved and you will " +
	"receive notifications once the campaign is active."

// QueuedDeliveryNotice accompanies a queued submission on the direct-send path.
const QueuedDeliveryNotice = "The message is queued; delivery may be delayed until carrier " +
	"campaign approval completes."

// Describe renders a user-facing explanation for a classified failure.
func Describe(e *SendError) string {
	switch e.Kind {
	case FailurePendingCompliance:
		return "The carrier campaign is under review; messages cannot be sent until it is approved. " +
			"This typically takes 2-3 weeks."
	case FailureInvalidRecipient:
		return "Invalid or unverified recipient phone number."
	case FailureInvalidSender:
		return "The sender phone number is not associated with the SMS provider account."
	case FailureAuth:
		return "Invalid SMS provider credentials."
	default:
		if e.Message != "" {
			return e.Message
		}
		return "Message could not be sent."
	}
}
