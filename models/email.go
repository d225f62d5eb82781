package models

import "time"

// Email kinds recorded in the email log.
const (
	EmailKindInquiryReply      = "inquiry_reply"
	EmailKindPropertyBroadcast = "property_broadcast"
	EmailKindTest              = "test"
)

// InquiryReplyRequest is the body of POST /api/email/inquiry/reply.
type InquiryReplyRequest struct {
	Message   string `json:"message"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

// PropertyBroadcastRequest is the body of POST /api/email/property/submit.
// Property is the record returned by the backend after creation.
type PropertyBroadcastRequest struct {
	Property    Row          `json:"property"`
	Subscribers []Subscriber `json:"subscribers"`
}

// BroadcastResult summarises one property broadcast.
type BroadcastResult struct {
	Recipients []string `json:"recipients"`
	Sent       int      `json:"sent"`
	Failed     int      `json:"failed"`
}

// EmailLogEntry records one send attempt.
type EmailLogEntry struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
