package domain

import "time"

// Subscriber is a phone number registered for launch notifications.
// The table is keyed by PhoneKey so duplicate registrations are rejected
// by a conditional put; SubscriberID is the opaque identifier handed back
// to callers.
type Subscriber struct {
	PhoneKey     string     `json:"phone" dynamodbav:"phone_key"`
	SubscriberID string     `json:"id" dynamodbav:"subscriber_id"`
	DisplayPhone string     `json:"formatted_phone" dynamodbav:"display_phone"`
	Notified     bool       `json:"notified" dynamodbav:"notified"`
	NotifiedAt   *time.Time `json:"notified_at,omitempty" dynamodbav:"notified_at,omitempty"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
}

type SubscribeRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type SendSMSRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Message     string `json:"message"`
}
