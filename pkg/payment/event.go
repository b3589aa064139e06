package payment

import (
	"encoding/json"
	"fmt"
)

// Settlement event types the booking engine reacts to. Everything else that
// arrives on the shared webhook channel is acknowledged and ignored.
const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
)

// Event is the envelope of a provider webhook delivery.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object SessionObject `json:"object"`
	} `json:"data"`
}

// SessionObject is the checkout session carried in a settlement event.
type SessionObject struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

// Settlement reports whether the event type carries payment evidence.
func (e *Event) Settlement() bool {
	return e.Type == EventCheckoutCompleted || e.Type == EventAsyncPaymentSucceeded
}

// BookingID returns the booking id embedded in session metadata, if any.
func (e *Event) BookingID() string {
	return e.Data.Object.Metadata["booking_id"]
}

// ParseEvent decodes a webhook payload. Verify the signature first; parsing
// unverified bodies is how injection bugs start.
func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	if event.ID == "" || event.Type == "" {
		return nil, fmt.Errorf("webhook event missing id or type")
	}
	return &event, nil
}
