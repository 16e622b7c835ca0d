package notify

import "context"

// Message is a single notification to deliver.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier delivers notifications to users. Delivery is fire-and-forget from
// the caller's point of view: implementations may fail, but state transitions
// that triggered the notification must never be rolled back because of it.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
