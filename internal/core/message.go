package core

import "time"

// InboundMessage is one message received on a tenant inbox. To is the inbox
// number the provider delivered to, From is the sender identity.
type InboundMessage struct {
	ID         string    `json:"id"`
	To         string    `json:"to"`
	From       string    `json:"from"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}
