package service

import "context"

// MessageSender delivers one rendered text to a phone number and
// returns the provider's delivery identifier.
type MessageSender interface {
	Send(ctx context.Context, toPhone, body string) (string, error)
}
