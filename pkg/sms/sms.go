package sms

import (
	"context"
	"fmt"
)

// Sender delivers a text message to a phone number. Production deployments
// plug in a gateway implementation; dev mode prints to stdout.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

type LogSender struct{}

var _ Sender = (*LogSender)(nil)

func (LogSender) Send(ctx context.Context, phone, message string) error {
	fmt.Printf("--- SMS to be sent to %s ---\n", phone)
	fmt.Println(message)
	fmt.Println("---------------------------------")
	return nil
}
