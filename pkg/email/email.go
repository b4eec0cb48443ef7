package email

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/kedarvyas/mandirapp/internal/config"
	"gopkg.in/gomail.v2"
)

type Email struct {
	config *config.Config
}

func New(cfg *config.Config) (*Email, error) {
	return &Email{
		config: cfg,
	}, nil
}

func (e *Email) Send(ctx context.Context, input *SendEmailInput) error {
	// In dev mode
	if e.config.IsDev {
		fmt.Printf("--- Email to be sent to %s ---\n", input.To)
		fmt.Printf("Subject: %s\n", input.Subject)
		fmt.Println("Body:")
		fmt.Println(input.Body)
		fmt.Println("---------------------------------")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", FromEmail)
	m.SetHeader("To", input.To)
	m.SetHeader("Subject", input.Subject)
	m.SetBody("text/html", input.Body)

	d := gomail.NewDialer(SMTPHost, SMTPPort, FromEmail, e.config.Email.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
