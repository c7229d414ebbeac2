// internal/notification/providers.go
// Email delivery providers

package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Email is one outbound message
type Email struct {
	To        string
	ToName    string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// EmailProvider delivers email
type EmailProvider interface {
	SendEmail(ctx context.Context, email *Email) error
}

// SendGridProvider delivers email through SendGrid
type SendGridProvider struct {
	apiKey string
	from   string
}

// NewSendGridProvider creates a SendGrid email provider
func NewSendGridProvider(apiKey, from string) EmailProvider {
	return &SendGridProvider{apiKey: apiKey, from: from}
}

// SendEmail sends an email using SendGrid
func (p *SendGridProvider) SendEmail(ctx context.Context, email *Email) error {
	from := mail.NewEmail("Ember", p.from)
	to := mail.NewEmail(email.ToName, email.To)
	message := mail.NewSingleEmail(from, email.Subject, to, email.PlainBody, email.HTMLBody)

	client := sendgrid.NewSendClient(p.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
	}
	return nil
}

// MockProvider logs email instead of sending it
type MockProvider struct {
	SentEmails []Email
}

// NewMockProvider creates a mock email provider
func NewMockProvider() *MockProvider {
	return &MockProvider{SentEmails: make([]Email, 0)}
}

// SendEmail records the email and logs it
func (p *MockProvider) SendEmail(ctx context.Context, email *Email) error {
	p.SentEmails = append(p.SentEmails, *email)
	log.Printf("Mock email to %s: %s", email.To, email.Subject)
	return nil
}
