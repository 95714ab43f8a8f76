// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"
	"os"

	"github.com/satyamraj1643/pine/internal/infrastructure/email/templates"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendVerificationEmail(toEmail, code string) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "noreply@pinejournal.app" // Default from address
	}

	fromName := os.Getenv("EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Pine" // Default from name
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendVerificationEmail composes and sends the OTP verification email.
func (c *ResendClient) SendVerificationEmail(toEmail, code string) error {
	subject := "Email Verification - Pine"

	htmlContent := templates.GetVerificationEmailContent(templates.VerificationEmailProps{
		Code: code,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send verification email via Resend: %w", err)
	}

	return nil
}

// NoopService discards every email. Used in tests and local development
// where no Resend key is configured.
type NoopService struct{}

// SendVerificationEmail does nothing.
func (NoopService) SendVerificationEmail(toEmail, code string) error { return nil }
