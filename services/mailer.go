package services

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional email through SendGrid. With no API key
// configured it logs instead of sending, which keeps OTP flows usable in
// development.
type Mailer struct {
	client    *sendgrid.Client
	fromEmail string
}

var Mail *Mailer

func InitializeMailer(apiKey, fromEmail string) {
	m := &Mailer{fromEmail: fromEmail}
	if apiKey != "" {
		m.client = sendgrid.NewSendClient(apiKey)
	}
	Mail = m
}

func (m *Mailer) Send(toEmail, subject, body string) error {
	if m.client == nil {
		log.Printf("mailer disabled, would send to %s: %s", toEmail, subject)
		return nil
	}

	from := mail.NewEmail("SAVR", m.fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// SendOTP delivers a login/registration code.
func (m *Mailer) SendOTP(toEmail, purpose, code string) error {
	subject := fmt.Sprintf("SAVR %s OTP", purpose)
	body := fmt.Sprintf("Your OTP is %s. It expires in 5 minutes.", code)
	return m.Send(toEmail, subject, body)
}

// SendPartnerApproval notifies an approved delivery partner and hands over
// their onboarding OTP.
func (m *Mailer) SendPartnerApproval(toEmail, name, code string) error {
	subject := "SAVR Partner Approved: Your OTP"
	body := fmt.Sprintf("Hello %s,\n\nYour partner account has been approved. Use this OTP to sign in: %s\nExpires in 5 minutes.", name, code)
	return m.Send(toEmail, subject, body)
}
