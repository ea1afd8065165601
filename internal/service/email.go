package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendVerificationEmail(email, token, username string) error {
	verifyURL := fmt.Sprintf("%s/verify-email/%s", s.appURL, token)
	subject := fmt.Sprintf("Welcome to %s - verify your email", s.appName)
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to %s! Confirm your email address by opening this link:\n\n%s\n\nIf you didn't sign up, you can ignore this email.\n",
		username, s.appName, verifyURL,
	)

	return s.send("verification", email, subject, body, verifyURL)
}

func (s *EmailService) SendPasswordResetEmail(email, token, username string) error {
	resetURL := fmt.Sprintf("%s/reset-password/%s", s.appURL, token)
	subject := fmt.Sprintf("%s - reset your password", s.appName)
	body := fmt.Sprintf(
		"Hi %s,\n\nSomeone requested a password reset for your account. Open this link to choose a new password:\n\n%s\n\nThe link expires in one hour. If this wasn't you, ignore this email.\n",
		username, resetURL,
	)

	return s.send("password_reset", email, subject, body, resetURL)
}

func (s *EmailService) send(emailType, to, subject, body, url string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", emailType, "to", to, "subject", subject, "url", url)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", emailType, "to", to)
	}
	return err
}
