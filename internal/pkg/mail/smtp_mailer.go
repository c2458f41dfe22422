package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/fitpulseapp/fitpulse/internal/pkg/env"
)

// SMTPMailer sends emails via SMTP
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendActivationMail sends the account activation link to a new user.
func SendActivationMail(to string, name string, token string) error {
	domain := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
	link := fmt.Sprintf("%s/activate?token=%s", domain, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>welcome to FitPulse! Please confirm your email address by clicking the link below:</p><p><a href=\"%s\">Activate your account</a></p><p>If you did not sign up, you can ignore this email.</p>",
		name, link,
	)
	return SendMail(to, "Activate your FitPulse account", body)
}

// SendPasswordResetMail sends a password reset link.
func SendPasswordResetMail(to string, name string, token string) error {
	domain := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
	link := fmt.Sprintf("%s/reset-password?token=%s", domain, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>we received a request to reset your password. Click the link below to choose a new one:</p><p><a href=\"%s\">Reset password</a></p><p>The link is valid for one hour. If you did not request a reset, you can ignore this email.</p>",
		name, link,
	)
	return SendMail(to, "Reset your FitPulse password", body)
}
