package services

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationEmail(email, name, token string) error
	SendInviteEmail(email, code string) error
	SendPasswordResetEmail(email, token string) error
	SendPasswordChangedEmail(email string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
}

const emailSendAttempts = 3

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, frontendURL string) EmailService {
	return &emailService{
		dialer:      gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword),
		from:        fromEmail,
		frontendURL: frontendURL,
	}
}

// send retries transient SMTP failures a few times before giving up.
func (s *emailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	var err error
	for attempt := 1; attempt <= emailSendAttempts; attempt++ {
		if err = s.dialer.DialAndSend(m); err == nil {
			return nil
		}
		log.Warnf("[email][send] attempt %d/%d to %s failed: %v", attempt, emailSendAttempts, to, err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	return fmt.Errorf("failed to send email to %s: %w", to, err)
}

func (s *emailService) SendVerificationEmail(email, name, token string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to WaveMedia, %s!</h2>
		<p>Please confirm your email address to activate your account.</p>
		<p><a href="%s/verify-email?token=%s">Verify my email</a></p>
		<p>The link is valid for 24 hours.</p>
	`, name, s.frontendURL, token)
	return s.send(email, "Verify your WaveMedia account", body)
}

func (s *emailService) SendInviteEmail(email, code string) error {
	body := fmt.Sprintf(`
		<h3>You have been invited to join WaveMedia as a manager</h3>
		<p>Complete your registration within 7 days using this invitation code:</p>
		<p><strong>%s</strong></p>
		<p><a href="%s/register-manager">Finish registration</a></p>
	`, code, s.frontendURL)
	return s.send(email, "WaveMedia manager invitation", body)
}

func (s *emailService) SendPasswordResetEmail(email, token string) error {
	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>We received a request to reset the password for your account.</p>
		<p><a href="%s/reset-password?token=%s">Reset my password</a></p>
		<p>The link is valid for 1 hour. If you did not request this, ignore this email.</p>
	`, s.frontendURL, token)
	return s.send(email, "Password reset request", body)
}

func (s *emailService) SendPasswordChangedEmail(email string) error {
	body := `
		<h3>Your password was changed</h3>
		<p>If this was not you, contact support immediately.</p>
	`
	return s.send(email, "Your WaveMedia password was changed", body)
}
