package mailer

import (
	"fmt"
	"strings"

	"commercial-hub-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendMagicLink(toEmail, token, redirectTo string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	clientURL   string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderEmail, clientURL string, log logger.ILogger) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		clientURL:   clientURL,
		logger:      log,
	}
}

// magicLinkURL points the link at the requesting client's own origin, which
// forwards the token to the verify endpoint. Falls back to the configured
// client URL when the request carried no redirect target.
func magicLinkURL(clientURL, redirectTo, token string) string {
	base := strings.TrimRight(redirectTo, "/")
	if base == "" {
		base = strings.TrimRight(clientURL, "/")
	}
	return fmt.Sprintf("%s/auth/callback?token=%s", base, token)
}

func (s *emailService) SendMagicLink(toEmail, token, redirectTo string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Commercial Hub sign-in link")

	signInLink := magicLinkURL(s.clientURL, redirectTo, token)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Sign in to Commercial Hub</h2>
			<p>Click the button below to sign in. No password needed.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Sign In</a>
			<p>Or copy this link:</p>
			<p>%s</p>
			<p>This link will expire in 15 minutes and can only be used once.</p>
			<p>If you didn't request this, please ignore this email.</p>
		</div>
	`, signInLink, signInLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("Mailer", "Failed to send magic link", map[string]interface{}{
			"email": toEmail,
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info("Mailer", "Magic link sent", map[string]interface{}{"email": toEmail})
	return nil
}
