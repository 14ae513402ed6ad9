package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/manideepv28/wealthwizard/src/config"
	"github.com/manideepv28/wealthwizard/src/logger"
)

// NewEmailService selects the delivery backend from configuration. An
// incomplete or unknown provider falls back to the mock, which only logs.
func NewEmailService() EmailService {
	if config.Cfg == nil {
		logger.L.Error("Configuration (config.Cfg) is nil. Email service will default to mock.")
		return &MockEmailService{}
	}

	provider := strings.ToLower(config.Cfg.EmailServiceProvider)
	logger.L.Info("Initializing email service", "provider", provider)

	switch provider {
	case "mailgun":
		if config.Cfg.MailgunDomain == "" || config.Cfg.MailgunPrivateAPIKey == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("Mailgun configuration incomplete (Domain, API Key, or SenderEmail missing). Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		mg := mailgun.NewMailgun(config.Cfg.MailgunDomain, config.Cfg.MailgunPrivateAPIKey)
		logger.L.Info("Mailgun client initialized", "domain", config.Cfg.MailgunDomain)
		return &MailgunEmailService{
			mg:          mg,
			senderEmail: config.Cfg.SenderEmail,
			senderName:  config.Cfg.SenderName,
		}
	case "smtp":
		if config.Cfg.SMTPServer == "" || config.Cfg.SMTPUser == "" || config.Cfg.SMTPPassword == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("SMTP configuration incomplete. Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		return &SMTPEmailService{
			SMTPServer:   config.Cfg.SMTPServer,
			SMTPPort:     config.Cfg.SMTPPort,
			SMTPUser:     config.Cfg.SMTPUser,
			SMTPPassword: config.Cfg.SMTPPassword,
			SenderEmail:  config.Cfg.SenderEmail,
			SenderName:   config.Cfg.SenderName,
		}
	default:
		logger.L.Info("Defaulting to MockEmailService.")
		return &MockEmailService{}
	}
}

func alertEmailBody(name, title, description string) string {
	return fmt.Sprintf(`Hi %s,

%s

%s

You can review and dismiss this alert from your dashboard.

Thanks,
The WealthWizard Team`, name, title, description)
}

type SMTPEmailService struct {
	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
	SenderName   string
}

func (s *SMTPEmailService) SendAlertEmail(toEmail, name, title, description string) error {
	from := s.SenderEmail
	to := []string{toEmail}
	subject := fmt.Sprintf("WealthWizard alert: %s", title)
	body := alertEmailBody(name, title, description)

	header := make(map[string]string)
	header["From"] = from
	header["To"] = toEmail
	header["Subject"] = subject
	header["MIME-version"] = "1.0"
	header["Content-Type"] = "text/plain; charset=\"UTF-8\""
	message := ""
	for k, v := range header {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body
	auth := smtp.PlainAuth("", s.SMTPUser, s.SMTPPassword, s.SMTPServer)
	addr := fmt.Sprintf("%s:%d", s.SMTPServer, s.SMTPPort)
	err := smtp.SendMail(addr, auth, from, to, []byte(message))
	if err != nil {
		logger.L.Error("Failed to send alert email via SMTP", "error", err, "to", toEmail)
		return fmt.Errorf("failed to send alert email via SMTP: %w", err)
	}
	logger.L.Info("Alert email sent successfully via SMTP", "to", toEmail, "title", title)
	return nil
}

type MailgunEmailService struct {
	mg          mailgun.Mailgun
	senderEmail string
	senderName  string
}

func (s *MailgunEmailService) SendAlertEmail(toEmail, name, title, description string) error {
	from := fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	subject := fmt.Sprintf("WealthWizard alert: %s", title)
	recipient := toEmail

	plainTextBody := alertEmailBody(name, title, description)

	htmlBody := fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; line-height: 1.6;">
			<p>Hi %s,</p>
			<p><strong>%s</strong></p>
			<p>%s</p>
			<p>You can review and dismiss this alert from your dashboard.</p>
			<p>Thanks,<br>The WealthWizard Team</p>
		</body>
	</html>`, name, title, description)

	message := s.mg.NewMessage(from, subject, plainTextBody, recipient)
	message.SetHtml(htmlBody)
	message.AddTag("portfolio-alert")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		logger.L.Error("Failed to send alert email via Mailgun", "error", err, "to", toEmail, "mailgunResp", resp, "mailgunId", id)
		return fmt.Errorf("mailgun send failed for alert: %w. Response: %s", err, resp)
	}
	logger.L.Info("Alert email sent successfully via Mailgun", "to", toEmail, "id", id, "title", title)
	return nil
}

type MockEmailService struct{}

func (m *MockEmailService) SendAlertEmail(toEmail, name, title, description string) error {
	logger.L.Info("MockEmailService: Would send alert email.", "to", toEmail, "name", name, "title", title, "description", description)
	return nil
}
