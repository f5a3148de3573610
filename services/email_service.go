package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"sigmat-api/config"
)

// Mailer delivers out-of-band copies of admin messages.
type Mailer interface {
	Enabled() bool
	SendAdminMessage(email, name, title, content string) error
}

type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	var dialer *gomail.Dialer
	if cfg.SMTPHost != "" {
		dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}

	return &EmailService{
		config: cfg,
		dialer: dialer,
	}
}

func (es *EmailService) Enabled() bool {
	return es.dialer != nil
}

// SendAdminMessage e-mails the text of a direct admin notification to the user.
func (es *EmailService) SendAdminMessage(email, name, title, content string) error {
	if !es.Enabled() {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("%s - %s", es.config.FromName, title))

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #b4005a; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>%s</h1>
        </div>
        <div class="content">
            <h2>Pozdrav %s!</h2>
            <p>%s</p>
        </div>
        <div class="footer">
            <p>Ova poruka je poslana automatski, molimo ne odgovarajte.</p>
        </div>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(es.config.FromName), html.EscapeString(name), html.EscapeString(content))

	m.SetBody("text/html", htmlBody)
	m.AddAlternative("text/plain", fmt.Sprintf("Pozdrav %s!\n\n%s", name, content))

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
