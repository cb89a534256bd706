package utils

import (
	"context"
	"fmt"

	"github.com/mnuddindev/gamepulse/pkg/logger"
	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP and app settings passed in from app config.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	AppURL       string
	FromEmail    string
}

// SendCriticVerifiedEmail notifies a critic that their identity document
// passed verification. Failure to send is the caller's to log, never fatal.
func SendCriticVerifiedEmail(ctx context.Context, config EmailConfig, email, username string, confidence float64, log *logger.Logger) error {
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>GamePulse critic verification</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 40px auto;">
        <h1 style="color: #1a73e8;">You are verified, %s!</h1>
        <p>Your press credential was checked and accepted (confidence %.0f%%).
        Your reviews now carry the verified critic badge.</p>
        <p><a href="%s/critic/dashboard">Go to your critic dashboard</a></p>
        <p style="color: #888; font-size: 12px;">GamePulse - game reviews by people who play them.</p>
    </div>
</body>
</html>`, username, confidence*100, config.AppURL)

	m := gomail.NewMessage()
	m.SetHeader("From", config.FromEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your GamePulse critic account is verified")
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		log.Warn(ctx).WithMeta(Map{"email": email, "error": err.Error()}).Logs("Failed to send critic verified email")
		return WrapError(err, ErrInternalServerError.Code, "Failed to send email")
	}

	log.Info(ctx).WithMeta(Map{"email": email}).Logs("Critic verified email sent")
	return nil
}
