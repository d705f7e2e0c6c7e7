// Package notifier delivers candidate-facing emails for lifecycle events.
package notifier

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/JennyYuanZW/JianshanPortal/config"
	"github.com/JennyYuanZW/JianshanPortal/internal/api/application/models"
	"github.com/JennyYuanZW/JianshanPortal/internal/logger"
)

// EmailNotifier sends decision emails over SMTP.
type EmailNotifier struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	frontendURL string
}

// NewEmailNotifier builds a notifier from the server configuration.
// Returns nil when SMTP is not configured; callers treat a nil notifier
// as notifications-off.
func NewEmailNotifier(cfg *config.Configuration) *EmailNotifier {
	if cfg == nil || cfg.SMTP_Host == "" {
		return nil
	}
	from := cfg.SMTP_From
	if from == "" {
		from = cfg.SMTP_Username
	}
	return &EmailNotifier{
		host:        cfg.SMTP_Host,
		port:        cfg.SMTP_Port,
		username:    cfg.SMTP_Username,
		password:    cfg.SMTP_Password,
		from:        from,
		frontendURL: cfg.FrontendURL,
	}
}

// NotifyDecisionReleased emails the candidate that a decision is available.
// The email never states the outcome; the candidate signs in to see it.
func (n *EmailNotifier) NotifyDecisionReleased(ctx context.Context, app *models.Application) error {
	recipient := app.PersonalInfoSnapshot.Email
	if recipient == "" {
		logger.GetAppLogger().WithField("userId", app.UserID).Warn("No email on record, skipping decision notification")
		return nil
	}

	name := app.PersonalInfoSnapshot.FirstName
	if name == "" {
		name = "Applicant"
	}

	body := fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>An update on your application is now available. "+
			"Please sign in to your dashboard to view your result.</p>"+
			"<p><a href=\"%s/dashboard\">Open your dashboard</a></p>",
		name, n.frontendURL)

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", "Your application status has been updated")
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(n.host, n.port, n.username, n.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send decision email: %w", err)
	}

	logger.GetAppLogger().WithField("userId", app.UserID).Info("Decision notification sent")
	return nil
}
