package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"student_mgmt/internal/metrics"
	"student_mgmt/internal/model"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const welcomeSubject = "Welcome to Student Management System"

// Notifier sends account notifications
type Notifier interface {
	SendWelcome(ctx context.Context, user *model.User) error
}

// SMTPMailer delivers notifications over SMTP
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer for the given SMTP server
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendWelcome mails the welcome message to the user's address
func (m *SMTPMailer) SendWelcome(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(WelcomeMessage(m.from, user)); err != nil {
		return fmt.Errorf("failed to send welcome email to %s: %w", user.Email, err)
	}
	return nil
}

// WelcomeMessage builds the welcome email for a newly registered user
func WelcomeMessage(from string, user *model.User) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", welcomeSubject)
	msg.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nWelcome to our Student Management System. Your account has been created successfully.",
		user.Username))
	return msg
}

// LogNotifier only logs; it stands in when no SMTP server is configured
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendWelcome(_ context.Context, user *model.User) error {
	n.log.Info("welcome email skipped, SMTP not configured",
		zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return nil
}

// Async hands notifications to a background goroutine so callers never wait on delivery.
// Delivery errors are logged and counted, never returned.
type Async struct {
	next    Notifier
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(next Notifier, log *zap.Logger) *Async {
	return &Async{next: next, log: log, timeout: 30 * time.Second}
}

func (a *Async) SendWelcome(_ context.Context, user *model.User) error {
	u := *user
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		err := a.next.SendWelcome(ctx, &u)
		metrics.ObserveWelcomeEmail(err)
		if err != nil {
			a.log.Warn("welcome email not delivered", zap.Int64("user_id", u.ID), zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until every queued notification has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}
