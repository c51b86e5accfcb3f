// Package notify delivers back-office email notifications with transient
// file attachments.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/gomail.v2"
)

// SubmissionPort is the standard secure-SMTP submission port (STARTTLS).
const SubmissionPort = 587

// SendError wraps a transport, authentication, or missing-attachment failure.
// The caller surfaces it and does not retry automatically.
type SendError struct {
	Err error
}

func (e *SendError) Error() string { return fmt.Sprintf("send email: %v", e.Err) }

func (e *SendError) Unwrap() error { return e.Err }

// OutboundMessage is an ephemeral value constructed fresh per send, never
// reused or queued. Attachments reference files that must exist on local
// storage at send time.
type OutboundMessage struct {
	To          string
	Subject     string
	Body        string
	Attachments []string
}

// Mailer delivers one message per call. Delivery is at-most-once from the
// caller's perspective: a timeout after the transport accepted the message
// may still result in delivery.
type Mailer interface {
	Send(msg OutboundMessage) error
}

// SMTPMailer opens one transport session per call: connect, STARTTLS,
// authenticate, send, close. No connection pooling or reuse.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, address, password string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, address, password),
		from:   address,
	}
}

func (m *SMTPMailer) Send(msg OutboundMessage) error {
	for _, path := range msg.Attachments {
		if _, err := os.Stat(path); err != nil {
			return &SendError{Err: fmt.Errorf("attachment %s: %w", filepath.Base(path), err)}
		}
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", TimestampedSubject(msg.Subject))
	gm.SetBody("text/plain", msg.Body)
	for _, path := range msg.Attachments {
		gm.Attach(path)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return &SendError{Err: err}
	}
	return nil
}

var (
	tzOnce sync.Once
	tz     *time.Location
)

// Timestamp returns the current time in the back office's timezone, formatted
// for subject lines and artifact names.
func Timestamp() string {
	tzOnce.Do(func() {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			loc = time.UTC
		}
		tz = loc
	})
	return time.Now().In(tz).Format("20060102_150405")
}

// TimestampedSubject suffixes a subject line with the current timestamp to
// disambiguate repeated sends.
func TimestampedSubject(subject string) string {
	return subject + " - " + Timestamp()
}
