package worker

import (
	"fmt"
	"net/smtp"
	"strconv"

	"go.uber.org/zap"

	"github.com/herdup/herdup/config"
)

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers rendered emails.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender sends mail through an authenticated SMTP relay.
type SMTPSender struct {
	cfg config.EmailConfig
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers msg as a single-part HTML email.
func (s *SMTPSender) Send(msg Message) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	body := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.cfg.FromName, s.cfg.FromAddress, msg.To, msg.Subject, msg.HTML,
	))
	addr := s.cfg.SMTPHost + ":" + strconv.Itoa(s.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.cfg.FromAddress, []string{msg.To}, body); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender writes emails to the log instead of sending them. Used when SMTP is not configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a sender that only logs.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs msg.
func (s *LogSender) Send(msg Message) error {
	s.logger.Info("email not sent (SMTP not configured)",
		zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.String("html", msg.HTML))
	return nil
}
