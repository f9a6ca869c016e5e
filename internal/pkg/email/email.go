package email

import (
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Notifier sends admission related mail
type Notifier interface {
	SendAdmissionDecision(toEmail, toName, programName, status string) error
	SendStudentWelcome(toEmail, toName, enrollmentNo, password string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier delivers mail through an SMTP relay
type SMTPNotifier struct {
	config SMTPConfig
	logger zerolog.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(config SMTPConfig, logger zerolog.Logger) *SMTPNotifier {
	return &SMTPNotifier{config: config, logger: logger, send: smtp.SendMail}
}

func (s *SMTPNotifier) SendAdmissionDecision(toEmail, toName, programName, status string) error {
	subject := fmt.Sprintf("Your application for %s was %s", programName, strings.ToLower(status))
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your admission application for <strong>%s</strong> has been <strong>%s</strong>.</p>",
		toName, programName, strings.ToLower(status))
	return s.sendHTML(toEmail, subject, body)
}

func (s *SMTPNotifier) SendStudentWelcome(toEmail, toName, enrollmentNo, password string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hello %s,</p><p>Your student account is ready. Enrollment number: <strong>%s</strong>.</p>", toName, enrollmentNo)
	if password != "" {
		fmt.Fprintf(&b, "<p>Sign in with <strong>%s</strong> and the temporary password <strong>%s</strong>, then change it.</p>", toEmail, password)
	}
	return s.sendHTML(toEmail, "Welcome to the institute", b.String())
}

func (s *SMTPNotifier) sendHTML(toEmail, subject, htmlBody string) error {
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.config.From)
	fmt.Fprintf(&msg, "To: %s\r\n", toEmail)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(htmlBody)

	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	if err := s.send(addr, auth, s.config.From, []string{toEmail}, []byte(msg.String())); err != nil {
		s.logger.Error().Err(err).Str("server", addr).Msg("failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogNotifier only logs; used when SMTP is not configured
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendAdmissionDecision(toEmail, _, programName, status string) error {
	n.logger.Info().Str("to", toEmail).Str("program", programName).Str("status", status).
		Msg("email disabled, admission decision not sent")
	return nil
}

func (n *LogNotifier) SendStudentWelcome(toEmail, _, enrollmentNo, _ string) error {
	n.logger.Info().Str("to", toEmail).Str("enrollment_no", enrollmentNo).
		Msg("email disabled, welcome mail not sent")
	return nil
}
