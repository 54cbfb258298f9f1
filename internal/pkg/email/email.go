package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/attendly/attendance-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService defines the interface for sending emails
type EmailService interface {
	SendWelcome(to, fullName, role, tempPassword string) error
	SendLeaveDecision(to, fullName, leaveType, startDate, endDate, status string, rejectionReason *string) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance. With no SMTP host
// configured the service logs instead of sending.
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type welcomeEmailData struct {
	FullName     string
	Role         string
	TempPassword string
}

func (s *emailServiceImpl) SendWelcome(to, fullName, role, tempPassword string) error {
	var body bytes.Buffer
	err := s.templates.ExecuteTemplate(&body, "welcome.html", welcomeEmailData{
		FullName:     fullName,
		Role:         role,
		TempPassword: tempPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, "Your attendance account is ready", body.String())
}

type leaveDecisionEmailData struct {
	FullName        string
	LeaveType       string
	StartDate       string
	EndDate         string
	Status          string
	RejectionReason string
}

func (s *emailServiceImpl) SendLeaveDecision(to, fullName, leaveType, startDate, endDate, status string, rejectionReason *string) error {
	data := leaveDecisionEmailData{
		FullName:  fullName,
		LeaveType: leaveType,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    status,
	}
	if rejectionReason != nil {
		data.RejectionReason = *rejectionReason
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_decision.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Your leave request was %s", status), body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		slog.Info("SMTP not configured, skipping email", "to", to, "subject", subject)
		return nil
	}

	msg := []byte("From: " + s.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
