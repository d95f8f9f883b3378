// Package mailer sends transactional mail over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"picnify/pkg/utils"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func NewSMTPMailer(config utils.EmailConfig, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(config.Host, config.Port, config.User, config.Password),
		from:   config.From,
		log:    log.With(zap.String("component", "mailer")),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", utils.MaskEmail(to)),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send email to %s: %w", utils.MaskEmail(to), err)
	}

	return nil
}

// LogMailer logs instead of sending. Used when SMTP is not configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.With(zap.String("component", "mailer"), zap.String("mode", "log"))}
}

func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.log.Info("Email not sent, SMTP disabled",
		zap.String("to", utils.MaskEmail(to)),
		zap.String("subject", subject),
	)
	return nil
}

var (
	otpTemplate = template.Must(template.New("otp").Parse(`<p>Hi {{.Name}},</p>
<p>Your Picnify {{.Purpose}} code is <strong>{{.Code}}</strong>.</p>
<p>It expires in {{.Minutes}} minutes. If you did not ask for it, ignore this email.</p>`))

	cancellationTemplate = template.Must(template.New("cancellation").Parse(`<p>Hi {{.Name}},</p>
<p>Booking <strong>{{.BookingCode}}</strong> has been cancelled.</p>
<table>
<tr><td>Booking total</td><td>{{.Total}}</td></tr>
<tr><td>Cancellation fee ({{.FeePercentage}}%)</td><td>{{.Fee}}</td></tr>
<tr><td>Refund</td><td>{{.Refund}}</td></tr>
</table>
<p>{{.PolicyMessage}}</p>`))
)

type OTPMail struct {
	Name    string
	Purpose string
	Code    string
	Minutes int
}

type CancellationMail struct {
	Name          string
	BookingCode   string
	Total         string
	Fee           string
	Refund        string
	FeePercentage int
	PolicyMessage string
}

func RenderOTP(data OTPMail) (string, error) {
	return render(otpTemplate, data)
}

func RenderCancellation(data CancellationMail) (string, error) {
	return render(cancellationTemplate, data)
}

func render(t *template.Template, data any) (string, error) {
	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return body.String(), nil
}
