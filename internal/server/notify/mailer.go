// Package notify delivers record confirmations to reporters by email.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"
)

// DefaultFrom is the sender used when none is configured.
const DefaultFrom = "boletim@seusistema.com"

const subject = "Confirmação de Registro de Boletim de Ocorrência"

// Confirmation is one outgoing confirmation email.
type Confirmation struct {
	To       string
	FullName string
	RecordID string
	// Attachment is the rendered PDF; it is skipped when empty.
	Attachment     []byte
	AttachmentName string
}

// Mailer sends confirmation emails.
type Mailer interface {
	SendConfirmation(ctx context.Context, c Confirmation) error
}

// NopMailer drops every message. Used when no API key is configured.
type NopMailer struct{}

func (NopMailer) SendConfirmation(context.Context, Confirmation) error { return nil }

type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendMailer sends messages through the Resend API.
type ResendMailer struct {
	emails emailSender
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	if from == "" {
		from = DefaultFrom
	}
	client := resend.NewClient(apiKey)
	return &ResendMailer{emails: client.Emails, from: from}
}

func (m *ResendMailer) SendConfirmation(ctx context.Context, c Confirmation) error {
	html, err := renderBody(c)
	if err != nil {
		return err
	}

	req := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{c.To},
		Subject: subject,
		Html:    html,
	}
	if len(c.Attachment) > 0 {
		req.Attachments = []*resend.Attachment{{
			Content:  c.Attachment,
			Filename: c.AttachmentName,
		}}
	}

	if _, err := m.emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("send email to %s: %w", c.To, err)
	}
	return nil
}

var bodyTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="background-color: #003366; color: white; padding: 10px 20px; text-align: center;">{{.Subject}}</h1>
    <p>Prezado(a) <strong>{{.FullName}}</strong>,</p>
    <p>Seu Boletim de Ocorrência foi registrado com sucesso em nosso sistema.</p>
    <p>O número de identificação do seu B.O. é: <strong>{{.RecordID}}</strong></p>
    <p>Em anexo, você encontrará o PDF com todos os detalhes do seu registro.</p>
    <p style="font-size: 12px; color: #666; text-align: center;">Este é um e-mail automático. Por favor, não responda.</p>
  </div>
</body>
</html>
`))

func renderBody(c Confirmation) (string, error) {
	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, struct {
		Subject  string
		FullName string
		RecordID string
	}{subject, c.FullName, c.RecordID})
	if err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return buf.String(), nil
}
