package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	got *resend.SendEmailRequest
	err error
}

func (f *fakeSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "msg-1"}, nil
}

func TestResendMailer_SendConfirmation(t *testing.T) {
	f := &fakeSender{}
	m := &ResendMailer{emails: f, from: DefaultFrom}

	err := m.SendConfirmation(context.Background(), Confirmation{
		To:             "maria@example.com",
		FullName:       "Maria <Santos>",
		RecordID:       "rec-1",
		Attachment:     []byte("%PDF-1.3"),
		AttachmentName: "BO_rec-1.pdf",
	})
	require.NoError(t, err)
	require.NotNil(t, f.got)
	assert.Equal(t, DefaultFrom, f.got.From)
	assert.Equal(t, []string{"maria@example.com"}, f.got.To)
	assert.Equal(t, subject, f.got.Subject)
	assert.Contains(t, f.got.Html, "rec-1")
	assert.Contains(t, f.got.Html, "Maria &lt;Santos&gt;")
	require.Len(t, f.got.Attachments, 1)
	assert.Equal(t, "BO_rec-1.pdf", f.got.Attachments[0].Filename)
}

func TestResendMailer_NoAttachment(t *testing.T) {
	f := &fakeSender{}
	m := &ResendMailer{emails: f, from: "x@y.z"}

	require.NoError(t, m.SendConfirmation(context.Background(), Confirmation{To: "a@b.c"}))
	assert.Empty(t, f.got.Attachments)
}

func TestResendMailer_Error(t *testing.T) {
	m := &ResendMailer{emails: &fakeSender{err: errors.New("quota")}, from: DefaultFrom}

	err := m.SendConfirmation(context.Background(), Confirmation{To: "a@b.c"})
	assert.ErrorContains(t, err, "quota")
}

func TestNewResendMailer_DefaultFrom(t *testing.T) {
	m := NewResendMailer("re_test", "")
	assert.Equal(t, DefaultFrom, m.from)
	assert.NotNil(t, m.emails)

	assert.NoError(t, NopMailer{}.SendConfirmation(context.Background(), Confirmation{}))
}
