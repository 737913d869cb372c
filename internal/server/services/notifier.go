package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fieldreports/internal/logging"
	"github.com/dmitrijs2005/fieldreports/internal/server/archive"
	"github.com/dmitrijs2005/fieldreports/internal/server/document"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/dmitrijs2005/fieldreports/internal/server/notify"
)

const pdfContentType = "application/pdf"

// Notifier runs the best-effort side effects of a record creation. Each step
// has its own failure boundary; nothing it does can fail the creation.
type Notifier struct {
	renderer document.Renderer
	mailer   notify.Mailer
	archive  archive.Store
	log      logging.Logger
}

func NewNotifier(r document.Renderer, m notify.Mailer, a archive.Store, log logging.Logger) *Notifier {
	return &Notifier{renderer: r, mailer: m, archive: a, log: log.With("module", "notifier")}
}

func (n *Notifier) step(ctx context.Context, name, recordID string, fn func() error) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			n.log.Error(ctx, "best-effort step panicked", "step", name, "record_id", recordID, "panic", fmt.Sprint(p))
			ok = false
		}
	}()
	if err := fn(); err != nil {
		n.log.Warn(ctx, "best-effort step failed", "step", name, "record_id", recordID, "error", err)
		return false
	}
	return true
}

// RecordCreated renders the record document, archives it and mails it to the
// reporter when an address is known.
func (n *Notifier) RecordCreated(ctx context.Context, r *models.Record) {
	if n == nil || r == nil {
		return
	}

	var pdf []byte
	n.step(ctx, "render", r.ID, func() (err error) {
		pdf, err = n.renderer.Render(r)
		return err
	})

	if len(pdf) > 0 {
		n.step(ctx, "archive", r.ID, func() error {
			return n.archive.Put(ctx, archive.DocumentKey(r.ID, r.CreatedAt), pdf, pdfContentType)
		})
	}

	if r.Email == nil || *r.Email == "" {
		return
	}
	if n.step(ctx, "email", r.ID, func() error {
		return n.mailer.SendConfirmation(ctx, notify.Confirmation{
			To:             *r.Email,
			FullName:       r.FullName,
			RecordID:       r.ID,
			Attachment:     pdf,
			AttachmentName: document.Filename(r.ID),
		})
	}) {
		n.log.Info(ctx, "confirmation sent", "record_id", r.ID)
	}
}
