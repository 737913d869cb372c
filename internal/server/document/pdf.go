// Package document renders incident records as printable PDF documents.
package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/go-pdf/fpdf"
)

// Renderer turns a record into a document. It must not have side effects.
type Renderer interface {
	Render(r *models.Record) ([]byte, error)
}

const displayLayout = "02/01/2006 15:04"

// PDFRenderer lays records out on A4 pages.
type PDFRenderer struct {
	// Location is used to display timestamps; nil means UTC.
	Location *time.Location
}

func NewPDFRenderer(loc *time.Location) *PDFRenderer {
	return &PDFRenderer{Location: loc}
}

func (p *PDFRenderer) formatTime(t time.Time) string {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(displayLayout)
}

func formatDate(s string) string {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return d.Format("02/01/2006")
}

// Filename is the attachment name used for a rendered record.
func Filename(id string) string {
	return fmt.Sprintf("BO_%s.pdf", id)
}

func (p *PDFRenderer) Render(r *models.Record) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetTitle("Boletim de Ocorrência "+r.ID, true)
	pdf.SetCreationDate(r.CreatedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr("BOLETIM DE OCORRÊNCIA"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr("Número do B.O.: "+r.ID), "", 1, "C", false, 0, "")
	pdf.Ln(3)
	pdf.Line(18, pdf.GetY(), pageW-18, pdf.GetY())
	pdf.Ln(5)

	section := func(title string) {
		pdf.SetFont("Helvetica", "BU", 13)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}
	line := func(label string, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(48, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(value), "", "L", false)
	}
	optional := func(label string, value *string) {
		if value != nil && *value != "" {
			line(label, *value)
		}
	}

	section("DADOS DA OCORRÊNCIA")
	line("Data e Hora:", p.formatTime(r.DateAndTimeOfEvent))
	line("Local:", r.PlaceOfTheFact)
	line("Tipo de Ocorrência:", r.TypeOfOccurrence)
	pdf.Ln(4)

	section("DADOS DO COMUNICANTE")
	line("Nome Completo:", r.FullName)
	optional("CPF/RG:", r.CpfOrRg)
	if r.DateOfBirth != nil {
		line("Data de Nascimento:", formatDate(*r.DateOfBirth))
	}
	optional("Gênero:", r.Gender)
	optional("Nacionalidade:", r.Nationality)
	optional("Estado Civil:", r.MaritalStatus)
	optional("Profissão:", r.Profession)
	optional("Endereço:", r.FullAddress)
	optional("Telefone/Celular:", r.PhoneOrCellPhone)
	optional("E-mail:", r.Email)
	line("Relação com o Fato:", r.RelationshipWithTheFact)
	pdf.Ln(4)

	if r.Transcription != nil && *r.Transcription != "" {
		section("RELATO DA OCORRÊNCIA")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(*r.Transcription), "", "J", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr("Boletim registrado em: "+p.formatTime(r.CreatedAt)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr("Este documento é um registro oficial."), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
