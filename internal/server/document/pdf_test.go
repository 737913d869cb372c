package document

import (
	"bytes"
	"testing"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPDFRenderer_Render(t *testing.T) {
	r := &models.Record{
		ID:                      "6f1c2d1e-0000-4000-8000-000000000001",
		DateAndTimeOfEvent:      time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC),
		PlaceOfTheFact:          "Praça da Sé",
		TypeOfOccurrence:        "Roubo",
		FullName:                "Maria Santos",
		DateOfBirth:             strPtr("1990-05-12"),
		Email:                   strPtr("maria@example.com"),
		RelationshipWithTheFact: "Vítima",
		Transcription:           strPtr("Relato longo da ocorrência. "),
		CreatedAt:               time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC),
	}

	out, err := NewPDFRenderer(time.FixedZone("BRT", -3*3600)).Render(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
}

func TestPDFRenderer_MinimalRecord(t *testing.T) {
	out, err := (&PDFRenderer{}).Render(&models.Record{ID: "x"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestFormatHelpers(t *testing.T) {
	p := &PDFRenderer{}
	assert.Equal(t, "01/03/2024 13:30", p.formatTime(time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC)))
	assert.Equal(t, "12/05/1990", formatDate("1990-05-12"))
	assert.Equal(t, "garbage", formatDate("garbage"))
	assert.Equal(t, "BO_abc.pdf", Filename("abc"))
}
