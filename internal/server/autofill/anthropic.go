// Package autofill extracts record fields from a free-text narrative with a
// language model.
package autofill

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/tidwall/gjson"
)

// Extractor proposes field values for a narrative. Results are candidates
// for a form, never written to storage directly.
type Extractor interface {
	Extract(ctx context.Context, narrative string) (fields.Patch, error)
}

// Disabled rejects every request. Used when no API key is configured.
type Disabled struct{}

func (Disabled) Extract(context.Context, string) (fields.Patch, error) {
	return nil, fmt.Errorf("%w: autofill", common.ErrorFeatureDisabled)
}

var descriptions = map[string]string{
	fields.DateAndTimeOfEvent:      "A data e hora em que o evento ocorreu. Formato: YYYY-MM-DDTHH:MM:SSZ",
	fields.PlaceOfTheFact:          "O local onde o fato aconteceu.",
	fields.TypeOfOccurrence:        "O tipo de crime ou ocorrência (ex: roubo, furto, agressão).",
	fields.FullName:                "O nome completo do requerente (quem está registrando o B.O.).",
	fields.CpfOrRg:                 "O CPF ou RG do requerente.",
	fields.DateOfBirth:             "A data de nascimento do requerente. Formato: YYYY-MM-DD",
	fields.Gender:                  "O gênero do requerente.",
	fields.Nationality:             "A nacionalidade do requerente.",
	fields.MaritalStatus:           "O estado civil do requerente.",
	fields.Profession:              "A profissão do requerente.",
	fields.FullAddress:             "O endereço completo do requerente.",
	fields.PhoneOrCellPhone:        "O telefone ou celular de contato do requerente.",
	fields.Email:                   "O email de contato do requerente.",
	fields.RelationshipWithTheFact: "A relação do requerente com o fato (vítima, comunicante, testemunha).",
	fields.Transcription:           "O relato detalhado do que aconteceu, em primeira pessoa se possível.",
}

const systemPrompt = `Você preenche formulários de boletim de ocorrência.
Responda somente com um objeto JSON cujas chaves são os campos abaixo e cujos valores são strings.
Omita campos que não aparecem no relato. NÃO CRIE INFORMAÇÕES.
Campos:
`

func buildSystemPrompt() string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	for _, f := range fields.Catalog {
		fmt.Fprintf(&b, "- %s: %s\n", f.Name, descriptions[f.Name])
	}
	return b.String()
}

type messagesAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Anthropic extracts fields with the Messages API.
type Anthropic struct {
	api       messagesAPI
	model     string
	maxTokens int64
}

func NewAnthropic(apiKey, model string) *Anthropic {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Anthropic{api: &client.Messages, model: model, maxTokens: 1024}
}

func (a *Anthropic) Extract(ctx context.Context, narrative string) (fields.Patch, error) {
	if strings.TrimSpace(narrative) == "" {
		return nil, fmt.Errorf("%w: userInput is required", common.ErrorValidation)
	}

	msg, err := a.api.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: buildSystemPrompt()}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf("Relato: %q", narrative))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("autofill request: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return parseCandidates(text.String())
}

// parseCandidates reads the first JSON object in s and keeps the catalogue
// fields holding valid, non-empty strings.
func parseCandidates(s string) (fields.Patch, error) {
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start < 0 || end < start || !gjson.Valid(s[start:end+1]) {
		return nil, fmt.Errorf("%w: model returned no JSON object", common.ErrorInternal)
	}

	var out fields.Patch
	gjson.Parse(s[start : end+1]).ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		v := strings.TrimSpace(value.String())
		if _, ok := fields.Lookup(name); !ok || value.Type != gjson.String || v == "" {
			return true
		}
		if _, ok := out.Get(name); ok {
			return true
		}
		e := fields.Entry{Name: name, Value: v}
		if fields.Validate(fields.Patch{e}) != nil {
			return true
		}
		out = append(out, e)
		return true
	})
	return out, nil
}
