package fields

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/timex"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the record rules registered.
// Struct errors report JSON field names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("dateish", func(fl validator.FieldLevel) bool {
			_, err := NormalizeDate(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// Validate checks every non-empty value of p against its field rule.
func Validate(p Patch) error {
	v := Validator()
	for _, e := range p {
		f, ok := Lookup(e.Name)
		if !ok || f.Rule == "" || e.Value == ClearMarker {
			continue
		}
		if err := v.Var(e.Value, f.Rule); err != nil {
			return fmt.Errorf("%w: %s: invalid value", common.ErrorValidation, e.Name)
		}
	}
	return nil
}

// FormatError turns validator errors into a short human readable message.
func FormatError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "notblank":
			parts = append(parts, fe.Field()+" is required")
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}

// spacedLayouts are the timestamp forms accepted with a space separator.
var spacedLayouts = []string{"2006-01-02 15:04:05Z07:00", "2006-01-02 15:04:05"}

func isTimestamp(s string) bool {
	if _, err := timex.ParseTimestamp(s); err == nil {
		return true
	}
	for _, layout := range spacedLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// NormalizeDate accepts YYYY-MM-DD or a full timestamp and returns the date
// portion.
func NormalizeDate(s string) (string, error) {
	const n = len(timex.DateLayout)
	if len(s) < n {
		return "", fmt.Errorf("%w: %q is not a date", common.ErrorValidation, s)
	}
	if len(s) > n && !isTimestamp(s) {
		return "", fmt.Errorf("%w: %q is not a date or timestamp", common.ErrorValidation, s)
	}
	d := s[:n]
	if _, err := time.Parse(timex.DateLayout, d); err != nil {
		return "", fmt.Errorf("%w: %q is not a date", common.ErrorValidation, s)
	}
	return d, nil
}
