package fields

import (
	"fmt"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/timex"
)

// ClearMarker is the value a client sends to clear a nullable field.
const ClearMarker = ""

// Update is a sanitized column update set.
type Update struct {
	// Values maps column name to its new value; nil stores NULL.
	Values map[string]any
	// ChangedKeys lists the columns in Values in patch order.
	ChangedKeys []string
}

// Empty reports whether the update touches no column.
func (u Update) Empty() bool {
	return len(u.ChangedKeys) == 0
}

// Sanitize converts a validated patch into an update set:
// absent keys are untouched, ClearMarker clears nullable fields and is
// ignored for required ones, any other value passes through normalized.
func Sanitize(p Patch) (Update, error) {
	if err := Validate(p); err != nil {
		return Update{}, err
	}

	u := Update{Values: make(map[string]any, len(p))}
	for _, e := range p {
		f, ok := Lookup(e.Name)
		if !ok {
			continue
		}
		if e.Value == ClearMarker {
			if f.Required {
				continue
			}
			u.Values[f.Name] = nil
			u.ChangedKeys = append(u.ChangedKeys, f.Name)
			continue
		}
		v, err := normalize(f, e.Value)
		if err != nil {
			return Update{}, err
		}
		u.Values[f.Name] = v
		u.ChangedKeys = append(u.ChangedKeys, f.Name)
	}
	return u, nil
}

func normalize(f Field, value string) (any, error) {
	switch f.Kind {
	case Date:
		return NormalizeDate(value)
	case Timestamp:
		t, err := timex.ParseTimestamp(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", common.ErrorValidation, f.Name, err)
		}
		return t, nil
	default:
		return value, nil
	}
}
