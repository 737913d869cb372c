package fields

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/tidwall/gjson"
)

// Entry is one supplied key of a partial update.
type Entry struct {
	Name  string
	Value string
}

// Patch is a partial update in the order the client supplied its keys.
// A key that is missing from the patch is "absent"; an entry whose value is
// ClearMarker asks for the field to be cleared.
type Patch []Entry

// ParsePatch reads a JSON object and keeps the catalogue keys in document
// order. Keys outside the catalogue (for example the police identifier of
// the request envelope) are skipped. Catalogue keys must carry strings.
// A repeated key keeps its first position and its last value.
func ParsePatch(body []byte) (Patch, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", common.ErrorValidation)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: body must be a JSON object", common.ErrorValidation)
	}

	var (
		patch Patch
		pos   = map[string]int{}
		err   error
	)
	doc.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if _, ok := Lookup(name); !ok {
			return true
		}
		if value.Type != gjson.String {
			err = fmt.Errorf("%w: %s must be a string", common.ErrorValidation, name)
			return false
		}
		if i, seen := pos[name]; seen {
			patch[i].Value = value.String()
			return true
		}
		pos[name] = len(patch)
		patch = append(patch, Entry{Name: name, Value: value.String()})
		return true
	})
	if err != nil {
		return nil, err
	}
	return patch, nil
}

// Get returns the value supplied for name and whether it was present.
func (p Patch) Get(name string) (string, bool) {
	for _, e := range p {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// MarshalJSON writes the patch as a JSON object in entry order.
func (p Patch) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, e := range p {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	return append(buf, '}'), nil
}
