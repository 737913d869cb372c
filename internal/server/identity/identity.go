// Package identity decides whether a police identifier may amend records.
package identity

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator checks a police identifier against an authorization set.
// Implementations must treat a blank identifier as unauthorized.
type Validator interface {
	IsAuthorized(identifier string) bool
}

// DefaultIdentifiers is the built-in directory used when none is configured.
var DefaultIdentifiers = []string{
	"PM-0001", "PM-0002", "PM-0123", "PM-0456", "PM-1234", "PM-5678",
	"100001", "100002", "200123",
}

// DefaultPattern matches the military police registration format.
const DefaultPattern = `^PM-\d{4}$`

// AllowList is a closed set of identifiers.
type AllowList map[string]struct{}

func NewAllowList(ids ...string) AllowList {
	l := make(AllowList, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			l[id] = struct{}{}
		}
	}
	return l
}

func (l AllowList) IsAuthorized(identifier string) bool {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return false
	}
	_, ok := l[id]
	return ok
}

// Pattern authorizes identifiers matching a regular expression.
type Pattern struct {
	re *regexp.Regexp
}

func NewPattern(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile identifier pattern: %w", err)
	}
	return &Pattern{re: re}, nil
}

func (p *Pattern) IsAuthorized(identifier string) bool {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return false
	}
	return p.re.MatchString(id)
}

// Any authorizes an identifier accepted by at least one validator.
type Any []Validator

func (a Any) IsAuthorized(identifier string) bool {
	if strings.TrimSpace(identifier) == "" {
		return false
	}
	for _, v := range a {
		if v.IsAuthorized(identifier) {
			return true
		}
	}
	return false
}

// New builds the configured validator. An empty ids list falls back to
// DefaultIdentifiers; an empty pattern disables pattern matching.
func New(ids []string, pattern string) (Validator, error) {
	if len(ids) == 0 {
		ids = DefaultIdentifiers
	}
	v := Any{NewAllowList(ids...)}
	if pattern != "" {
		p, err := NewPattern(pattern)
		if err != nil {
			return nil, err
		}
		v = append(v, p)
	}
	return v, nil
}
