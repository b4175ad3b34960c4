package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// FieldKind is the expected JSON type of a field.
type FieldKind int

const (
	String FieldKind = iota
	Bool
)

// Field declares the constraints of one input field. Zero-valued bounds are
// not enforced.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
	MinLen   int
	MaxLen   int
	Email    bool
	Enum     []string
	Default  any
}

// Rule is a cross-field constraint checked after all field constraints.
// Check reports whether the rule is satisfied.
type Rule struct {
	Field   string
	Message string
	Check   func(doc map[string]any) bool
}

// Schema is an ordered constraint set for one flow's request body.
type Schema struct {
	Fields []Field
	Rules  []Rule
}

// Issue is a single field-level violation.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Parse decodes raw into a JSON object. A body that is not a JSON object at
// all is a malformed-body failure, reported by callers as a single generic
// violation instead of per-field issues.
func Parse(raw []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse body: not a JSON object")
	}
	return doc, nil
}

// MalformedBody is the single violation reported for unparseable bodies.
func MalformedBody() []Issue {
	return []Issue{{Field: "body", Message: "Request body must be a valid JSON object"}}
}

// Validate checks doc against the schema and returns every violation in
// field-declaration order, with cross-field rule violations appended. A nil
// result means the document is valid; missing optional fields have been
// filled with their defaults.
func (s Schema) Validate(doc map[string]any) []Issue {
	var issues []Issue

	for _, f := range s.Fields {
		issues = append(issues, f.check(doc)...)
	}
	for _, r := range s.Rules {
		if !r.Check(doc) {
			issues = append(issues, Issue{Field: r.Field, Message: r.Message})
		}
	}

	return issues
}

func (f Field) check(doc map[string]any) []Issue {
	v, present := doc[f.Name]
	if !present || v == nil {
		if f.Required {
			return []Issue{{Field: f.Name, Message: f.Name + " is required"}}
		}
		if f.Default != nil {
			doc[f.Name] = f.Default
		}
		return nil
	}

	switch f.Kind {
	case String:
		return f.checkString(v)
	case Bool:
		if _, ok := v.(bool); !ok {
			return []Issue{{Field: f.Name, Message: f.Name + " must be a boolean"}}
		}
	}
	return nil
}

func (f Field) checkString(v any) []Issue {
	str, ok := v.(string)
	if !ok {
		return []Issue{{Field: f.Name, Message: f.Name + " must be a string"}}
	}

	var issues []Issue
	if f.Required && str == "" {
		return []Issue{{Field: f.Name, Message: f.Name + " is required"}}
	}
	if f.MinLen > 0 && len(str) < f.MinLen {
		issues = append(issues, Issue{
			Field:   f.Name,
			Message: fmt.Sprintf("%s must be at least %d characters", f.Name, f.MinLen),
		})
	}
	if f.MaxLen > 0 && len(str) > f.MaxLen {
		issues = append(issues, Issue{
			Field:   f.Name,
			Message: fmt.Sprintf("%s must be at most %d characters", f.Name, f.MaxLen),
		})
	}
	if f.Email && str != "" && !emailRx.MatchString(str) {
		issues = append(issues, Issue{Field: f.Name, Message: f.Name + " must be a valid email address"})
	}
	if len(f.Enum) > 0 && str != "" && !contains(f.Enum, str) {
		issues = append(issues, Issue{
			Field:   f.Name,
			Message: fmt.Sprintf("%s must be one of: %s", f.Name, strings.Join(f.Enum, ", ")),
		})
	}
	return issues
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Str reads a string field from a validated document.
func Str(doc map[string]any, name string) string {
	s, _ := doc[name].(string)
	return s
}

// BoolVal reads a bool field from a validated document.
func BoolVal(doc map[string]any, name string) bool {
	b, _ := doc[name].(bool)
	return b
}
