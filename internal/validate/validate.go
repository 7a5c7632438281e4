// Package validate checks request bodies against declarative per-operation
// rule tables before any store access. A Schema enumerates the allowed
// fields; unknown fields are rejected, defaults are filled for absent
// optional fields, and every failure names the offending field.
package validate

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Kind selects the type check applied to a field value.
type Kind int

const (
	KindString Kind = iota
	KindEmail
	KindUUID
	KindDate
	KindUUIDList
)

// Rule describes the constraints for one field. Min/Max bound the length in
// characters; Max of zero means unbounded. Enum, when non-empty, restricts the value to
// the listed members. Default is applied when the field is absent.
type Rule struct {
	Field     string
	Required  bool
	Kind      Kind
	Min       int
	Max       int
	Enum      []string
	Pattern   *regexp.Regexp
	AllowNull bool
	Default   string
}

// Schema is the rule table for one entity operation. RequireOne rejects
// bodies that provide none of the listed fields (partial-update schemas).
type Schema struct {
	Rules      []Rule
	RequireOne bool
}

// Error reports a single-field validation failure. It unwraps to
// types.ErrValidation so callers can match the taxonomy.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + " " + e.Reason
}

func (e *Error) Unwrap() error {
	return types.ErrValidation
}

// Fields holds the validated values. A key present with a nil value records
// an explicit null.
type Fields map[string]any

// Has reports whether the field was provided (including explicit null).
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the field value, or the empty string when absent or null.
func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// StringPtr returns a pointer to the field value, or nil when absent or
// null.
func (f Fields) StringPtr(key string) *string {
	if s, ok := f[key].(string); ok {
		return &s
	}
	return nil
}

// StringList returns the field value as a string slice, or nil when absent.
func (f Fields) StringList(key string) []string {
	s, _ := f[key].([]string)
	return s
}

// Apply validates the decoded JSON body against the schema and returns the
// typed field set. The first violation aborts with a field-scoped error;
// nothing touches the store on failure.
func (s Schema) Apply(input map[string]any) (Fields, error) {
	known := make(map[string]bool, len(s.Rules))
	for _, r := range s.Rules {
		known[r.Field] = true
	}
	for key := range input {
		if !known[key] {
			return nil, &Error{Field: key, Reason: "is not allowed"}
		}
	}

	out := Fields{}
	provided := 0
	for _, r := range s.Rules {
		value, ok := input[r.Field]
		if !ok {
			if r.Required {
				return nil, &Error{Field: r.Field, Reason: "is required"}
			}
			if r.Default != "" {
				out[r.Field] = r.Default
			}
			continue
		}
		provided++

		if value == nil {
			if !r.AllowNull {
				return nil, &Error{Field: r.Field, Reason: "must not be null"}
			}
			out[r.Field] = nil
			continue
		}

		checked, err := r.check(value)
		if err != nil {
			return nil, err
		}
		out[r.Field] = checked
	}

	if s.RequireOne && provided == 0 {
		return nil, &Error{Reason: "at least one field must be provided"}
	}
	return out, nil
}

func (r Rule) check(value any) (any, error) {
	if r.Kind == KindUUIDList {
		return r.checkUUIDList(value)
	}

	str, ok := value.(string)
	if !ok {
		return nil, &Error{Field: r.Field, Reason: "must be a string"}
	}
	// Bounds are character counts, not bytes, so multi-byte text is not
	// penalized.
	length := utf8.RuneCountInString(str)
	if r.Min > 0 && length < r.Min {
		return nil, &Error{Field: r.Field, Reason: "is too short"}
	}
	if r.Max > 0 && length > r.Max {
		return nil, &Error{Field: r.Field, Reason: "is too long"}
	}
	if len(r.Enum) > 0 && !contains(r.Enum, str) {
		return nil, &Error{Field: r.Field, Reason: "must be one of the allowed values"}
	}
	if r.Pattern != nil && !r.Pattern.MatchString(str) {
		return nil, &Error{Field: r.Field, Reason: "has an invalid format"}
	}

	switch r.Kind {
	case KindEmail:
		if !reEmail.MatchString(str) {
			return nil, &Error{Field: r.Field, Reason: "must be a valid email address"}
		}
	case KindUUID:
		if _, err := uuid.Parse(str); err != nil {
			return nil, &Error{Field: r.Field, Reason: "must be a valid UUID"}
		}
	case KindDate:
		if !validDate(str) {
			return nil, &Error{Field: r.Field, Reason: "must be an ISO date"}
		}
	}
	return str, nil
}

func (r Rule) checkUUIDList(value any) (any, error) {
	raw, ok := value.([]any)
	if !ok {
		return nil, &Error{Field: r.Field, Reason: "must be an array"}
	}
	ids := make([]string, 0, len(raw))
	for _, item := range raw {
		str, ok := item.(string)
		if !ok {
			return nil, &Error{Field: r.Field, Reason: "must contain only strings"}
		}
		if _, err := uuid.Parse(str); err != nil {
			return nil, &Error{Field: r.Field, Reason: "must contain only valid UUIDs"}
		}
		ids = append(ids, str)
	}
	return ids, nil
}

// validDate accepts RFC3339 timestamps and bare YYYY-MM-DD dates.
func validDate(s string) bool {
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
