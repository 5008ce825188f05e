package agents

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// FieldError is a single violated constraint on model output.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func fieldErr(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// EnsureString checks that value is a string and returns it.
func EnsureString(value any, field string) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fieldErr(field, "%s must be a string, received %s", field, typeName(value))
	}
	return s, nil
}

// EnsureExactLength checks that s has exactly n characters.
func EnsureExactLength(s string, n int, field string) (string, error) {
	if got := utf8.RuneCountInString(s); got != n {
		return "", fieldErr(field, "%s must be exactly %d characters, received %d", field, n, got)
	}
	return s, nil
}

// EnsureMaxLength checks that s has at most max characters.
func EnsureMaxLength(s string, max int, field string) (string, error) {
	if got := utf8.RuneCountInString(s); got > max {
		return "", fieldErr(field, "%s must be at most %d characters, received %d", field, max, got)
	}
	return s, nil
}

// EnsureLengthBetween checks that s has between min and max characters.
func EnsureLengthBetween(s string, min, max int, field string) (string, error) {
	if got := utf8.RuneCountInString(s); got < min || got > max {
		return "", fieldErr(field, "%s must be between %d and %d characters, received %d", field, min, max, got)
	}
	return s, nil
}

// EnsureArray checks that value is a JSON array.
func EnsureArray(value any, field string) ([]any, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fieldErr(field, "%s must be an array, received %s", field, typeName(value))
	}
	return items, nil
}

// EnsureObject checks that value is a JSON object.
func EnsureObject(value any, field string) (map[string]any, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fieldErr(field, "%s must be an object, received %s", field, typeName(value))
	}
	return obj, nil
}

// EnsureItemCount checks that items has between min and max entries.
func EnsureItemCount(items []any, min, max int, field string) ([]any, error) {
	if n := len(items); n < min || n > max {
		return nil, fieldErr(field, "%s must contain between %d and %d items, received %d", field, min, max, n)
	}
	return items, nil
}

// EnsureMatchesRegex checks that s matches re.
func EnsureMatchesRegex(s string, re *regexp.Regexp, field string) (string, error) {
	if !re.MatchString(s) {
		return "", fieldErr(field, "%s must match %s, received %q", field, re.String(), s)
	}
	return s, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, int, int64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ValidationError carries every violation found by a Checker.
type ValidationError struct {
	Violations []*FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "invalid model output: " + strings.Join(msgs, "; ")
}

// Fields lists the offending field names in order.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Field
	}
	return out
}

// Checker runs the Ensure validators without stopping at the first
// failure. The zero value is ready to use.
type Checker struct {
	violations []*FieldError
}

func (c *Checker) record(err error) bool {
	if err == nil {
		return true
	}
	if fe, ok := err.(*FieldError); ok {
		c.violations = append(c.violations, fe)
	} else {
		c.violations = append(c.violations, &FieldError{Message: err.Error()})
	}
	return false
}

// Fail records a custom violation.
func (c *Checker) Fail(field, message string) {
	c.violations = append(c.violations, &FieldError{Field: field, Message: message})
}

func (c *Checker) String(value any, field string) (string, bool) {
	s, err := EnsureString(value, field)
	return s, c.record(err)
}

func (c *Checker) ExactLength(s string, n int, field string) bool {
	_, err := EnsureExactLength(s, n, field)
	return c.record(err)
}

func (c *Checker) MaxLength(s string, max int, field string) bool {
	_, err := EnsureMaxLength(s, max, field)
	return c.record(err)
}

func (c *Checker) LengthBetween(s string, min, max int, field string) bool {
	_, err := EnsureLengthBetween(s, min, max, field)
	return c.record(err)
}

func (c *Checker) Array(value any, field string) ([]any, bool) {
	items, err := EnsureArray(value, field)
	return items, c.record(err)
}

func (c *Checker) Object(value any, field string) (map[string]any, bool) {
	obj, err := EnsureObject(value, field)
	return obj, c.record(err)
}

func (c *Checker) ItemCount(items []any, min, max int, field string) bool {
	_, err := EnsureItemCount(items, min, max, field)
	return c.record(err)
}

func (c *Checker) Matches(s string, re *regexp.Regexp, field string) bool {
	_, err := EnsureMatchesRegex(s, re, field)
	return c.record(err)
}

// OK reports whether no violation has been recorded.
func (c *Checker) OK() bool { return len(c.violations) == 0 }

// Err returns nil or a *ValidationError listing every violation.
func (c *Checker) Err() error {
	if len(c.violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: append([]*FieldError(nil), c.violations...)}
}
