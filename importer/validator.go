package importer

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type FieldType int

const (
	String FieldType = iota
	Int
	Email
)

// Rule checks an already-typed value and returns a reason when it fails.
type Rule func(field string, value any) string

// CrossCheck inspects a fully typed record. It returns the offending field
// and a reason, or an empty reason when the record is consistent.
type CrossCheck func(rec Record) (field, reason string)

type Field struct {
	Name      string
	Required  bool
	Type      FieldType
	Normalize func(string) string
	Rules     []Rule
}

type Schema struct {
	Fields []Field
	Checks []CrossCheck
}

// Columns lists the column names the schema reads.
func (s Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Name
	}
	return cols
}

// requiredOf keeps the columns the schema marks as required.
func (s Schema) requiredOf(columns []string) []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required && slices.Contains(columns, f.Name) {
			out = append(out, f.Name)
		}
	}
	return out
}

// Record is a validated, typed row.
type Record struct {
	Line   int
	values map[string]any
}

func (r Record) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}

func (r Record) String(field string) string {
	s, _ := r.values[field].(string)
	return s
}

func (r Record) Int(field string) int {
	n, _ := r.values[field].(int)
	return n
}

// Validate checks row against the schema in three passes: required fields,
// then types, then per-field rules and cross-field checks. A pass only runs
// when the previous one found nothing, so a rule never sees an unparsed value.
func (s Schema) Validate(row ImportRow) (Record, []ValidationError) {
	rec := Record{Line: row.Line, values: make(map[string]any, len(s.Fields))}
	raw := make(map[string]string, len(s.Fields))

	var errs []ValidationError
	fail := func(field, reason string) {
		errs = append(errs, ValidationError{Row: row.Line, Field: field, Reason: reason})
	}

	for _, f := range s.Fields {
		v := strings.TrimSpace(row.Get(f.Name))
		if v != "" && f.Normalize != nil {
			v = f.Normalize(v)
		}
		raw[f.Name] = v
		if v == "" && f.Required {
			fail(f.Name, f.Name+" is required")
		}
	}
	if len(errs) > 0 {
		return rec, errs
	}

	for _, f := range s.Fields {
		v := raw[f.Name]
		if v == "" {
			continue
		}
		switch f.Type {
		case Int:
			n, err := strconv.Atoi(v)
			if err != nil {
				fail(f.Name, f.Name+" must be an integer")
				continue
			}
			rec.values[f.Name] = n
		case Email:
			if err := validate.Var(v, "email"); err != nil {
				fail(f.Name, f.Name+" must be a valid email address")
				continue
			}
			rec.values[f.Name] = strings.ToLower(v)
		default:
			rec.values[f.Name] = v
		}
	}
	if len(errs) > 0 {
		return rec, errs
	}

	for _, f := range s.Fields {
		v, ok := rec.values[f.Name]
		if !ok {
			continue
		}
		for _, rule := range f.Rules {
			if reason := rule(f.Name, v); reason != "" {
				fail(f.Name, reason)
				break
			}
		}
	}
	if len(errs) > 0 {
		return rec, errs
	}

	for _, check := range s.Checks {
		if field, reason := check(rec); reason != "" {
			fail(field, reason)
		}
	}
	return rec, errs
}

func NonNegative(field string, value any) string {
	if n, ok := value.(int); ok && n < 0 {
		return field + " must be non-negative"
	}
	return ""
}

func Between(lo, hi int) Rule {
	return func(field string, value any) string {
		if n, ok := value.(int); ok && (n < lo || n > hi) {
			return fmt.Sprintf("%s must be between %d and %d", field, lo, hi)
		}
		return ""
	}
}

func MaxLen(max int) Rule {
	return func(field string, value any) string {
		if s, ok := value.(string); ok && len([]rune(s)) > max {
			return fmt.Sprintf("%s must be at most %d characters", field, max)
		}
		return ""
	}
}

func OneOf(allowed ...string) Rule {
	return func(field string, value any) string {
		s, _ := value.(string)
		for _, a := range allowed {
			if s == a {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", "))
	}
}
