// ABOUTME: JSON-Schema subset used for tool input/output declarations.
// ABOUTME: Serializes to standard JSON Schema and validates argument maps.

package catalog

import (
	"fmt"
	"math"
	"strings"
)

// Schema is the subset of JSON Schema the catalog uses for tool
// input and output declarations. It marshals to standard JSON Schema
// (map keys serialize in sorted order, so the wire form is stable).
type Schema struct {
	Type                 string             `json:"type,omitempty"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Enum                 []string           `json:"enum,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty"`
	MinLength            *int               `json:"minLength,omitempty"`
	MaxLength            *int               `json:"maxLength,omitempty"`
	Format               string             `json:"format,omitempty"`
	Default              any                `json:"default,omitempty"`
	Examples             []string           `json:"examples,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
	AnyOf                []*Schema          `json:"anyOf,omitempty"`
}

// Float returns a pointer to v, for Minimum/Maximum fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for MinLength/MaxLength fields.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for AdditionalProperties.
func Bool(v bool) *bool { return &v }

// Validate checks an argument map against an object schema.
// It stops at the first failure and returns an error naming the
// offending field. Only the checks the catalog declares are applied:
// required presence, primitive type matching, enum allow-lists, and
// numeric/length bounds.
func (s *Schema) Validate(args map[string]any) error {
	if s == nil {
		return nil
	}

	for _, name := range s.Required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("missing required argument %q", name)
		}
	}

	for name, value := range args {
		prop, ok := s.Properties[name]
		if !ok {
			if s.AdditionalProperties != nil && !*s.AdditionalProperties {
				return fmt.Errorf("unknown argument %q", name)
			}
			continue
		}
		if err := prop.validateValue(name, value); err != nil {
			return err
		}
	}

	if len(s.AnyOf) > 0 {
		if err := s.validateAnyOf(args); err != nil {
			return err
		}
	}

	return nil
}

// validateAnyOf checks that at least one alternative's required set is satisfied.
func (s *Schema) validateAnyOf(args map[string]any) error {
	var wanted []string
	for _, alt := range s.AnyOf {
		satisfied := true
		for _, name := range alt.Required {
			if _, ok := args[name]; !ok {
				satisfied = false
				break
			}
		}
		if satisfied {
			return nil
		}
		wanted = append(wanted, strings.Join(alt.Required, "+"))
	}
	return fmt.Errorf("one of %s must be provided", strings.Join(wanted, " or "))
}

// validateValue checks a single supplied value against a property schema.
func (p *Schema) validateValue(name string, value any) error {
	if value == nil {
		return fmt.Errorf("argument %q must not be null", name)
	}

	switch p.Type {
	case "string":
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("argument %q must be a string", name)
		}
		if p.MinLength != nil && len(str) < *p.MinLength {
			return fmt.Errorf("argument %q must be at least %d characters", name, *p.MinLength)
		}
		if p.MaxLength != nil && len(str) > *p.MaxLength {
			return fmt.Errorf("argument %q must be at most %d characters", name, *p.MaxLength)
		}
		if len(p.Enum) > 0 && !contains(p.Enum, str) {
			return fmt.Errorf("argument %q must be one of: %s", name, strings.Join(p.Enum, ", "))
		}
	case "integer":
		n, ok := asNumber(value)
		if !ok || n != math.Trunc(n) {
			return fmt.Errorf("argument %q must be an integer", name)
		}
		if p.Minimum != nil && n < *p.Minimum {
			return fmt.Errorf("argument %q must be >= %g", name, *p.Minimum)
		}
		if p.Maximum != nil && n > *p.Maximum {
			return fmt.Errorf("argument %q must be <= %g", name, *p.Maximum)
		}
	case "number":
		n, ok := asNumber(value)
		if !ok {
			return fmt.Errorf("argument %q must be a number", name)
		}
		if p.Minimum != nil && n < *p.Minimum {
			return fmt.Errorf("argument %q must be >= %g", name, *p.Minimum)
		}
		if p.Maximum != nil && n > *p.Maximum {
			return fmt.Errorf("argument %q must be <= %g", name, *p.Maximum)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("argument %q must be a boolean", name)
		}
	case "object":
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("argument %q must be an object", name)
		}
	case "array":
		if _, ok := value.([]any); !ok {
			return fmt.Errorf("argument %q must be an array", name)
		}
	}

	return nil
}

// asNumber normalizes the numeric types json.Unmarshal and Go callers produce.
func asNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
