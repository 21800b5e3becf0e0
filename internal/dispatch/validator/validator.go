// internal/dispatch/validator/validator.go
package validator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	apperrors "notification-service/internal/common/errors"
	"notification-service/internal/models"
)

const (
	minTextLength = 1
	maxTextLength = 255
)

// dateLayouts accepted for DATE coercion, tried in order.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Value is the coerced form of one attribute, tagged by the attribute's
// declared type. Exactly one of the payload fields is meaningful.
type Value struct {
	Type   models.AttributeType
	Text   string
	Number float64
	Date   time.Time
}

// String renders the value for placeholder substitution.
func (v Value) String() string {
	switch v.Type {
	case models.AttributeNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case models.AttributeDate:
		return v.Date.Format(time.RFC3339)
	default:
		return v.Text
	}
}

// Values maps attribute name to its coerced value.
type Values map[string]Value

// Validator checks a raw attribute payload against the attribute rows declared
// on one template. Built fresh per request so schema edits take effect
// immediately; the rules are data, not code.
type Validator struct {
	attrs []models.Attribute
}

// Build constructs a Validator from the template's attribute schema.
func Build(attrs []models.Attribute) *Validator {
	return &Validator{attrs: attrs}
}

// Validate coerces the supplied attribute map. Keys not declared in the schema
// are ignored. On any failure it returns a single aggregated ValidationError
// naming every offending attribute.
func (v *Validator) Validate(input map[string]interface{}) (Values, error) {
	values := make(Values, len(v.attrs))
	verr := apperrors.NewValidationError()

	for _, attr := range v.attrs {
		raw, present := input[attr.Name]
		if !present || raw == nil {
			if attr.IsRequired {
				verr.AddAttribute(attr.Name, fmt.Sprintf("%s is required", attr.Name))
			}
			continue
		}

		value, err := coerce(attr, raw)
		if err != nil {
			verr.AddAttribute(attr.Name, err.Error())
			continue
		}
		values[attr.Name] = value
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return values, nil
}

func coerce(attr models.Attribute, raw interface{}) (Value, error) {
	switch attr.Type {
	case models.AttributeText:
		return coerceText(attr.Name, raw)
	case models.AttributeNumber:
		return coerceNumber(attr.Name, raw)
	case models.AttributeDate:
		return coerceDate(attr.Name, raw)
	default:
		return Value{}, fmt.Errorf("%s has an unknown attribute type", attr.Name)
	}
}

func coerceText(name string, raw interface{}) (Value, error) {
	s, ok := raw.(string)
	if !ok {
		return Value{}, fmt.Errorf("%s must be text", name)
	}
	if n := utf8.RuneCountInString(s); n < minTextLength || n > maxTextLength {
		return Value{}, fmt.Errorf("%s must be between %d and %d characters", name, minTextLength, maxTextLength)
	}
	return Value{Type: models.AttributeText, Text: s}, nil
}

func coerceNumber(name string, raw interface{}) (Value, error) {
	switch n := raw.(type) {
	case float64:
		return Value{Type: models.AttributeNumber, Number: n}, nil
	case int:
		return Value{Type: models.AttributeNumber, Number: float64(n)}, nil
	case int64:
		return Value{Type: models.AttributeNumber, Number: float64(n)}, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%s must be a number", name)
		}
		return Value{Type: models.AttributeNumber, Number: f}, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%s must be a number", name)
		}
		return Value{Type: models.AttributeNumber, Number: f}, nil
	}
	return Value{}, fmt.Errorf("%s must be a number", name)
}

func coerceDate(name string, raw interface{}) (Value, error) {
	switch d := raw.(type) {
	case time.Time:
		return Value{Type: models.AttributeDate, Date: d}, nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return Value{Type: models.AttributeDate, Date: t}, nil
			}
		}
	}
	return Value{}, fmt.Errorf("%s must be a valid date", name)
}
