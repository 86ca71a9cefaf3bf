package contact

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultRegion is the numbering plan used when none is configured.
const DefaultRegion = "RU"

// Validator builds and checks records. Phone numbers are parsed against a
// default region, so national forms like "8 900 123-45-67" are accepted for
// that region while "+<country code>" numbers are accepted from anywhere.
type Validator struct {
	validate *validator.Validate
	region   string
}

// NewValidator returns a Validator for the given ISO 3166-1 region code.
// An empty region selects DefaultRegion.
func NewValidator(region string) (*Validator, error) {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}
	if phonenumbers.GetCountryCodeForRegion(region) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}

	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		region:   region,
	}
	v.validate.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return sf.Tag.Get("field")
	})
	if err := v.validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return v.ValidPhone(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("contact: registering phone validator: %w", err)
	}
	return v, nil
}

// Region returns the configured default region.
func (v *Validator) Region() string {
	return v.region
}

// ValidPhone reports whether s parses as a valid number in the default region.
func (v *Validator) ValidPhone(s string) bool {
	num, err := phonenumbers.Parse(s, v.region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// New builds a record from values given in Fields order. On success the name
// fields are capitalized and the other values are kept as entered (minus
// surrounding whitespace). On failure the returned error is a
// *ValidationError listing every failing field.
func (v *Validator) New(values ...string) (Record, error) {
	if len(values) != len(Fields) {
		return Record{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(values), len(Fields))
	}

	var r Record
	for i, f := range Fields {
		r.set(f, strings.TrimSpace(values[i]))
	}
	if err := v.Validate(r); err != nil {
		return Record{}, err
	}

	title := cases.Title(language.Und)
	for _, f := range Fields {
		if f.IsName() {
			r.set(f, title.String(r.Value(f)))
		}
	}
	return r, nil
}

// Validate checks r against the field rules.
func (v *Validator) Validate(r Record) error {
	err := v.validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("contact: validating record: %w", err)
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		f, ok := fieldByKey(fe.Field())
		if !ok {
			continue
		}
		ve.Errors = append(ve.Errors, FieldError{
			Field:  f,
			Value:  r.Value(f),
			Reason: reasonForTag(fe.Tag()),
		})
	}
	return ve
}

// reasonForTag maps a validator tag to a Reason.
func reasonForTag(tag string) Reason {
	switch tag {
	case "required":
		return ReasonRequired
	case "alphaunicode":
		return ReasonNotAlpha
	case "phone":
		return ReasonInvalidPhone
	default:
		return ReasonInvalid
	}
}
