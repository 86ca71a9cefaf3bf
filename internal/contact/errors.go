package contact

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFieldCount indicates input that does not carry exactly one value per field.
var ErrFieldCount = errors.New("contact: wrong number of fields")

// ErrUnknownRegion indicates a phone region code that the numbering plan
// metadata does not know.
var ErrUnknownRegion = errors.New("contact: unknown phone region")

// Reason classifies why a field failed validation.
type Reason int

const (
	ReasonInvalid Reason = iota
	ReasonRequired
	ReasonNotAlpha
	ReasonInvalidPhone
)

// String returns the reason in English, for logs and error strings.
func (r Reason) String() string {
	switch r {
	case ReasonRequired:
		return "value is required"
	case ReasonNotAlpha:
		return "must contain only letters"
	case ReasonInvalidPhone:
		return "not a valid phone number"
	default:
		return "invalid value"
	}
}

// Message returns the reason as shown to the user.
func (r Reason) Message() string {
	switch r {
	case ReasonRequired:
		return "поле обязательно для заполнения"
	case ReasonNotAlpha:
		return "допускаются только буквы"
	case ReasonInvalidPhone:
		return "некорректный номер телефона"
	default:
		return "некорректное значение"
	}
}

// FieldError describes one failing field.
type FieldError struct {
	Field  Field
	Value  string
	Reason Reason
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field.Key(), e.Value, e.Reason)
}

// ValidationError collects every failing field of a candidate record.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return "contact: invalid record: " + strings.Join(msgs, "; ")
}

// Has reports whether field f is among the failures.
func (e *ValidationError) Has(f Field) bool {
	for _, fe := range e.Errors {
		if fe.Field == f {
			return true
		}
	}
	return false
}

// FieldErrors extracts the per-field failures from err, or nil when err is
// not a validation error.
func FieldErrors(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Errors
	}
	return nil
}
