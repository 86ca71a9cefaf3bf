package contact

import "strings"

// Record is one directory entry. Values are only produced by Validator, so a
// Record in memory always satisfies the validation rules.
type Record struct {
	LastName     string `field:"lastname" validate:"required,alphaunicode"`
	FirstName    string `field:"firstname" validate:"required,alphaunicode"`
	MiddleName   string `field:"middlename" validate:"omitempty,alphaunicode"`
	Company      string `field:"company"`
	CompanyPhone string `field:"company_phone" validate:"required,phone"`
	Phone        string `field:"phonenumber" validate:"required,phone"`
}

// Value returns the value of field f.
func (r Record) Value(f Field) string {
	switch f {
	case LastName:
		return r.LastName
	case FirstName:
		return r.FirstName
	case MiddleName:
		return r.MiddleName
	case Company:
		return r.Company
	case CompanyPhone:
		return r.CompanyPhone
	case Phone:
		return r.Phone
	default:
		return ""
	}
}

// Values returns the six values in serialization order.
func (r Record) Values() []string {
	values := make([]string, len(Fields))
	for i, f := range Fields {
		values[i] = r.Value(f)
	}
	return values
}

// Text renders every field as "Label: value" lines.
func (r Record) Text() string {
	var b strings.Builder
	for _, f := range Fields {
		b.WriteString(f.Label())
		b.WriteString(": ")
		b.WriteString(r.Value(f))
		b.WriteByte('\n')
	}
	return b.String()
}

// SearchText joins the six values one per line, without labels. Full-text
// search matches against this form.
func (r Record) SearchText() string {
	return strings.Join(r.Values(), "\n")
}

// FullName joins the non-empty name parts as "Last First Middle".
func (r Record) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.LastName, r.FirstName, r.MiddleName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// set assigns value to field f.
func (r *Record) set(f Field, value string) {
	switch f {
	case LastName:
		r.LastName = value
	case FirstName:
		r.FirstName = value
	case MiddleName:
		r.MiddleName = value
	case Company:
		r.Company = value
	case CompanyPhone:
		r.CompanyPhone = value
	case Phone:
		r.Phone = value
	}
}
