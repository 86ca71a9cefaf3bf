// Package contact defines the contact record, its fixed field order, and
// validation of user and file input.
package contact

// Field identifies one of the six record fields.
type Field int

const (
	LastName Field = iota
	FirstName
	MiddleName
	Company
	CompanyPhone
	Phone
)

// Fields lists every field in serialization order.
var Fields = []Field{LastName, FirstName, MiddleName, Company, CompanyPhone, Phone}

var fieldKeys = [...]string{
	LastName:     "lastname",
	FirstName:    "firstname",
	MiddleName:   "middlename",
	Company:      "company",
	CompanyPhone: "company_phone",
	Phone:        "phonenumber",
}

var fieldLabels = [...]string{
	LastName:     "Фамилия",
	FirstName:    "Имя",
	MiddleName:   "Отчество",
	Company:      "Название организации",
	CompanyPhone: "Рабочий телефон",
	Phone:        "Личный телефон",
}

// Key returns the serialization key, e.g. "company_phone".
func (f Field) Key() string {
	if f < 0 || int(f) >= len(fieldKeys) {
		return "unknown"
	}
	return fieldKeys[f]
}

// Label returns the localized label shown in prompts and cards.
func (f Field) Label() string {
	if f < 0 || int(f) >= len(fieldLabels) {
		return "?"
	}
	return fieldLabels[f]
}

// String implements fmt.Stringer.
func (f Field) String() string {
	return f.Key()
}

// IsName reports whether f holds a personal name.
func (f Field) IsName() bool {
	return f == LastName || f == FirstName || f == MiddleName
}

// fieldByKey resolves a serialization key back to its Field.
func fieldByKey(key string) (Field, bool) {
	for _, f := range Fields {
		if fieldKeys[f] == key {
			return f, true
		}
	}
	return 0, false
}
