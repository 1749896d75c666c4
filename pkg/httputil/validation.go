package httputil

import (
	"strings"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

// ProjectableFields are the contact fields a fields= parameter may name.
var ProjectableFields = map[string]bool{
	"id":        true,
	"firstName": true,
	"lastName":  true,
	"email":     true,
	"phone":     true,
	"address":   true,
}

// ValidateFields checks a projection list. The id is always included so that
// clients can key rows.
func ValidateFields(fields []string) ([]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	out := []string{"id"}
	for _, f := range fields {
		if !ProjectableFields[f] {
			return nil, errors.NewValidationError("fields", "unknown field "+f, f)
		}
		if f != "id" {
			out = append(out, f)
		}
	}
	return out, nil
}

// ValidateContact checks a contact body received by the service. Names are
// required; the other fields may be empty.
func ValidateContact(c contact.Contact) error {
	if IsEmpty(c.FirstName) {
		return errors.NewValidationError("firstName", "first name is required", c.FirstName)
	}
	if IsEmpty(c.LastName) {
		return errors.NewValidationError("lastName", "last name is required", c.LastName)
	}
	return nil
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}
