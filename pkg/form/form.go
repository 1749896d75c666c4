// Package form is the create/edit model for a contact: required text
// fields plus email and phone lists edited as slots with stable identity.
package form

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

// Field names a single-valued input. List inputs use FieldEmail and FieldPhone.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldAddress   Field = "address"
	FieldCity      Field = "city"
	FieldCountry   Field = "country"
	FieldEmail     Field = "email"
	FieldPhone     Field = "phone"
)

// TextFields lists the single-valued inputs in display order.
var TextFields = []Field{FieldFirstName, FieldLastName, FieldAddress, FieldCity, FieldCountry}

// Labels are the display names of the inputs.
var Labels = map[Field]string{
	FieldFirstName: "Name",
	FieldLastName:  "Last name",
	FieldAddress:   "Address",
	FieldCity:      "City",
	FieldCountry:   "Country",
	FieldEmail:     "Emails",
	FieldPhone:     "Numbers",
}

var requiredMessages = map[Field]string{
	FieldFirstName: "Please input the name of the contact!",
	FieldLastName:  "Please input the last name of the contact!",
	FieldAddress:   "Please input the address of the contact!",
	FieldCity:      "Please input the city of the contact!",
	FieldCountry:   "Please input the country of the contact!",
}

// SlotID identifies one entry of a list input for its whole lifetime.
type SlotID string

// Slot is one entry of a list input.
type Slot struct {
	ID    SlotID
	Value string
}

// Errors maps a field (or slot key, see SlotKey) to its validation message.
type Errors map[string]string

// Empty reports whether there are no errors.
func (e Errors) Empty() bool { return len(e) == 0 }

// Keys returns the failing keys in a stable order.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SlotKey is the Errors key of a list slot.
func SlotKey(field Field, id SlotID) string {
	return string(field) + "[" + string(id) + "]"
}

// Form holds the input state of one create or edit surface.
type Form struct {
	existing *contact.Contact
	values   map[Field]string
	emails   []Slot
	phones   []Slot
}

// New creates a form. A nil existing contact means "create"; otherwise the
// inputs are initialised from it.
func New(existing *contact.Contact) *Form {
	f := &Form{}
	if existing != nil {
		cp := *existing
		f.existing = &cp
	}
	f.Reset()
	return f
}

// Editing reports whether the form edits an existing contact.
func (f *Form) Editing() bool { return f.existing != nil }

// Existing returns the contact being edited, if any.
func (f *Form) Existing() (contact.Contact, bool) {
	if f.existing == nil {
		return contact.Contact{}, false
	}
	return *f.existing, true
}

// Title is the heading of the surface.
func (f *Form) Title() string {
	if f.Editing() {
		return "Edit contact"
	}
	return "Create a new contact"
}

// Reset restores the initial inputs.
func (f *Form) Reset() {
	f.values = make(map[Field]string, len(TextFields))
	emails, phones := []string{""}, []string{""}

	if c := f.existing; c != nil {
		f.values[FieldFirstName] = c.FirstName
		f.values[FieldLastName] = c.LastName
		f.values[FieldAddress] = c.Address.Address
		f.values[FieldCity] = c.Address.City
		f.values[FieldCountry] = c.Address.Country
		emails, phones = c.Emails(), c.Phones()
	}

	f.emails = newSlots(emails)
	f.phones = newSlots(phones)
}

func newSlots(values []string) []Slot {
	slots := make([]Slot, len(values))
	for i, v := range values {
		slots[i] = Slot{ID: SlotID(uuid.NewString()), Value: v}
	}
	return slots
}

// Get returns the value of a single-valued input.
func (f *Form) Get(field Field) string {
	return f.values[field]
}

// Set updates a single-valued input. Unknown fields are ignored.
func (f *Form) Set(field Field, value string) {
	if _, ok := requiredMessages[field]; ok {
		f.values[field] = value
	}
}

// Emails returns the email slots in order.
func (f *Form) Emails() []Slot { return append([]Slot(nil), f.emails...) }

// Phones returns the phone slots in order.
func (f *Form) Phones() []Slot { return append([]Slot(nil), f.phones...) }

// AddEmail appends an empty email slot.
func (f *Form) AddEmail() SlotID { return addSlot(&f.emails) }

// AddPhone appends an empty phone slot.
func (f *Form) AddPhone() SlotID { return addSlot(&f.phones) }

// RemoveEmail removes the email slot with the given identity. The last
// remaining slot cannot be removed.
func (f *Form) RemoveEmail(id SlotID) bool { return removeSlot(&f.emails, id) }

// RemovePhone removes the phone slot with the given identity. The last
// remaining slot cannot be removed.
func (f *Form) RemovePhone(id SlotID) bool { return removeSlot(&f.phones, id) }

// SetEmail updates the email slot with the given identity.
func (f *Form) SetEmail(id SlotID, value string) bool { return setSlot(f.emails, id, value) }

// SetPhone updates the phone slot with the given identity.
func (f *Form) SetPhone(id SlotID, value string) bool { return setSlot(f.phones, id, value) }

func addSlot(slots *[]Slot) SlotID {
	id := SlotID(uuid.NewString())
	*slots = append(*slots, Slot{ID: id})
	return id
}

func removeSlot(slots *[]Slot, id SlotID) bool {
	if len(*slots) <= 1 {
		return false
	}
	for i, s := range *slots {
		if s.ID == id {
			*slots = append((*slots)[:i:i], (*slots)[i+1:]...)
			return true
		}
	}
	return false
}

func setSlot(slots []Slot, id SlotID, value string) bool {
	for i := range slots {
		if slots[i].ID == id {
			slots[i].Value = value
			return true
		}
	}
	return false
}

// Validate checks every input independently. Each required text field must
// be non-blank; each list must have at least one slot and every slot must be
// non-blank.
func (f *Form) Validate() Errors {
	errs := Errors{}

	for _, field := range TextFields {
		if strings.TrimSpace(f.values[field]) == "" {
			errs[string(field)] = requiredMessages[field]
		}
	}

	validateSlots(errs, FieldEmail, f.emails, "Please input a email", "Please input a email or delete this field.")
	validateSlots(errs, FieldPhone, f.phones, "Please input a phone number", "Please input a phone number or delete this field.")

	return errs
}

func validateSlots(errs Errors, field Field, slots []Slot, first, rest string) {
	if len(slots) == 0 {
		errs[string(field)] = first
		return
	}
	for i, s := range slots {
		if strings.TrimSpace(s.Value) != "" {
			continue
		}
		if i == 0 {
			errs[SlotKey(field, s.ID)] = first
		} else {
			errs[SlotKey(field, s.ID)] = rest
		}
	}
}

// Submit validates the inputs and builds the contact to send. On failure it
// returns the first *errors.ValidationError in key order and the contact is
// zero; no network call should be made.
func (f *Form) Submit() (contact.Contact, error) {
	if errs := f.Validate(); !errs.Empty() {
		key := errs.Keys()[0]
		return contact.Contact{}, &SubmitError{
			ValidationError: errors.NewValidationError(key, errs[key], nil),
			Errors:          errs,
		}
	}

	var c contact.Contact
	if f.existing != nil {
		c = *f.existing
	}
	c.FirstName = strings.TrimSpace(f.values[FieldFirstName])
	c.LastName = strings.TrimSpace(f.values[FieldLastName])
	c.Address.Address = strings.TrimSpace(f.values[FieldAddress])
	c.Address.City = strings.TrimSpace(f.values[FieldCity])
	c.Address.Country = strings.TrimSpace(f.values[FieldCountry])
	c.Email = contact.JoinList(slotValues(f.emails))
	c.Phone = contact.JoinList(slotValues(f.phones))
	return c, nil
}

func slotValues(slots []Slot) []string {
	values := make([]string, len(slots))
	for i, s := range slots {
		values[i] = strings.TrimSpace(s.Value)
	}
	return values
}

// SubmitError carries every failing input of a rejected submission.
type SubmitError struct {
	*errors.ValidationError
	Errors Errors
}

// Unwrap exposes the validation error to errors.As.
func (e *SubmitError) Unwrap() error { return e.ValidationError }
