package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
	"github.com/DeBrosOfficial/contacts/pkg/form"
)

// formInput binds one text input to a form field or list slot.
type formInput struct {
	field form.Field
	slot  form.SlotID // Empty for single-valued fields
	input textinput.Model
}

func (fi formInput) errKey() string {
	if fi.slot == "" {
		return string(fi.field)
	}
	return form.SlotKey(fi.field, fi.slot)
}

func newInput(value string) textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40
	ti.Prompt = ""
	ti.SetValue(value)
	return ti
}

func (m *Model) openForm(existing *contact.Contact) tea.Cmd {
	m.form = form.New(existing)
	m.formErrs = nil
	m.submitting = false
	m.mode = modeForm
	m.focus = 0
	m.rebuildInputs()
	return m.focusInput()
}

func (m *Model) closeForm() {
	m.form = nil
	m.inputs = nil
	m.formErrs = nil
	m.mode = modeList
}

// rebuildInputs lays the inputs out in form order, keeping existing text
// inputs for slots that survived.
func (m *Model) rebuildInputs() {
	old := make(map[string]textinput.Model, len(m.inputs))
	for _, fi := range m.inputs {
		old[fi.errKey()] = fi.input
	}

	var inputs []formInput
	for _, f := range form.TextFields {
		inputs = append(inputs, formInput{field: f, input: reuse(old, string(f), m.form.Get(f))})
	}
	for _, s := range m.form.Emails() {
		inputs = append(inputs, formInput{field: form.FieldEmail, slot: s.ID, input: reuse(old, form.SlotKey(form.FieldEmail, s.ID), s.Value)})
	}
	for _, s := range m.form.Phones() {
		inputs = append(inputs, formInput{field: form.FieldPhone, slot: s.ID, input: reuse(old, form.SlotKey(form.FieldPhone, s.ID), s.Value)})
	}
	m.inputs = inputs
	if m.focus >= len(m.inputs) {
		m.focus = len(m.inputs) - 1
	}
}

func reuse(old map[string]textinput.Model, key, value string) textinput.Model {
	if ti, ok := old[key]; ok {
		return ti
	}
	return newInput(value)
}

func (m *Model) focusInput() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].input.Focus()
		} else {
			m.inputs[i].input.Blur()
		}
	}
	return cmd
}

// store copies the focused input back into the form.
func (m *Model) store(fi formInput) {
	v := fi.input.Value()
	switch fi.field {
	case form.FieldEmail:
		m.form.SetEmail(fi.slot, v)
	case form.FieldPhone:
		m.form.SetPhone(fi.slot, v)
	default:
		m.form.Set(fi.field, v)
	}
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	// The form is disabled while its submission is in flight.
	if m.submitting {
		return nil
	}

	k := defaultFormKeys
	switch {
	case key.Matches(msg, k.Cancel):
		m.form.Reset()
		m.closeForm()
		return nil

	case key.Matches(msg, k.Submit):
		return m.submit()

	case key.Matches(msg, k.Next):
		m.focus = (m.focus + 1) % len(m.inputs)
		return m.focusInput()

	case key.Matches(msg, k.Prev):
		m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
		return m.focusInput()

	case key.Matches(msg, k.AddEmail):
		id := m.form.AddEmail()
		m.rebuildInputs()
		m.focusSlot(form.FieldEmail, id)
		return m.focusInput()

	case key.Matches(msg, k.AddPhone):
		id := m.form.AddPhone()
		m.rebuildInputs()
		m.focusSlot(form.FieldPhone, id)
		return m.focusInput()

	case key.Matches(msg, k.Remove):
		fi := m.inputs[m.focus]
		removed := false
		switch fi.field {
		case form.FieldEmail:
			removed = m.form.RemoveEmail(fi.slot)
		case form.FieldPhone:
			removed = m.form.RemovePhone(fi.slot)
		}
		if removed {
			delete(m.formErrs, fi.errKey())
			m.rebuildInputs()
			return m.focusInput()
		}
		return nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus].input, cmd = m.inputs[m.focus].input.Update(msg)
	m.store(m.inputs[m.focus])
	return cmd
}

func (m *Model) focusSlot(field form.Field, id form.SlotID) {
	for i, fi := range m.inputs {
		if fi.field == field && fi.slot == id {
			m.focus = i
			return
		}
	}
}

func (m *Model) submit() tea.Cmd {
	c, err := m.form.Submit()
	if err != nil {
		var se *form.SubmitError
		if errors.As(err, &se) {
			m.formErrs = se.Errors
		}
		return nil
	}
	m.formErrs = nil
	m.submitting = true

	ctx := m.ctx
	existing, editing := m.form.Existing()
	return func() tea.Msg {
		if editing {
			return mutationDoneMsg{res: m.mutator.Update(ctx, existing.ID, c), fromForm: true}
		}
		return mutationDoneMsg{res: m.mutator.Create(ctx, c), fromForm: true}
	}
}

func (m *Model) viewForm() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(m.form.Title()) + "\n")

	var lastField form.Field
	for i, fi := range m.inputs {
		label := ""
		if fi.field != lastField {
			label = form.Labels[fi.field]
			lastField = fi.field
		}

		style := blurredStyle
		if i == m.focus {
			style = focusedStyle
		}
		s.WriteString(style.Render(padRight(label, 10)) + " " + fi.input.View() + "\n")
		if msg, ok := m.formErrs[fi.errKey()]; ok {
			s.WriteString(strings.Repeat(" ", 11) + errorStyle.Render(msg) + "\n")
		}
	}

	if m.submitting {
		s.WriteString("\n" + m.spinner.View() + " Saving...")
	} else {
		s.WriteString(helpStyle.Render(m.help.View(defaultFormKeys)))
	}
	return boxStyle.Render(s.String())
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
