package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/cache"
	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
	"github.com/DeBrosOfficial/contacts/pkg/form"
	"github.com/DeBrosOfficial/contacts/pkg/logging"
	"github.com/DeBrosOfficial/contacts/pkg/mutation"
)

var listFlags struct {
	search   string
	page     int
	pageSize int
}

// contactFlags are shared by create and update.
type contactFlags struct {
	firstName string
	lastName  string
	address   string
	city      string
	country   string
	emails    []string
	phones    []string
}

var createFlags, updateFlags contactFlags

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	Long: `List one page of contacts, newest first.

Example:
  contacts list
  contacts list --search ann --page 2 --page-size 20`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a contact",
	Long: `Create a contact. Name, last name, address, city and country are
required, as are at least one email and one phone number.

Example:
  contacts create --first-name Ann --last-name Lee --address "1 Main St" \
    --city Springfield --country "United States" \
    --email ann@example.com --phone 5550100`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, func(ctx context.Context, m *mutation.Mutator) (mutation.Result, error) {
			c, err := createFlags.submit(nil)
			if err != nil {
				return mutation.Result{}, err
			}
			return m.Create(ctx, c), nil
		})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace the editable fields of a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runMutation(cmd, func(ctx context.Context, m *mutation.Mutator) (mutation.Result, error) {
			c, err := updateFlags.submit(&contact.Contact{ID: id})
			if err != nil {
				return mutation.Result{}, err
			}
			return m.Update(ctx, id, c), nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runMutation(cmd, func(ctx context.Context, m *mutation.Mutator) (mutation.Result, error) {
			return m.Delete(ctx, id), nil
		})
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFlags.search, "search", "s", "", "filter by name")
	listCmd.Flags().IntVar(&listFlags.page, "page", 1, "page number, 1-based")
	listCmd.Flags().IntVar(&listFlags.pageSize, "page-size", 0, "contacts per page (default: api.page_size)")

	createFlags.register(createCmd)
	updateFlags.register(updateCmd)
}

func (f *contactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&f.address, "address", "", "street address")
	cmd.Flags().StringVar(&f.city, "city", "", "city")
	cmd.Flags().StringVar(&f.country, "country", "", "country")
	cmd.Flags().StringArrayVar(&f.emails, "email", nil, "email address (repeatable)")
	cmd.Flags().StringArrayVar(&f.phones, "phone", nil, "phone number (repeatable)")
}

// submit runs the flag values through the same form the screen uses. An
// existing contact puts the form in edit mode; only its identifier matters.
func (f *contactFlags) submit(existing *contact.Contact) (contact.Contact, error) {
	fm := form.New(existing)
	fm.Set(form.FieldFirstName, f.firstName)
	fm.Set(form.FieldLastName, f.lastName)
	fm.Set(form.FieldAddress, f.address)
	fm.Set(form.FieldCity, f.city)
	fm.Set(form.FieldCountry, f.country)
	fillSlots(fm.Emails, fm.AddEmail, fm.SetEmail, fm.RemoveEmail, f.emails)
	fillSlots(fm.Phones, fm.AddPhone, fm.SetPhone, fm.RemovePhone, f.phones)

	c, err := fm.Submit()
	if err != nil {
		var se *form.SubmitError
		if errors.As(err, &se) {
			if logger != nil {
				logger.ComponentDebug(logging.ComponentForm, "Contact form rejected",
					zap.Strings("fields", se.Errors.Keys()))
			}
			return contact.Contact{}, invalidInput(se.Errors)
		}
		return contact.Contact{}, err
	}
	return c, nil
}

// fillSlots makes the slot list hold exactly values, in order.
func fillSlots(
	slots func() []form.Slot,
	add func() form.SlotID,
	set func(form.SlotID, string) bool,
	remove func(form.SlotID) bool,
	values []string,
) {
	if len(values) == 0 {
		return
	}
	current := slots()
	if len(current) == 0 {
		current = []form.Slot{{ID: add()}}
	}
	set(current[0].ID, values[0])
	for _, s := range current[1:] {
		remove(s.ID)
	}
	for _, v := range values[1:] {
		set(add(), v)
	}
}

func invalidInput(errs form.Errors) error {
	var b strings.Builder
	for _, k := range errs.Keys() {
		fmt.Fprintf(&b, "\n  - %s: %s", flagName(k), errs[k])
	}
	return fmt.Errorf("invalid contact:%s", b.String())
}

// flagName maps a form error key (possibly a slot key) to its flag.
func flagName(key string) string {
	field, _, _ := strings.Cut(key, "[")
	switch form.Field(field) {
	case form.FieldFirstName:
		return "--first-name"
	case form.FieldLastName:
		return "--last-name"
	case form.FieldEmail:
		return "--email"
	case form.FieldPhone:
		return "--phone"
	default:
		return "--" + field
	}
}

func parseID(s string) (contact.ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.NewValidationError("id", "must be a positive integer", s)
	}
	return contact.ID(n), nil
}

// runMutation runs one mutation through the optimistic flow with no cached
// page and prints the notice it produces.
func runMutation(cmd *cobra.Command, do func(context.Context, *mutation.Mutator) (mutation.Result, error)) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	c, err := newClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	m := mutation.New(c, cache.New(nil),
		mutation.ActiveQueryFunc(func() contact.Query { return contact.Query{} }),
		mutation.WithNotifier(mutation.NotifierFunc(func(n mutation.Notice) { printNotice(out, n) })),
		mutation.WithLogger(logger.For(logging.ComponentMutation)),
	)

	res, err := do(ctx, m)
	if err != nil {
		return err
	}
	if res.State == mutation.StateFailed {
		return errors.Wrap(res.Err, res.Notice.Message)
	}
	if flagJSON && res.Kind != mutation.KindDelete {
		return writeJSON(out, res.Contact)
	}
	return nil
}

func printNotice(w io.Writer, n mutation.Notice) {
	if n.Level == mutation.LevelFailure {
		return
	}
	fmt.Fprintf(w, "✅ %s\n", n.Message)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	c, err := newClient()
	if err != nil {
		return err
	}

	size := listFlags.pageSize
	if size <= 0 {
		size = cfg.API.PageSize
	}
	page := listFlags.page
	if page < 1 {
		page = 1
	}

	p, err := c.List(ctx, contact.Query{
		Search: strings.TrimSpace(listFlags.search),
		Skip:   (page - 1) * size,
		Limit:  size,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, p)
	}
	fmt.Fprintln(out, renderPage(p))
	pages := (p.Total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	fmt.Fprintf(out, "page %d/%d, %d contacts\n", page, pages, p.Total)
	return nil
}

func renderPage(p *contact.Page) string {
	rows := make([][]string, len(p.Contacts))
	for i, c := range p.Contacts {
		rows[i] = []string{
			strconv.FormatInt(int64(c.ID), 10),
			c.FirstName,
			c.LastName,
			c.Address.City,
			c.Address.Country,
			c.Email,
			c.Phone,
		}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Last name", "City", "Country", "Emails", "Numbers").
		Rows(rows...).
		String()
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
