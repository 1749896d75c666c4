package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/rqlite/gorqlite/stdlib"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name  TEXT NOT NULL,
	last_name   TEXT NOT NULL,
	email       TEXT NOT NULL DEFAULT '',
	phone       TEXT NOT NULL DEFAULT '',
	address     TEXT NOT NULL DEFAULT '',
	city        TEXT NOT NULL DEFAULT '',
	state       TEXT NOT NULL DEFAULT '',
	state_code  TEXT NOT NULL DEFAULT '',
	postal_code TEXT NOT NULL DEFAULT '',
	lat         REAL NOT NULL DEFAULT 0,
	lng         REAL NOT NULL DEFAULT 0,
	country     TEXT NOT NULL DEFAULT ''
)`

const columns = `id, first_name, last_name, email, phone, address, city, state, state_code, postal_code, lat, lng, country`

// SQLStore keeps contacts in a SQL table. It runs on a local SQLite file or
// on an rqlite cluster through the gorqlite database/sql driver.
type SQLStore struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.NewStorageError("open", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		logger.Warn("Failed to enable WAL mode", zap.Error(err))
	}
	return newSQLStore(ctx, db, "sqlite3", logger)
}

// OpenRQLite connects to an rqlite node at url, e.g. http://localhost:5001.
func OpenRQLite(ctx context.Context, url string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("rqlite", url)
	if err != nil {
		return nil, errors.NewStorageError("open", err)
	}
	return newSQLStore(ctx, db, "rqlite", logger)
}

func newSQLStore(ctx context.Context, db *sql.DB, driver string, logger *zap.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SQLStore{db: db, driver: driver, logger: logger}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError("migrate", err)
	}
	logger.Debug("Contact store ready", zap.String("driver", driver))
	return s, nil
}

func (s *SQLStore) List(ctx context.Context, opts ListOptions) ([]contact.Contact, int, error) {
	where, args := "", []any{}
	if opts.Search != "" {
		pattern := "%" + escapeLike(foldASCII(opts.Search)) + "%"
		where = ` WHERE LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewStorageError("count", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	skip := opts.Skip
	if skip < 0 {
		skip = 0
	}
	query := fmt.Sprintf("SELECT %s FROM contacts%s ORDER BY id DESC LIMIT ? OFFSET ?", columns, where)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, skip)...)
	if err != nil {
		return nil, 0, errors.NewStorageError("list", err)
	}
	defer rows.Close()

	contacts := []contact.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, errors.NewStorageError("list", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewStorageError("list", err)
	}
	return contacts, total, nil
}

func (s *SQLStore) Get(ctx context.Context, id contact.ID) (contact.Contact, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM contacts WHERE id = ?", int64(id))
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Contact{}, notFound(id)
	}
	if err != nil {
		return contact.Contact{}, errors.NewStorageError("get", err)
	}
	return c, nil
}

func (s *SQLStore) Create(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (first_name, last_name, email, phone, address, city, state, state_code, postal_code, lat, lng, country)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.Email, c.Phone,
		c.Address.Address, c.Address.City, c.Address.State, c.Address.StateCode, c.Address.PostalCode,
		c.Address.Coordinates.Lat, c.Address.Coordinates.Lng, c.Address.Country,
	)
	if err != nil {
		return contact.Contact{}, errors.NewStorageError("create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return contact.Contact{}, errors.NewStorageError("create", err)
	}
	c.ID = contact.ID(id)
	return c, nil
}

func (s *SQLStore) Update(ctx context.Context, id contact.ID, c contact.Contact) (contact.Contact, error) {
	stored, err := s.Get(ctx, id)
	if err != nil {
		return contact.Contact{}, err
	}
	u := merge(stored, c)

	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET first_name = ?, last_name = ?, email = ?, phone = ?, address = ?, city = ?,
		 state = ?, state_code = ?, postal_code = ?, lat = ?, lng = ?, country = ? WHERE id = ?`,
		u.FirstName, u.LastName, u.Email, u.Phone, u.Address.Address, u.Address.City,
		u.Address.State, u.Address.StateCode, u.Address.PostalCode,
		u.Address.Coordinates.Lat, u.Address.Coordinates.Lng, u.Address.Country, int64(id),
	)
	if err != nil {
		return contact.Contact{}, errors.NewStorageError("update", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return contact.Contact{}, notFound(id)
	}
	return u, nil
}

func (s *SQLStore) Delete(ctx context.Context, id contact.ID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", int64(id))
	if err != nil {
		return errors.NewStorageError("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewStorageError("delete", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(row scanner) (contact.Contact, error) {
	var (
		c  contact.Contact
		id int64
	)
	err := row.Scan(&id, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Address.Address, &c.Address.City, &c.Address.State, &c.Address.StateCode, &c.Address.PostalCode,
		&c.Address.Coordinates.Lat, &c.Address.Coordinates.Lng, &c.Address.Country)
	c.ID = contact.ID(id)
	return c, err
}

var _ ContactStore = (*SQLStore)(nil)
