package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRQLite = "rqlite"
)

// Options selects and locates a backend.
type Options struct {
	Backend    string
	SQLitePath string
	RQLiteURL  string
	Logger     *zap.Logger
}

// Open creates the store named by opts.Backend.
func Open(ctx context.Context, opts Options) (ContactStore, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendSQLite:
		return OpenSQLite(ctx, opts.SQLitePath, logger)
	case BackendRQLite:
		return OpenRQLite(ctx, opts.RQLiteURL, logger)
	default:
		return nil, errors.NewValidationError("server.store", "unknown store backend", opts.Backend)
	}
}

var seedContacts = []contact.Contact{
	{
		FirstName: "Emily", LastName: "Johnson",
		Email: "emily.johnson@example.com", Phone: "+81 965-431-3024",
		Address: contact.Address{
			Address: "626 Main Street", City: "Phoenix", State: "Mississippi", StateCode: "MS",
			PostalCode: "29112", Coordinates: contact.Coordinates{Lat: -77.16213, Lng: -92.084824},
			Country: "United States",
		},
	},
	{
		FirstName: "Michael", LastName: "Williams",
		Email: "michael.williams@example.com", Phone: "+49 258-627-6644",
		Address: contact.Address{
			Address: "385 Fifth Street", City: "Houston", State: "Alabama", StateCode: "AL",
			PostalCode: "38807", Coordinates: contact.Coordinates{Lat: 22.815468, Lng: 115.608581},
			Country: "United States",
		},
	},
	{
		FirstName: "Sophia", LastName: "Brown",
		Email: "sophia.brown@example.com, sophia@work.example.com", Phone: "+81 210-652-2785",
		Address: contact.Address{
			Address: "1642 Ninth Street", City: "Washington", State: "Alabama", StateCode: "AL",
			PostalCode: "32822", Coordinates: contact.Coordinates{Lat: 45.289366, Lng: 46.832664},
			Country: "United States",
		},
	},
	{
		FirstName: "James", LastName: "Davis",
		Email: "james.davis@example.com", Phone: "+49 614-958-9364, +49 614-958-9365",
		Address: contact.Address{
			Address: "238 Jefferson Street", City: "Seattle", State: "Pennsylvania", StateCode: "PA",
			PostalCode: "68354", Coordinates: contact.Coordinates{Lat: 10.39267, Lng: 12.82517},
			Country: "United States",
		},
	},
	{
		FirstName: "Annabel", LastName: "Moreau",
		Email: "annabel.moreau@example.fr", Phone: "+33 1 42 68 53 00",
		Address: contact.Address{
			Address: "12 Rue de Rivoli", City: "Paris", PostalCode: "75004",
			Coordinates: contact.Coordinates{Lat: 48.855, Lng: 2.36}, Country: "France",
		},
	},
	{
		FirstName: "Émile", LastName: "Zanetti",
		Email: "emile.zanetti@example.it", Phone: "+39 06 6982",
		Address: contact.Address{
			Address: "Via del Corso 18", City: "Rome", PostalCode: "00186",
			Coordinates: contact.Coordinates{Lat: 41.9, Lng: 12.48}, Country: "Italy",
		},
	},
	{
		FirstName: "Joanna", LastName: "Ångström",
		Email: "joanna.angstrom@example.se", Phone: "+46 8 508 290 00",
		Address: contact.Address{
			Address: "Drottninggatan 7", City: "Stockholm", PostalCode: "111 51",
			Coordinates: contact.Coordinates{Lat: 59.33, Lng: 18.06}, Country: "Sweden",
		},
	},
	{
		FirstName: "Kenji", LastName: "Sato",
		Email: "kenji.sato@example.jp", Phone: "+81 3-3201-3331",
		Address: contact.Address{
			Address: "1-1 Marunouchi", City: "Tokyo", PostalCode: "100-0005",
			Coordinates: contact.Coordinates{Lat: 35.68, Lng: 139.76}, Country: "Japan",
		},
	},
	{
		FirstName: "Lucía", LastName: "Fernández",
		Email: "lucia.fernandez@example.es", Phone: "+34 915 21 12 12",
		Address: contact.Address{
			Address: "Calle Mayor 5", City: "Madrid", PostalCode: "28013",
			Coordinates: contact.Coordinates{Lat: 40.41, Lng: -3.7}, Country: "Spain",
		},
	},
	{
		FirstName: "Oliver", LastName: "Hannigan",
		Email: "oliver.hannigan@example.ie", Phone: "+353 1 677 0095",
		Address: contact.Address{
			Address: "4 Grafton Street", City: "Dublin", PostalCode: "D02",
			Coordinates: contact.Coordinates{Lat: 53.34, Lng: -6.26}, Country: "Ireland",
		},
	},
	{
		FirstName: "Chidi", LastName: "Okafor",
		Email: "chidi.okafor@example.ng", Phone: "+234 1 280 9999",
		Address: contact.Address{
			Address: "22 Broad Street", City: "Lagos", PostalCode: "101001",
			Coordinates: contact.Coordinates{Lat: 6.45, Lng: 3.39}, Country: "Nigeria",
		},
	},
	{
		FirstName: "Mariana", LastName: "Costa",
		Email: "mariana.costa@example.br", Phone: "+55 11 3090-1000",
		Address: contact.Address{
			Address: "Avenida Paulista 900", City: "São Paulo", PostalCode: "01310-100",
			Coordinates: contact.Coordinates{Lat: -23.56, Lng: -46.65}, Country: "Brazil",
		},
	},
}

// Seed fills an empty store with sample contacts and returns how many were
// added. A store that already holds contacts is left alone.
func Seed(ctx context.Context, s ContactStore) (int, error) {
	_, total, err := s.List(ctx, ListOptions{Limit: 1})
	if err != nil {
		return 0, err
	}
	if total > 0 {
		return 0, nil
	}
	for i, c := range seedContacts {
		if _, err := s.Create(ctx, c); err != nil {
			return i, err
		}
	}
	return len(seedContacts), nil
}
