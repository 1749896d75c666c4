package config

import (
	"time"
)

// Config represents the configuration of the contacts client and of the
// development contact service.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`

	// BaseURL is the Remote Contact Service base URL. It is never read
	// from the file, only from the environment or a flag.
	BaseURL string `yaml:"-"`
}

// Search path layouts understood by the client.
const (
	SearchPathQuery = "query" // GET /contacts?query=...
	SearchPathSplit = "split" // GET /contacts/search?q=... when searching
)

// APIConfig controls calls to the Remote Contact Service
type APIConfig struct {
	Timeout    time.Duration `yaml:"timeout"`     // Per request; zero means no timeout
	PageSize   int           `yaml:"page_size"`   // Initial page size of the list view
	Fields     string        `yaml:"fields"`      // Projection sent as fields=
	SearchPath string        `yaml:"search_path"` // query | split
}

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendOlric  = "olric"
)

// CacheConfig selects where cached pages live
type CacheConfig struct {
	Backend      string        `yaml:"backend"`       // memory | olric
	OlricServers []string      `yaml:"olric_servers"` // host:port of olric members
	DMap         string        `yaml:"dmap"`          // DMap holding the pages
	OlricTimeout time.Duration `yaml:"olric_timeout"` // Per operation
}

// LoggingConfig holds log level and destination
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	File   string `yaml:"file"`   // Log file used by the terminal UI
	Colors bool   `yaml:"colors"` // ANSI colors in console output
}

// Store backends of the development contact service
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRQLite = "rqlite"
)

// ServerConfig configures `contacts serve`
type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr"`
	Store        string        `yaml:"store"`         // memory | sqlite | rqlite
	SQLitePath   string        `yaml:"sqlite_path"`   // Database file for the sqlite store
	RQLiteURL    string        `yaml:"rqlite_url"`    // e.g. http://localhost:5001
	Seed         bool          `yaml:"seed"`          // Load sample contacts into an empty store
	WriteTimeout time.Duration `yaml:"write_timeout"` // Per request handler timeout
}

// DefaultFields is the projection requested with every list call.
const DefaultFields = "id,firstName,lastName,email,phone,address"

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Timeout:    10 * time.Second,
			PageSize:   10,
			Fields:     DefaultFields,
			SearchPath: SearchPathQuery,
		},
		Cache: CacheConfig{
			Backend:      CacheBackendMemory,
			OlricServers: []string{"localhost:3320"},
			DMap:         "contacts-pages",
			OlricTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			File:   "contacts.log",
			Colors: true,
		},
		Server: ServerConfig{
			ListenAddr:   ":8080",
			Store:        StoreMemory,
			SQLitePath:   "contacts.db",
			RQLiteURL:    "http://localhost:5001",
			Seed:         true,
			WriteTimeout: 30 * time.Second,
		},
	}
}
