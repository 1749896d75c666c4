package config

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// ValidationError represents a single validation error with context.
type ValidationError struct {
	Path    string // e.g., "cache.olric_servers[0]"
	Message string // e.g., "invalid host:port"
	Hint    string // e.g., "expected localhost:3320"
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s; %s", e.Path, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate performs validation of the entire config.
// It aggregates all errors so the caller can print every issue at once.
// The base URL is checked separately by ValidateBaseURL because `serve`
// does not need one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateAPI()...)
	errs = append(errs, c.validateCache()...)
	errs = append(errs, c.validateLogging()...)
	errs = append(errs, c.validateServer()...)

	return errs
}

// ValidateBaseURL checks the Remote Contact Service base URL.
func (c *Config) ValidateBaseURL() error {
	if c.BaseURL == "" {
		return ValidationError{
			Path:    EnvVar,
			Message: "must be set",
			Hint:    "export CONTACTS_API_URL=http://localhost:8080 or pass --api-url",
		}
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ValidationError{
			Path:    EnvVar,
			Message: fmt.Sprintf("invalid URL %q", c.BaseURL),
			Hint:    "expected http(s)://host[:port][/prefix]",
		}
	}
	return nil
}

func (c *Config) validateAPI() []error {
	var errs []error
	api := c.API

	if api.Timeout < 0 {
		errs = append(errs, ValidationError{
			Path:    "api.timeout",
			Message: fmt.Sprintf("must be >= 0; got %s", api.Timeout),
		})
	}

	if api.PageSize < 1 {
		errs = append(errs, ValidationError{
			Path:    "api.page_size",
			Message: fmt.Sprintf("must be >= 1; got %d", api.PageSize),
		})
	}

	if strings.TrimSpace(api.Fields) == "" {
		errs = append(errs, ValidationError{
			Path:    "api.fields",
			Message: "must not be empty",
			Hint:    "default: " + DefaultFields,
		})
	}

	switch api.SearchPath {
	case SearchPathQuery, SearchPathSplit:
	default:
		errs = append(errs, ValidationError{
			Path:    "api.search_path",
			Message: fmt.Sprintf("invalid value %q", api.SearchPath),
			Hint:    "allowed values: query, split",
		})
	}

	return errs
}

func (c *Config) validateCache() []error {
	var errs []error
	cc := c.Cache

	switch cc.Backend {
	case CacheBackendMemory:
		return nil
	case CacheBackendOlric:
	default:
		return []error{ValidationError{
			Path:    "cache.backend",
			Message: fmt.Sprintf("invalid value %q", cc.Backend),
			Hint:    "allowed values: memory, olric",
		}}
	}

	if len(cc.OlricServers) == 0 {
		errs = append(errs, ValidationError{
			Path:    "cache.olric_servers",
			Message: "must not be empty when backend is olric",
		})
	}
	for i, server := range cc.OlricServers {
		if err := validateHostPort(server); err != nil {
			errs = append(errs, ValidationError{
				Path:    fmt.Sprintf("cache.olric_servers[%d]", i),
				Message: err.Error(),
				Hint:    "expected localhost:3320",
			})
		}
	}

	if cc.DMap == "" {
		errs = append(errs, ValidationError{
			Path:    "cache.dmap",
			Message: "must not be empty when backend is olric",
		})
	}

	if cc.OlricTimeout <= 0 {
		errs = append(errs, ValidationError{
			Path:    "cache.olric_timeout",
			Message: fmt.Sprintf("must be positive; got %s", cc.OlricTimeout),
		})
	}

	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error
	lc := c.Logging

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[lc.Level] {
		errs = append(errs, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("invalid value %q", lc.Level),
			Hint:    "allowed values: debug, info, warn, error",
		})
	}

	if lc.File == "" {
		errs = append(errs, ValidationError{
			Path:    "logging.file",
			Message: "must not be empty",
			Hint:    "the terminal UI writes its log here",
		})
	} else if strings.HasSuffix(lc.File, string(filepath.Separator)) {
		errs = append(errs, ValidationError{
			Path:    "logging.file",
			Message: fmt.Sprintf("%q is a directory", lc.File),
		})
	}

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error
	sc := c.Server

	if sc.ListenAddr == "" {
		errs = append(errs, ValidationError{
			Path:    "server.listen_addr",
			Message: "must not be empty",
		})
	} else if _, port, err := net.SplitHostPort(sc.ListenAddr); err != nil {
		errs = append(errs, ValidationError{
			Path:    "server.listen_addr",
			Message: err.Error(),
			Hint:    "expected [host]:port, e.g. :8080",
		})
	} else if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		errs = append(errs, ValidationError{
			Path:    "server.listen_addr",
			Message: fmt.Sprintf("invalid port %q", port),
		})
	}

	switch sc.Store {
	case StoreMemory:
	case StoreSQLite:
		if sc.SQLitePath == "" {
			errs = append(errs, ValidationError{
				Path:    "server.sqlite_path",
				Message: "must not be empty when store is sqlite",
			})
		}
	case StoreRQLite:
		if u, err := url.Parse(sc.RQLiteURL); err != nil || u.Host == "" {
			errs = append(errs, ValidationError{
				Path:    "server.rqlite_url",
				Message: fmt.Sprintf("invalid URL %q", sc.RQLiteURL),
				Hint:    "expected http://host:port",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Path:    "server.store",
			Message: fmt.Sprintf("invalid value %q", sc.Store),
			Hint:    "allowed values: memory, sqlite, rqlite",
		})
	}

	if sc.WriteTimeout < 0 {
		errs = append(errs, ValidationError{
			Path:    "server.write_timeout",
			Message: fmt.Sprintf("must be >= 0; got %s", sc.WriteTimeout),
		})
	}

	return errs
}

func validateHostPort(hostPort string) error {
	host, port, err := net.SplitHostPort(hostPort)
	if err != nil {
		return fmt.Errorf("expected format host:port")
	}
	if host == "" {
		return fmt.Errorf("host must not be empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil || portNum < 1 || portNum > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535; got %q", port)
	}
	return nil
}
