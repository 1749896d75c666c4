package httputil

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

// MaxBodyBytes bounds request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into v, rejecting unknown fields and
// bodies larger than MaxBodyBytes. Failures are validation errors on "body".
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewValidationError("body", "invalid JSON body: "+err.Error(), nil)
	}
	return nil
}

// QueryParam returns the value of a query parameter, or defaultValue if not present.
func QueryParam(r *http.Request, key, defaultValue string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return defaultValue
}

// QueryParamInt returns a non-negative integer query parameter, or
// defaultValue when absent. Malformed or negative values are validation errors.
func QueryParamInt(r *http.Request, key string, defaultValue int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return 0, errors.NewValidationError(key, "must be a non-negative integer", v)
	}
	return i, nil
}

// QueryParamList splits a comma-separated query parameter, dropping blanks.
func QueryParamList(r *http.Request, key string) []string {
	var out []string
	for _, part := range strings.Split(r.URL.Query().Get(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseID parses a positive integer path identifier.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("id", "must be a positive integer", s)
	}
	return id, nil
}
