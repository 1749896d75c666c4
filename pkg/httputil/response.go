package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

// WriteJSON writes a JSON response with the given status code.
// Encoding errors are ignored (best-effort).
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as a JSON error body with the status its code maps to.
func WriteError(w http.ResponseWriter, err error) {
	errors.WriteHTTPError(w, err)
}

// WriteProjected writes v keeping only the named top-level fields. An empty
// field list writes v unchanged.
func WriteProjected(w http.ResponseWriter, code int, v any, fields []string) {
	if len(fields) == 0 {
		WriteJSON(w, code, v)
		return
	}
	projected, err := Project(v, fields)
	if err != nil {
		WriteError(w, errors.NewSerializationError("project response", err))
		return
	}
	WriteJSON(w, code, projected)
}

// Project re-encodes v as a JSON object holding only the named fields.
func Project(v any, fields []string) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(fields))
	for _, f := range fields {
		if val, ok := all[f]; ok {
			out[f] = val
		}
	}
	return out, nil
}
