package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		data       any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "simple map",
			code:       http.StatusOK,
			data:       map[string]any{"key": "value"},
			wantStatus: http.StatusOK,
			wantBody:   `{"key":"value"}`,
		},
		{
			name:       "created contact",
			code:       http.StatusCreated,
			data:       contact.Contact{ID: 3, FirstName: "Ann"},
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":3,"firstName":"Ann","lastName":"","email":"","phone":"","address":{"address":"","city":"","coordinates":{"lat":0,"lng":0},"country":""}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteJSON(w, tt.code, tt.data)

			if w.Code != tt.wantStatus {
				t.Errorf("WriteJSON() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if contentType := w.Header().Get("Content-Type"); contentType != "application/json" {
				t.Errorf("WriteJSON() Content-Type = %v, want application/json", contentType)
			}
			assertJSONEqual(t, w.Body.Bytes(), tt.wantBody)
		})
	}
}

func assertJSONEqual(t *testing.T, got []byte, want string) {
	t.Helper()
	var g, w any
	if err := json.Unmarshal(got, &g); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("failed to unmarshal expected: %v", err)
	}
	gotJSON, _ := json.Marshal(g)
	wantJSON, _ := json.Marshal(w)
	if string(gotJSON) != string(wantJSON) {
		t.Errorf("body = %s, want %s", gotJSON, wantJSON)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", errors.NewValidationError("limit", "must be a non-negative integer", "-1"), http.StatusBadRequest, errors.CodeValidation},
		{"not found", errors.NewNotFoundError("contact", "7"), http.StatusNotFound, errors.CodeNotFound},
		{"internal", errors.New("boom"), http.StatusInternalServerError, errors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("WriteError() status = %v, want %v", w.Code, tt.wantStatus)
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if body["code"] != tt.wantCode {
				t.Errorf("WriteError() code = %v, want %v", body["code"], tt.wantCode)
			}
		})
	}
}

func TestWriteProjected(t *testing.T) {
	c := contact.Contact{ID: 1, FirstName: "Ann", LastName: "Lee", Email: "a@x.io"}

	w := httptest.NewRecorder()
	WriteProjected(w, http.StatusOK, c, []string{"id", "firstName"})
	assertJSONEqual(t, w.Body.Bytes(), `{"id":1,"firstName":"Ann"}`)

	w = httptest.NewRecorder()
	WriteProjected(w, http.StatusOK, c, nil)
	var full map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &full)
	if _, ok := full["address"]; !ok {
		t.Errorf("WriteProjected(nil) dropped fields: %v", full)
	}
}
