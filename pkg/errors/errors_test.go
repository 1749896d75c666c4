package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name          string
		field         string
		message       string
		value         interface{}
		expectedError string
	}{
		{
			name:          "with field",
			field:         "firstName",
			message:       "please input the name of the contact",
			value:         "",
			expectedError: "validation error: firstName: please input the name of the contact",
		},
		{
			name:          "without field",
			field:         "",
			message:       "invalid input",
			value:         nil,
			expectedError: "validation error: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message, tt.value)
			if err.Error() != tt.expectedError {
				t.Errorf("Expected error %q, got %q", tt.expectedError, err.Error())
			}
			if err.Code() != CodeValidation {
				t.Errorf("Expected code %q, got %q", CodeValidation, err.Code())
			}
			if !IsValidation(err) {
				t.Errorf("IsValidation should be true")
			}
		})
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("contact", "12")
	if err.Error() != "contact with ID '12' not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound should be true")
	}
	if StatusCode(err) != http.StatusNotFound {
		t.Errorf("expected 404, got %d", StatusCode(err))
	}
}

func TestServiceError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
	}{
		{"server failure", http.StatusInternalServerError, "boom", CodeServiceUnavailable},
		{"missing contact", http.StatusNotFound, `{"message":"Contact with id '9' not found"}`, CodeNotFound},
		{"bad request", http.StatusBadRequest, "", CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewServiceError("contacts api", tt.status, tt.body)
			if err.Code() != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, err.Code())
			}
			if !strings.Contains(err.Error(), fmt.Sprintf("status %d", tt.status)) {
				t.Errorf("message should carry the status: %q", err.Error())
			}
			if tt.body != "" && !strings.Contains(err.Error(), tt.body) {
				t.Errorf("message should carry the body: %q", err.Error())
			}
			if !IsServiceError(err) {
				t.Errorf("IsServiceError should be true")
			}
		})
	}

	if !IsNotFound(NewServiceError("contacts api", http.StatusNotFound, "")) {
		t.Errorf("404 service error should be reported as not found")
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("delete contact", cause)

	if !IsNetwork(err) {
		t.Errorf("IsNetwork should be true")
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause should be reachable through Unwrap")
	}
	if err.Error() != "delete contact request failed: connection refused" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWrapPreservesCode(t *testing.T) {
	inner := NewNotFoundError("contact", "3")
	wrapped := Wrap(inner, "update contact")

	if GetErrorCode(wrapped) != CodeNotFound {
		t.Errorf("expected code to survive wrapping, got %s", GetErrorCode(wrapped))
	}
	if !IsNotFound(wrapped) {
		t.Errorf("IsNotFound should see through Wrap")
	}

	plain := Wrap(errors.New("disk full"), "save contact")
	if GetErrorCode(plain) != CodeInternal {
		t.Errorf("plain errors should wrap as internal, got %s", GetErrorCode(plain))
	}

	if Wrap(nil, "nothing") != nil {
		t.Errorf("wrapping nil should return nil")
	}
}

func TestIsCancelled(t *testing.T) {
	if !IsCancelled(ErrCancelled) {
		t.Errorf("ErrCancelled should be cancelled")
	}
	if !IsCancelled(fmt.Errorf("fetch: %w", context.Canceled)) {
		t.Errorf("context.Canceled should be cancelled")
	}
	if IsCancelled(errors.New("other")) {
		t.Errorf("unrelated error reported as cancelled")
	}
	if GetErrorCode(ErrCancelled) != CodeCancelled {
		t.Errorf("expected cancelled code")
	}
}

func TestWriteHTTPError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTTPError(rec, NewValidationError("email", "at least one email is required", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}

	var body HTTPError
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, body.Code)
	}
	if body.Details["field"] != "email" {
		t.Errorf("expected field detail, got %v", body.Details)
	}
}

func TestHTTPStatusToCode(t *testing.T) {
	tests := map[int]string{
		http.StatusOK:                  CodeOK,
		http.StatusCreated:             CodeOK,
		http.StatusNotFound:            CodeNotFound,
		http.StatusBadRequest:          CodeInvalidArgument,
		http.StatusConflict:            CodeInvalidArgument,
		http.StatusGatewayTimeout:      CodeTimeout,
		http.StatusInternalServerError: CodeServiceUnavailable,
		http.StatusBadGateway:          CodeServiceUnavailable,
	}
	for status, want := range tests {
		if got := HTTPStatusToCode(status); got != want {
			t.Errorf("HTTPStatusToCode(%d) = %s, want %s", status, got, want)
		}
	}
}

func TestGetCategory(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"validation", NewValidationError("firstName", "required", ""), CategoryValidation},
		{"not found", NewNotFoundError("contact", "1"), CategoryClient},
		{"network", NewNetworkError("GET /contacts", fmt.Errorf("connection refused")), CategoryNetwork},
		{"timeout", context.DeadlineExceeded, CategoryNetwork},
		{"plain", fmt.Errorf("boom"), CategoryServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCategory(GetErrorCode(tt.err)); got != tt.want {
				t.Errorf("GetCategory(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestStackTrace(t *testing.T) {
	err := Wrapf(New("store closed"), "delete %d", 7)
	if msg := err.Error(); msg != "delete 7: store closed" {
		t.Errorf("Error() = %q", msg)
	}

	stack := StackTrace(err)
	if !strings.Contains(stack, "TestStackTrace") {
		t.Errorf("StackTrace() = %q, want the calling test frame", stack)
	}
	if got := StackTrace(fmt.Errorf("plain")); got != "" {
		t.Errorf("StackTrace(plain) = %q, want empty", got)
	}
	if got := Newf("contact #%d", 3).Error(); got != "contact #3" {
		t.Errorf("Newf() = %q", got)
	}
}
