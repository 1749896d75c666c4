package httputil

import (
	"reflect"
	"testing"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
)

func TestValidateFields(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		want    []string
		wantErr bool
	}{
		{"none", nil, nil, false},
		{"adds id", []string{"firstName", "email"}, []string{"id", "firstName", "email"}, false},
		{"id once", []string{"id", "lastName"}, []string{"id", "lastName"}, false},
		{"unknown", []string{"firstName", "password"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFields(tt.fields)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFields() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ValidateFields() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name    string
		c       contact.Contact
		wantErr bool
	}{
		{"names present", contact.Contact{FirstName: "Ann", LastName: "Lee"}, false},
		{"missing first", contact.Contact{LastName: "Lee"}, true},
		{"blank last", contact.Contact{FirstName: "Ann", LastName: "  "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateContact(tt.c); (err != nil) != tt.wantErr {
				t.Errorf("ValidateContact() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"hello", false},
		{"  hello  ", false},
	}

	for _, tt := range tests {
		if got := IsEmpty(tt.input); got != tt.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
