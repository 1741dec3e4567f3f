package validation

import (
	"testing"

	"github.com/lsmithpanw/pcs-where-is/internal/errors"
	"github.com/lsmithpanw/pcs-where-is/internal/models"
)

func TestValidator_ValidateStacks(t *testing.T) {
	validator := NewValidator()

	stacks := []models.StackConfig{
		{Name: "app", URL: "https://api.example.com", AccessKey: "ak", SecretKey: "sk"},
		{Name: "app.eu", URL: "https://api.eu.example.com"},
	}

	tests := []struct {
		name    string
		stacks  []models.StackConfig
		filter  string
		wantErr bool
		errType errors.ErrorType
	}{
		{
			name:    "credentialed stack, no filter",
			stacks:  stacks,
			wantErr: false,
		},
		{
			name:    "filter matches case-insensitively",
			stacks:  stacks,
			filter:  "APP",
			wantErr: false,
		},
		{
			name:    "filter names uncredentialed stack",
			stacks:  stacks,
			filter:  "app.eu",
			wantErr: true,
			errType: errors.ErrorTypeConfig,
		},
		{
			name:    "filter names unknown stack",
			stacks:  stacks,
			filter:  "app3",
			wantErr: true,
			errType: errors.ErrorTypeConfig,
		},
		{
			name:    "no credentialed stacks",
			stacks:  stacks[1:],
			wantErr: true,
			errType: errors.ErrorTypeConfig,
		},
		{
			name:    "no stacks at all",
			stacks:  nil,
			wantErr: true,
			errType: errors.ErrorTypeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStacks(tt.stacks, tt.filter)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStacks() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.wantErr {
				if !errors.IsType(err, tt.errType) {
					t.Errorf("ValidateStacks() error type = %T, want %v", err, tt.errType)
				}
			}
		})
	}
}

func TestValidator_ValidateSort(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		sortBy  string
		wantErr bool
	}{
		{SortByName, false},
		{SortByLogin, false},
		{"email", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			err := validator.ValidateSort(tt.sortBy)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSort(%q) error = %v, wantErr %v", tt.sortBy, err, tt.wantErr)
			}
		})
	}
}

func TestValidator_ValidateFormat(t *testing.T) {
	validator := NewValidator()

	for _, format := range []string{"table", "json", "csv"} {
		if err := validator.ValidateFormat(format); err != nil {
			t.Errorf("ValidateFormat(%q) unexpected error: %v", format, err)
		}
	}
	if err := validator.ValidateFormat("yaml"); !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Errorf("ValidateFormat(yaml) error = %v, want validation error", err)
	}
}

func TestValidator_ValidateTenantID(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"numeric", "1002", false},
		{"empty", "", true},
		{"alphanumeric", "10a2", true},
		{"negative", "-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTenantID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTenantID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidator_ValidateQuery(t *testing.T) {
	validator := NewValidator()

	if err := validator.ValidateQuery("acme"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validator.ValidateQuery("   "); err == nil {
		t.Error("expected error for blank query")
	}
}
