package validation

import (
	"errors"
	"testing"

	gperrors "github.com/vnykmshr/gopool/pkg/common/errors"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"positive", 1, false},
		{"large positive", 4096, false},
		{"zero", 0, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("test", "field", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !gperrors.IsValidationError(err) {
				t.Error("error should be a ValidationError")
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"positive", 8, false},
		{"zero", 0, false},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonNegative("test", "field", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNonNegative(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNotNil(t *testing.T) {
	if err := ValidateNotNil("test", "field", struct{}{}); err != nil {
		t.Errorf("unexpected error for non-nil value: %v", err)
	}

	err := ValidateNotNil("test", "field", nil)
	if err == nil {
		t.Fatal("expected error for nil value")
	}
	if !errors.Is(err, gperrors.ErrInvalidConfiguration) {
		t.Error("error should match ErrInvalidConfiguration")
	}
}

func TestValidateNotEmpty(t *testing.T) {
	if err := ValidateNotEmpty("test", "field", "value"); err != nil {
		t.Errorf("unexpected error for non-empty string: %v", err)
	}

	if err := ValidateNotEmpty("test", "field", ""); err == nil {
		t.Fatal("expected error for empty string")
	}
}
