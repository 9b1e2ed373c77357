package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		setup      func() *ValidationErrors
		name       string
		wantMsg    string
		wantErrors bool
	}{
		{
			name: "empty_validation_errors",
			setup: func() *ValidationErrors {
				return &ValidationErrors{}
			},
			wantErrors: false,
			wantMsg:    "no validation errors",
		},
		{
			name: "multiple_errors",
			setup: func() *ValidationErrors {
				ve := &ValidationErrors{}
				ve.Add(errors.New("error 1"))
				ve.Add(errors.New("error 2"))
				return ve
			},
			wantErrors: true,
			wantMsg:    "error 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := tt.setup()

			if ve.HasErrors() != tt.wantErrors {
				t.Errorf("HasErrors() = %v, want %v", ve.HasErrors(), tt.wantErrors)
			}

			msg := ve.Error()
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("Error() = %q, want to contain %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestFieldError(t *testing.T) {
	baseErr := errors.New("invalid format")
	fieldErr := NewFieldError("web", "addr", "localhost", baseErr)

	var fe *FieldError
	if !errors.As(fieldErr, &fe) {
		t.Fatal("Should be FieldError type")
	}

	if fe.Section != "web" {
		t.Errorf("Section = %q, want %q", fe.Section, "web")
	}

	if fe.Field != "addr" {
		t.Errorf("Field = %q, want %q", fe.Field, "addr")
	}

	if fe.Value != "localhost" {
		t.Errorf("Value = %q, want %q", fe.Value, "localhost")
	}

	if got, want := fe.Error(), "web.addr (localhost): invalid format"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(fieldErr, baseErr) {
		t.Error("FieldError should wrap underlying error")
	}
}

func TestValidationErrors_Unwrap(t *testing.T) {
	ve := &ValidationErrors{}
	ve.Add(NewFieldError("history", "keep", "-1", ErrInvalidConfig))
	ve.Add(nil)

	if len(ve.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1 (nil must be ignored)", len(ve.Errors))
	}
	if !errors.Is(ve, ErrInvalidConfig) {
		t.Error("errors.Is(ve, ErrInvalidConfig) = false, want true")
	}

	var fe *FieldError
	if !errors.As(ve, &fe) || fe.Field != "keep" {
		t.Errorf("errors.As() did not find the keep FieldError: %v", ve)
	}
}
