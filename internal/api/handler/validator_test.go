package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/fieldsales/sales-api/internal/core/domain"
)

func TestValidator_MessagesUseJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&signupRequest{Email: "not-an-email", Password: "pw"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	for _, want := range []string{"name is required", "email must be a valid email"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestValidator_Role(t *testing.T) {
	v := NewValidator()
	base := signupRequest{Name: "Ana", Email: "ana@example.com", Password: "secret"}

	for _, role := range []string{"", "admin", "Manager", " sales "} {
		req := base
		req.Role = role
		if err := v.Validate(&req); err != nil {
			t.Fatalf("role %q should be accepted: %v", role, err)
		}
	}

	req := base
	req.Role = "owner"
	err := v.Validate(&req)
	if !errors.Is(err, domain.ErrValidation) || !strings.Contains(err.Error(), "role must be one of") {
		t.Fatalf("expected role validation error, got %v", err)
	}
}

func TestValidator_ParamInMessage(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&extendSessionRequest{Hours: -1})
	if err == nil || !strings.Contains(err.Error(), "hours must be at least 0") {
		t.Fatalf("unexpected error: %v", err)
	}
}
