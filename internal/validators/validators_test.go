package validators

import (
	"errors"
	"testing"
)

func TestIsNotEmpty(t *testing.T) {
	if err := IsNotEmpty("alice@example.com", "Secret123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cases := [][]string{
		{""},
		{"   "},
		{"alice@example.com", ""},
		{"\t\n"},
	}
	for _, fields := range cases {
		err := IsNotEmpty(fields...)
		if err == nil {
			t.Fatalf("expected error for %q", fields)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"a@b.com",
		"alice.smith@example.co",
		"voter+tag@vote.example.org",
	}
	for _, email := range valid {
		if err := IsValidEmail(email); err != nil {
			t.Errorf("IsValidEmail(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{
		"not-an-email",
		"",
		"a b@example.com",
		"a@@example.com",
		"a@b",
		"@example.com",
	}
	for _, email := range invalid {
		err := IsValidEmail(email)
		if err == nil {
			t.Errorf("IsValidEmail(%q) = nil, want error", email)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("IsValidEmail(%q) returned %T, want *ValidationError", email, err)
		}
	}
}

func TestIsValidPassword(t *testing.T) {
	if err := IsValidPassword("Abcdefg1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cases := map[string]string{
		"abc":       "too short",
		"abcdefgh1": "no uppercase",
		"ABCDEFGH1": "no lowercase",
		"Abcdefghi": "no digit",
	}
	for password, reason := range cases {
		err := IsValidPassword(password)
		if err == nil {
			t.Errorf("IsValidPassword(%q) = nil, want error (%s)", password, reason)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("IsValidPassword(%q) returned %T, want *ValidationError", password, err)
		}
	}
}
