package validation

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"a@b.co", true},
		{"user+tag@sub.example.in", true},
		{"", false},
		{"no-at-sign", false},
		{"no-domain@", false},
		{"@no-local.com", false},
		{"spaces in@example.com", false},
		{"no-tld@example", false},
		{strings.Repeat("a", 155) + "@ex.com", false}, // over the 160 cap
	}

	for _, tt := range tests {
		if got := ValidateEmail(tt.email); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello \x00world  "); got != "hello world" {
		t.Errorf("SanitizeString = %q", got)
	}
	if got := SanitizeString("\x00\x00"); got != "" {
		t.Errorf("SanitizeString(null bytes) = %q, want empty", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("  abc  ", 10); got != "abc" {
		t.Errorf("Truncate short = %q, want %q", got, "abc")
	}
	if got := Truncate(strings.Repeat("x", 50), 10); got != strings.Repeat("x", 10) {
		t.Errorf("Truncate long = %q", got)
	}
	// Trimming happens before the cap so padding cannot eat the budget.
	if got := Truncate("   abcdef", 5); got != "abcde" {
		t.Errorf("Truncate padded = %q, want %q", got, "abcde")
	}
}

func TestTruncateRuneBoundary(t *testing.T) {
	// "é" is two bytes; a cap inside it must back up to the previous rune.
	if got := Truncate("héllo", 2); got != "h" {
		t.Errorf("Truncate mid-rune = %q, want %q", got, "h")
	}
	if got := Truncate("héllo", 3); got != "hé" {
		t.Errorf("Truncate on boundary = %q, want %q", got, "hé")
	}
	// A note of multi-byte runes stays valid UTF-8 after capping.
	note := strings.Repeat("pièce jointe: reçu illisible. ", 20)
	capped := Truncate(note, 512)
	if len(capped) > 512 {
		t.Fatalf("capped length = %d, want <= 512", len(capped))
	}
	if !utf8.ValidString(capped) {
		t.Errorf("capped string is not valid UTF-8: %q", capped)
	}
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Name  string `validate:"required,max=10"`
		Email string `validate:"required,email"`
	}

	v := NewValidator()

	if err := v.ValidateStruct(payload{Name: "ok", Email: "user@example.com"}); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}

	err := v.ValidateStruct(payload{Name: "", Email: "not-an-email"})
	if err == nil {
		t.Fatal("invalid payload accepted")
	}
	fields := FormatValidationErrors(err)
	if fields["name"] == "" {
		t.Errorf("missing name error in %v", fields)
	}
	if fields["email"] != "Invalid email format" {
		t.Errorf("email error = %q", fields["email"])
	}
}
