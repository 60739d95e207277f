package validation

import (
	"strings"
	"testing"
)

func TestIsValidPhone(t *testing.T) {
	tests := map[string]bool{
		"9876543210":       true,
		"1234567":          true,
		"123456":           false,
		"98765-43210":      false,
		"+19876543210":     false,
		"":                 false,
		"1234567890123456": false,
	}

	for in, want := range tests {
		if got := IsValidPhone(in); got != want {
			t.Errorf("IsValidPhone(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsValidName(t *testing.T) {
	if !IsValidName("Jo") {
		t.Error("Expected short name to be valid")
	}
	if IsValidName("") {
		t.Error("Expected empty name to be invalid")
	}
	if IsValidName(strings.Repeat("a", NameMaxLength+1)) {
		t.Error("Expected overlong name to be invalid")
	}
}

func TestIsValidName_CountsCharactersNotBytes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"cyrillic within limit", strings.Repeat("Ж", 60), true},
		{"cyrillic at limit", strings.Repeat("Ж", NameMaxLength), true},
		{"cyrillic over limit", strings.Repeat("Ж", NameMaxLength+1), false},
		{"accented", "Zoë Çelik", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidName(tt.in); got != tt.want {
				t.Errorf("IsValidName(%d chars, %d bytes) = %v, want %v",
					len([]rune(tt.in)), len(tt.in), got, tt.want)
			}
		})
	}
}

func TestStringValidation_Optional(t *testing.T) {
	v := NewStringValidation("").WithRequired(false).WithPattern(CompiledPatterns.Phone)
	if !v.Validate() {
		t.Error("Expected empty optional value to pass")
	}
}
