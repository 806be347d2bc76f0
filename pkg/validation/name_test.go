package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		// Valid names
		{"simple", "user-1", true},
		{"uuid", "0b7c2f9e-4d8a-4c1e-9f35-1a2b3c4d5e6f", true},
		{"email", "ana@example.com", true},
		{"inner dot", "ana.b", true},
		{"unicode", "usuário", true},
		{"inner space", "ana b", true},
		{"max length", strings.Repeat("a", MaxNameLength), true},
		{"reserved prefix", "CONSOLE", true},

		// Invalid names
		{"empty", "", false},
		{"blank", "   ", false},
		{"too long", strings.Repeat("a", MaxNameLength+1), false},
		{"slash", "a/b", false},
		{"backslash", `a\b`, false},
		{"parent", "..", false},
		{"current", ".", false},
		{"traversal", "../escape", false},
		{"absolute", "/etc/passwd", false},
		{"hidden", ".profile", false},
		{"newline", "ana\nbob", false},
		{"nul byte", "ana\x00", false},
		{"reserved", "CON", false},
		{"reserved lowercase", "nul", false},
		{"reserved with extension", "lpt1.yaml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FileName(tt.input)
			if tt.valid && err != nil {
				t.Errorf("FileName(%q) = %v, want nil", tt.input, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("FileName(%q) = nil, want error", tt.input)
			}
		})
	}
}

func TestFileName_ErrorType(t *testing.T) {
	err := FileName("../escape")

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Input != "../escape" {
		t.Errorf("Input = %q, want %q", verr.Input, "../escape")
	}
	if !strings.Contains(err.Error(), "escapes the store directory") {
		t.Errorf("unexpected message: %v", err)
	}
}
