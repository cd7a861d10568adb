package errors

import (
	"strings"
	"testing"
)

func TestValidateSourceSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"small", "A->>B: hi\nB-->>A: ok", false},
		{"at line ceiling", strings.Repeat("x\n", MaxSourceLines-1), false},
		{"too many lines", strings.Repeat("\n", MaxSourceLines), true},
		{"too many bytes", strings.Repeat("a", MaxSourceBytes+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSourceSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSourceSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateSourceSize() returned wrong error code: %v", err)
			}
		})
	}
}

func TestValidateDiagramID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "9b2f1c3e-5d6a-4b7c-8e9f-0a1b2c3d4e5f", false},
		{"short token", "demo_1", false},

		{"empty", "", true},
		{"leading dash", "-abc", true},
		{"slash", "a/b", true},
		{"dot dot", "..", true},
		{"space", "a b", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDiagramID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDiagramID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "login.svg", false},
		{"valid nested", "out/flows/login.svg", false},
		{"valid with dots", "v1.2.3/login.svg", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidStyle,
		ErrCodeInvalidDashPattern,
		ErrCodeInvalidMetrics,
		ErrCodeInvalidConfig,
		ErrCodeInvalidVizType,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeDiagramNotFound,
		ErrCodeFileNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
