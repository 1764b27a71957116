package errors

import "testing"

func TestValidateOneOf(t *testing.T) {
	if err := ValidateOneOf(ErrCodeUnsupportedFormat, "format", "svg", "svg", "dot"); err != nil {
		t.Errorf("ValidateOneOf(svg) = %v, want nil", err)
	}
	err := ValidateOneOf(ErrCodeUnsupportedFormat, "format", "png", "svg", "dot")
	if !Is(err, ErrCodeUnsupportedFormat) {
		t.Fatalf("ValidateOneOf(png) = %v, want UNSUPPORTED_FORMAT", err)
	}
	if want := `invalid format "png" (want one of: svg, dot)`; UserMessage(err) != want {
		t.Errorf("UserMessage() = %q, want %q", UserMessage(err), want)
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "onboarding.json", false},
		{"dots", "v1.2.svg", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"slash", "a/b.json", true},
		{"backslash", `a\b.json`, true},
		{"parent", "..", true},
		{"control char", "foo\x01.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateFilename(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}
