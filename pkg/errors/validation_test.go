package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "42", false},
		{"word", "cluster-a", false},
		{"unicode", "zelle_ä", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 300), true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseLevelKey(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"12", 12, false},
		{"-1", 0, true},
		{"1.5", 0, true},
		{"one", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevelKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevelKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ParseLevelKey(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
			if got != tt.want {
				t.Errorf("ParseLevelKey(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimeKey(t *testing.T) {
	if got, err := ParseTimeKey("-3"); err != nil || got != -3 {
		t.Errorf("ParseTimeKey(-3) = %d, %v; want -3, nil", got, err)
	}
	if _, err := ParseTimeKey("t0"); err == nil {
		t.Error("ParseTimeKey(t0) should fail")
	}
}
