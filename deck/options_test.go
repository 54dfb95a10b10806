package deck

import (
	"errors"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input string
		want  Version
		limit int
	}{
		{"5.1.60", Version{5, 1, 60}, 80},
		{"6.1", Version{6, 1, 0}, 80},
		{"6.2.0", Version{6, 2, 0}, 128},
		{" 6.3.1 ", Version{6, 3, 1}, 128},
		{"7.0", Version{7, 0, 0}, 128},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			if err != nil {
				t.Fatalf("ParseVersion(%q) error: %v", tt.input, err)
			}
			if v != tt.want {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.input, v, tt.want)
			}
			limit, err := v.LineLimit()
			if err != nil {
				t.Fatalf("LineLimit() error: %v", err)
			}
			if limit != tt.limit {
				t.Errorf("LineLimit() = %d, want %d", limit, tt.limit)
			}
		})
	}
}

func TestParseVersionErrors(t *testing.T) {
	tests := []struct {
		input       string
		unsupported bool
	}{
		{"6", false},
		{"a.b", false},
		{"6.-1.0", false},
		{"1.2.3.4", false},
		{"5.0.0", true},
		{"6.1.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseVersion(tt.input)
			if err == nil {
				t.Fatalf("ParseVersion(%q) error = nil, want error", tt.input)
			}
			if got := errors.Is(err, ErrUnsupportedVersion); got != tt.unsupported {
				t.Errorf("errors.Is(err, ErrUnsupportedVersion) = %v, want %v", got, tt.unsupported)
			}
		})
	}
}

func TestWithVersionIgnoresUnknown(t *testing.T) {
	cfg := newConfig([]Option{WithVersion(Version{4, 0, 0})})
	if cfg.lineLimit != 0 {
		t.Errorf("lineLimit = %d, want 0", cfg.lineLimit)
	}
	cfg = newConfig([]Option{WithVersion(Version{6, 2, 0})})
	if cfg.lineLimit != 128 {
		t.Errorf("lineLimit = %d, want 128", cfg.lineLimit)
	}
}
