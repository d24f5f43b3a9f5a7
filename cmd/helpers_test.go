package cmd

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"seconds only", 42 * time.Second, "42s"},
		{"minutes and seconds", 29*time.Minute + 59*time.Second, "29m59s"},
		{"hours and minutes", time.Hour + 12*time.Minute, "1h12m"},
		{"negative is absolute", -90 * time.Second, "1m30s"},
		{"zero", 0, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDuration(tt.d); got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestFormatExpiryWithDirection(t *testing.T) {
	now := time.Now()

	future := formatExpiryWithDirection(now.Add(30*time.Minute), now)
	if !strings.HasPrefix(future, "expires in ") {
		t.Errorf("Expected future expiry to start with 'expires in ', got %q", future)
	}

	past := formatExpiryWithDirection(now.Add(-5*time.Minute), now)
	if !strings.HasPrefix(past, "expired ") || !strings.HasSuffix(past, " ago") {
		t.Errorf("Expected past expiry to read 'expired ... ago', got %q", past)
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   string
	}{
		{"empty", "", "(not set)"},
		{"short", "abc", "****"},
		{"long keeps prefix", "abcdef123456", "abcd****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redact(tt.secret); got != tt.want {
				t.Errorf("redact(%q) = %q, want %q", tt.secret, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate should leave short strings alone, got %q", got)
	}
	if got := truncate("a very long account name", 10); got != "a very ..." {
		t.Errorf("truncate(10) = %q", got)
	}
	if len(truncate("a very long account name", 10)) != 10 {
		t.Error("truncated string must honor the max length")
	}
}
