package cli

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderBar(t *testing.T) {
	tests := []struct {
		fraction float64
		filled   int
		pct      string
	}{
		{0, 0, "  0%"},
		{0.5, 15, " 50%"},
		{1, 30, "100%"},
		{1.7, 30, "100%"},
		{-1, 0, "  0%"},
	}
	for _, tt := range tests {
		got := renderBar(tt.fraction)
		if n := strings.Count(got, "█"); n != tt.filled {
			t.Errorf("renderBar(%v) filled = %d, want %d", tt.fraction, n, tt.filled)
		}
		if !strings.HasSuffix(got, tt.pct) {
			t.Errorf("renderBar(%v) = %q, want suffix %q", tt.fraction, got, tt.pct)
		}
		if n := utf8.RuneCountInString(got); n != barWidth+2+1+len(tt.pct) {
			t.Errorf("renderBar(%v) width = %d", tt.fraction, n)
		}
	}
}

func TestMoney(t *testing.T) {
	if got := money(4700); got != "47.00" {
		t.Errorf("money(4700) = %q", got)
	}
	if got := money(2405); got != "24.05" {
		t.Errorf("money(2405) = %q", got)
	}
}

func TestParsePercent(t *testing.T) {
	got, err := parsePercent("85.5")
	if err != nil || got != 85.5 {
		t.Errorf("parsePercent(85.5) = %v, %v", got, err)
	}
	for _, s := range []string{"NaN", "Inf", "-inf", "-1", "lots"} {
		if _, err := parsePercent(s); err == nil {
			t.Errorf("parsePercent(%q) should fail", s)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"serve", "status", "adopt", "steps", "tier", "cycles", "migrate", "rollover"}
	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}
