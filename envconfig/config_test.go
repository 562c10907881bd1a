// config_test.go - Unit Tests fuer die Forge-Konfiguration
package envconfig

import (
	"log/slog"
	"testing"
)

// TestVar testet das Trimmen von Quotes und Leerzeichen
func TestVar(t *testing.T) {
	cases := map[string]string{
		"value":      "value",
		"  spaces  ": "spaces",
		`"quoted"`:   "quoted",
		"'single'":   "single",
		"":           "",
	}

	for set, want := range cases {
		t.Run(set, func(t *testing.T) {
			t.Setenv("FORGE_TEST_VAR", set)
			if got := Var("FORGE_TEST_VAR"); got != want {
				t.Errorf("Var() = %q, want %q", got, want)
			}
		})
	}
}

// TestLogLevel testet die FORGE_DEBUG-Interpretation
func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"false": slog.LevelInfo,
		"1":     slog.LevelDebug,
		"true":  slog.LevelDebug,
		"-2":    slog.Level(8),
	}

	for set, want := range cases {
		t.Run(set, func(t *testing.T) {
			t.Setenv("FORGE_DEBUG", set)
			if got := LogLevel(); got != want {
				t.Errorf("LogLevel() = %v, want %v", got, want)
			}
		})
	}
}

// TestLlamaCpp testet den Default und das Override
func TestLlamaCpp(t *testing.T) {
	t.Setenv("FORGE_LLAMACPP", "")
	if got := LlamaCpp(); got != "../llama.cpp" {
		t.Errorf("LlamaCpp() default = %q", got)
	}

	t.Setenv("FORGE_LLAMACPP", "/opt/llama.cpp")
	if got := LlamaCpp(); got != "/opt/llama.cpp" {
		t.Errorf("LlamaCpp() = %q, want /opt/llama.cpp", got)
	}
}
