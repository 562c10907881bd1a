// config_test.go - Unit Tests fuer Konfiguration und Schema-Validierung
package pipeline

import (
	"errors"
	"testing"
)

// TestParseScheme testet die geschlossene Schema-Menge
func TestParseScheme(t *testing.T) {
	for _, s := range Schemes() {
		t.Run(string(s), func(t *testing.T) {
			got, err := ParseScheme(string(s))
			if err != nil {
				t.Fatalf("ParseScheme(%q): %v", s, err)
			}
			if got != s {
				t.Errorf("ParseScheme(%q) = %q", s, got)
			}
		})
	}

	t.Run("case insensitive", func(t *testing.T) {
		got, err := ParseScheme("Q4_K_M")
		if err != nil {
			t.Fatalf("ParseScheme: %v", err)
		}
		if got != SchemeQ4KM {
			t.Errorf("ParseScheme(Q4_K_M) = %q", got)
		}
	})

	for _, bad := range []string{"q4", "int8", "gptq", ""} {
		t.Run("rejects "+bad, func(t *testing.T) {
			if _, err := ParseScheme(bad); !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("ParseScheme(%q) err = %v, want ErrInvalidConfiguration", bad, err)
			}
		})
	}
}

// TestConfigValidate testet die Ablehnung inkonsistenter Konfigurationen
func TestConfigValidate(t *testing.T) {
	valid := Config{
		BaseModel:   "Qwen/Qwen2.5-1.5B-Instruct",
		AdapterPath: "./adapter",
		MergedDir:   "./merged",
		OutputPath:  "./model.gguf",
		Quantize:    DefaultScheme,
	}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown scheme", func(c *Config) { c.Quantize = "q9_z" }, true},
		{"missing adapter", func(c *Config) { c.AdapterPath = "" }, true},
		{"missing adapter with skip-merge", func(c *Config) { c.AdapterPath = ""; c.SkipMerge = true }, false},
		{"missing merged dir", func(c *Config) { c.MergedDir = "" }, true},
		{"missing output", func(c *Config) { c.OutputPath = "" }, true},
		{"skip both", func(c *Config) { c.SkipMerge = true; c.SkipConvert = true; c.AdapterPath = "" }, false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Validate() = %v, want ErrInvalidConfiguration", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
