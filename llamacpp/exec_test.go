// exec_test.go - Unit Tests fuer den Tool-Runner und die Suite
package llamacpp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test requires sh")
	}
}

// TestRunCapturesOutput testet, dass stdout und stderr vollstaendig
// eingesammelt werden
func TestRunCapturesOutput(t *testing.T) {
	skipWithoutShell(t)

	res, err := NewRunner().Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Stdout != "out\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if res.Stderr != "err\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

// TestRunLongOutputLine testet das Einsammeln sehr langer Zeilen, wie
// sie Konvertierungs-Scripts als Fortschritts-Balken ausgeben
func TestRunLongOutputLine(t *testing.T) {
	skipWithoutShell(t)

	res, err := NewRunner().Run(context.Background(), "sh", "-c", `head -c 131072 /dev/zero | tr "\0" a; echo`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if len(res.Stdout) < 131072 {
		t.Errorf("Stdout truncated: got %d bytes, want >= 131072", len(res.Stdout))
	}
}

// TestRunNonZeroExit testet die ToolFailed-Meldung samt stderr
func TestRunNonZeroExit(t *testing.T) {
	skipWithoutShell(t)

	res, err := NewRunner().Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("err = %v, want ErrToolFailed", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("diagnostic missing stderr: %v", err)
	}
}

// TestRunToolNotFound testet fehlende Executables (Pfad und PATH-Lookup)
func TestRunToolNotFound(t *testing.T) {
	cases := []string{
		filepath.Join(t.TempDir(), "does-not-exist"),
		"forge-no-such-tool-on-path",
	}

	for _, exe := range cases {
		t.Run(exe, func(t *testing.T) {
			_, err := NewRunner().Run(context.Background(), exe)
			if !errors.Is(err, ErrToolNotFound) {
				t.Fatalf("err = %v, want ErrToolNotFound", err)
			}
			if !strings.Contains(err.Error(), filepath.Base(exe)) {
				t.Errorf("diagnostic missing path: %v", err)
			}
		})
	}
}

// TestSuite testet die Tool-Lokalisierung
func TestSuite(t *testing.T) {
	dir := t.TempDir()
	suite := NewSuite(dir)

	if _, err := suite.ConvertScript(); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("ConvertScript err = %v, want ErrToolNotFound", err)
	}
	if _, err := suite.QuantizeBin(); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("QuantizeBin err = %v, want ErrToolNotFound", err)
	}

	if err := os.WriteFile(filepath.Join(dir, convertScriptName), []byte("# stub"), 0o755); err != nil {
		t.Fatal(err)
	}
	p, err := suite.ConvertScript()
	if err != nil {
		t.Fatalf("ConvertScript: %v", err)
	}
	if filepath.Base(p) != convertScriptName {
		t.Errorf("ConvertScript = %q", p)
	}
}

// TestFindPython testet das FORGE_PYTHON-Override
func TestFindPython(t *testing.T) {
	t.Setenv("FORGE_PYTHON", "/opt/python/bin/python3")
	p, err := FindPython()
	if err != nil {
		t.Fatalf("FindPython: %v", err)
	}
	if p != "/opt/python/bin/python3" {
		t.Errorf("FindPython = %q", p)
	}
}
