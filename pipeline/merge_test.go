// merge_test.go - Unit Tests fuer die Merge-Stage
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/elio-ai/forge/llamacpp"
)

// testMergeScript legt ein Merge-Script an und setzt FORGE_MERGE_SCRIPT
func testMergeScript(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "merge_lora.py")
	if err := os.WriteFile(p, []byte("# stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FORGE_MERGE_SCRIPT", p)
	return p
}

// TestScriptMergerInvocation testet die vollstaendige Kommandozeile
// des Merge-Aufrufs: Interpreter, Script und die Flag-Reihenfolge,
// die das argparse-Interface des Scripts erwartet
func TestScriptMergerInvocation(t *testing.T) {
	t.Setenv("FORGE_PYTHON", "python-stub")
	script := testMergeScript(t)

	runner := &fakeRunner{}
	merger := ScriptMerger{Runner: runner}

	if err := merger.Merge(context.Background(), "Qwen/Qwen2.5-1.5B-Instruct", "./checkpoint-500", "./merged"); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("expected one tool invocation, got %d", len(runner.calls))
	}
	want := []string{
		"python-stub", script,
		"--base-model", "Qwen/Qwen2.5-1.5B-Instruct",
		"--lora", "./checkpoint-500",
		"--output", "./merged",
	}
	if !reflect.DeepEqual(runner.calls[0], want) {
		t.Errorf("invocation = %v, want %v", runner.calls[0], want)
	}
}

// TestScriptMergerMissingScript testet das FORGE_MERGE_SCRIPT-Override
// auf einen nicht existierenden Pfad: kein Tool-Aufruf, ToolNotFound
func TestScriptMergerMissingScript(t *testing.T) {
	t.Setenv("FORGE_PYTHON", "python-stub")
	t.Setenv("FORGE_MERGE_SCRIPT", filepath.Join(t.TempDir(), "does-not-exist.py"))

	runner := &fakeRunner{}
	err := ScriptMerger{Runner: runner}.Merge(context.Background(), "base", "adapter", "out")
	if !errors.Is(err, llamacpp.ErrToolNotFound) {
		t.Fatalf("err = %v, want ErrToolNotFound", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("runner must not be invoked without a merge script, got %d calls", len(runner.calls))
	}
}

// TestScriptMergerToolFailure testet die Fehler-Zuordnung, wenn das
// Merge-Script mit einem Fehler endet
func TestScriptMergerToolFailure(t *testing.T) {
	t.Setenv("FORGE_PYTHON", "python-stub")
	testMergeScript(t)

	runner := &fakeRunner{fn: func(exe string, args []string) (llamacpp.ExecResult, error) {
		return llamacpp.ExecResult{ExitCode: 1, Stderr: "CUDA out of memory"}, llamacpp.ErrToolFailed
	}}

	err := ScriptMerger{Runner: runner}.Merge(context.Background(), "base", "adapter", "out")
	if !errors.Is(err, ErrMergeFailed) {
		t.Errorf("err = %v, want ErrMergeFailed", err)
	}
	if !errors.Is(err, llamacpp.ErrToolFailed) {
		t.Errorf("err = %v, want wrapped ErrToolFailed", err)
	}
}
