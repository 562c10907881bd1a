// merge.go - Merge-Stage: LoRA-Gewichte mit dem Basis-Modell verschmelzen
// Hauptfunktionen: Merger, ScriptMerger.Merge
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/elio-ai/forge/envconfig"
	"github.com/elio-ai/forge/llamacpp"
)

// Merger ist die externe Merge-Faehigkeit: Basis-Gewichte laden,
// LoRA-Deltas algebraisch einrechnen und den dichten Checkpoint samt
// Tokenizer in das Ziel-Verzeichnis serialisieren.
type Merger interface {
	Merge(ctx context.Context, baseModel, adapterPath, outputDir string) error
}

// ScriptMerger delegiert den Merge an das mitgelieferte Python-Script
// (torch/peft/transformers). Das Script schreibt den Checkpoint atomar
// ueber save_pretrained in das Ziel-Verzeichnis.
type ScriptMerger struct {
	Runner llamacpp.Runner
}

// Merge fuehrt das Merge-Script aus und prueft dessen Ergebnis
func (m ScriptMerger) Merge(ctx context.Context, baseModel, adapterPath, outputDir string) error {
	script, err := m.scriptPath()
	if err != nil {
		return err
	}

	python, err := llamacpp.FindPython()
	if err != nil {
		return fmt.Errorf("%w (install python with: pip install torch transformers peft)", err)
	}

	slog.Info("merging lora weights", "base", baseModel, "adapter", adapterPath, "output", outputDir)
	if _, err := m.Runner.Run(ctx, python, script,
		"--base-model", baseModel,
		"--lora", adapterPath,
		"--output", outputDir,
	); err != nil {
		return fmt.Errorf("%w: %w", ErrMergeFailed, err)
	}

	return nil
}

// scriptPath findet das Merge-Script: FORGE_MERGE_SCRIPT hat Vorrang,
// Default ist scripts/merge_lora.py neben dem forge-Binary
func (m ScriptMerger) scriptPath() (string, error) {
	if p := envconfig.MergeScript(); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%w: %s (set FORGE_MERGE_SCRIPT to an existing merge script)", llamacpp.ErrToolNotFound, p)
		}
		return p, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("unable to lookup executable path: %w", err)
	}
	if eval, err := filepath.EvalSymlinks(exe); err == nil {
		exe = eval
	}

	p := filepath.Join(filepath.Dir(exe), "scripts", "merge_lora.py")
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("%w: %s (copy scripts/merge_lora.py next to the forge binary or set FORGE_MERGE_SCRIPT)", llamacpp.ErrToolNotFound, p)
	}

	return p, nil
}
