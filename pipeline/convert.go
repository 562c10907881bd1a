// convert.go - Convert-Quantize-Stage: Checkpoint zu gepacktem GGUF
//
// Ablauf bei nicht uebersprungener Stage:
// 1. f16-Export ueber convert_hf_to_gguf.py
// 2. Identitaets-Schema: Rename des f16-Exports auf den Zielpfad
// 3. Sonst: llama-quantize auf den Zielpfad
// 4. f16-Zwischenartefakt loeschen
// 5. Byte-Groesse des finalen Artefakts melden
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/elio-ai/forge/llamacpp"
)

// Converter ist der Einstiegspunkt der Convert-Quantize-Stage.
// Tests ersetzen ihn, um Aufrufe zu zaehlen oder zu skripten.
type Converter interface {
	Convert(ctx context.Context, mergedDir, outputPath string, scheme Scheme) (int64, error)
}

// ConvertQuantize ist die produktive Converter-Implementierung auf
// Basis der llama.cpp Tool-Suite.
type ConvertQuantize struct {
	Runner llamacpp.Runner
	Suite  llamacpp.Suite
}

// IntermediatePath leitet den Pfad des f16-Zwischenartefakts
// deterministisch vom finalen Artefakt-Pfad ab: gleicher Stamm,
// Suffix-Marker, gleiche Endung.
func IntermediatePath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return outputPath[:len(outputPath)-len(ext)] + "-f16" + ext
}

// Convert transformiert den Checkpoint in ein einzelnes gepacktes Artefakt
// und gibt dessen Byte-Groesse zurueck.
func (c ConvertQuantize) Convert(ctx context.Context, mergedDir, outputPath string, scheme Scheme) (int64, error) {
	f16Path := IntermediatePath(outputPath)

	if err := c.exportF16(ctx, mergedDir, f16Path); err != nil {
		return 0, err
	}

	if scheme.IsIdentity() {
		// Rename, nie Re-Encode oder Kopie
		if err := os.Rename(f16Path, outputPath); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrConversionFailed, err)
		}
	} else {
		if err := c.quantize(ctx, f16Path, outputPath, scheme); err != nil {
			return 0, err
		}

		// Platz-Rueckgewinnung: das Zwischenartefakt darf den Erfolgsfall
		// nicht ueberleben
		if err := os.Remove(f16Path); err != nil {
			slog.Warn("could not remove intermediate artifact", "path", f16Path, "error", err)
		}
	}

	fi, err := os.Stat(outputPath)
	if err != nil {
		return 0, fmt.Errorf("%w: final artifact missing: %w", ErrQuantizationFailed, err)
	}

	if ct, err := llamacpp.DetectFileContentType(outputPath); err == nil && ct != "gguf" {
		slog.Warn("final artifact does not look like gguf", "path", outputPath, "content_type", ct)
	}

	slog.Info("final model size", "path", outputPath, "bytes", fi.Size())
	return fi.Size(), nil
}

// exportF16 erzeugt den vollpraezisen GGUF-Export des Checkpoints
func (c ConvertQuantize) exportF16(ctx context.Context, mergedDir, f16Path string) error {
	script, err := c.Suite.ConvertScript()
	if err != nil {
		return err
	}

	python, err := llamacpp.FindPython()
	if err != nil {
		return err
	}

	slog.Info("converting to gguf", "model", mergedDir, "outfile", f16Path, "outtype", "f16")
	if _, err := c.Runner.Run(ctx, python, script,
		mergedDir,
		"--outfile", f16Path,
		"--outtype", "f16",
	); err != nil {
		return fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	if _, err := os.Stat(f16Path); err != nil {
		return fmt.Errorf("%w: converter reported success but %s is missing", ErrConversionFailed, f16Path)
	}

	return nil
}

// quantize packt den f16-Export mit dem angegebenen Schema
func (c ConvertQuantize) quantize(ctx context.Context, f16Path, outputPath string, scheme Scheme) error {
	bin, err := c.Suite.QuantizeBin()
	if err != nil {
		return err
	}

	slog.Info("quantizing", "scheme", scheme, "outfile", outputPath)
	if _, err := c.Runner.Run(ctx, bin, f16Path, outputPath, string(scheme)); err != nil {
		return fmt.Errorf("%w: %w", ErrQuantizationFailed, err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("%w: quantizer reported success but %s is missing", ErrQuantizationFailed, outputPath)
	}

	return nil
}
