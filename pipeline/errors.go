// errors.go - Fehler-Taxonomie der Pipeline
// Hauptfunktionen: StageError, Sentinel-Fehler fuer alle Abbruch-Ursachen
package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel-Fehler; jede Abbruch-Ursache ist genau einem zugeordnet
var (
	// ErrInvalidConfiguration: Konfiguration vor Stage-Ausfuehrung abgelehnt
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrMissingPrerequisite: erwartetes Artefakt einer (uebersprungenen)
	// Stage existiert nicht
	ErrMissingPrerequisite = errors.New("missing prerequisite")

	// ErrPostconditionFailed: Stage-Aktion meldete Erfolg, aber das
	// Output-Artefakt existiert nicht
	ErrPostconditionFailed = errors.New("stage postcondition failed")

	// ErrConversionFailed: f16-Export ist fehlgeschlagen
	ErrConversionFailed = errors.New("gguf conversion failed")

	// ErrQuantizationFailed: Quantisierungs-Schritt ist fehlgeschlagen
	ErrQuantizationFailed = errors.New("quantization failed")

	// ErrMergeFailed: LoRA-Merge ist fehlgeschlagen
	ErrMergeFailed = errors.New("lora merge failed")
)

// StageError ordnet einen Fehler der verursachenden Stage zu.
// Nur der Top-Level-Aufrufer (cmd) entscheidet ueber den Prozess-Abbruch.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
