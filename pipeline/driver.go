// driver.go - Pipeline-Driver: sequenziert die Stages in fester Reihenfolge
//
// Zustandsmaschine: AwaitingMerge -> AwaitingConvert -> Done, terminal Failed.
// Der Driver ist Single-Pass: kein Resume innerhalb einer Stage, kein
// Rollback fertiger Stages. Artefakte fertiger Stages bleiben bewusst
// liegen, damit ein Folgelauf mit Skip-Flags dort aufsetzen kann.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/elio-ai/forge/modelinfo"
)

// State ist der Zustand des Drivers
type State int

const (
	AwaitingMerge State = iota
	AwaitingConvert
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitingMerge:
		return "awaiting merge"
	case AwaitingConvert:
		return "awaiting convert"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// StageResult beschreibt den Ausgang einer einzelnen Stage
type StageResult struct {
	Name   string
	Status string // "completed" oder "skipped"
	Output string
}

// Result ist das Gesamtergebnis eines erfolgreichen Laufs
type Result struct {
	Stages       []StageResult
	ArtifactPath string
	ArtifactSize int64
	InfoPath     string
}

// Driver fuehrt die Pipeline genau einmal aus
type Driver struct {
	config    Config
	merger    Merger
	converter Converter

	// StatusFunc meldet menschenlesbare Zwischenstaende (Spinner-Text)
	StatusFunc func(status string)

	state State
	size  int64
}

// NewDriver erstellt einen Driver fuer eine validierte Konfiguration
func NewDriver(config Config, merger Merger, converter Converter) *Driver {
	return &Driver{config: config, merger: merger, converter: converter}
}

// State gibt den aktuellen Driver-Zustand zurueck
func (d *Driver) State() State {
	return d.state
}

func (d *Driver) status(s string) {
	if d.StatusFunc != nil {
		d.StatusFunc(s)
	}
}

// Run fuehrt beide Stages und die Metadaten-Emission aus.
// Der erste Fehler bricht den gesamten Lauf ab; die Diagnose traegt
// immer die verursachende Stage.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	if err := d.config.Validate(); err != nil {
		d.state = Failed
		return nil, &StageError{Stage: "configuration", Err: err}
	}

	result := &Result{}

	d.state = AwaitingMerge
	if err := d.runStage(ctx, Stage{
		Name:   "merge",
		Inputs: []string{d.config.AdapterPath},
		Output: d.config.MergedDir,
		Skip:   d.config.SkipMerge,
		Action: func(ctx context.Context) error {
			return d.merger.Merge(ctx, d.config.BaseModel, d.config.AdapterPath, d.config.MergedDir)
		},
	}, result); err != nil {
		return result, err
	}

	d.state = AwaitingConvert
	if err := d.runStage(ctx, Stage{
		Name:   "convert",
		Inputs: []string{d.config.MergedDir},
		Output: d.config.OutputPath,
		Skip:   d.config.SkipConvert,
		Action: func(ctx context.Context) error {
			size, err := d.converter.Convert(ctx, d.config.MergedDir, d.config.OutputPath, d.config.Quantize)
			if err != nil {
				return err
			}
			d.size = size
			return nil
		},
	}, result); err != nil {
		return result, err
	}

	if d.size == 0 {
		if fi, err := os.Stat(d.config.OutputPath); err == nil {
			d.size = fi.Size()
		}
	}
	result.ArtifactPath, result.ArtifactSize = d.config.OutputPath, d.size

	// Sidecar nur, wenn die Convert-Stage tatsaechlich gelaufen ist
	if !d.config.SkipConvert {
		if err := d.emitInfo(result); err != nil {
			d.state = Failed
			return result, &StageError{Stage: "metadata", Err: err}
		}
	}

	d.state = Done
	return result, nil
}

// runStage fuehrt eine Stage aus oder verifiziert bei Skip nur deren
// Postcondition. Eine Stage gilt erst als erfolgreich, wenn ihr
// Output-Artefakt auf der Platte existiert, unabhaengig vom Exit-Status
// der gestarteten Prozesse.
func (d *Driver) runStage(ctx context.Context, stage Stage, result *Result) error {
	if stage.Skip {
		d.status(fmt.Sprintf("verifying existing %s output", stage.Name))
		slog.Info("skipping stage", "stage", stage.Name, "output", stage.Output)

		if !artifactExists(stage.Output) {
			d.state = Failed
			return &StageError{Stage: stage.Name, Err: fmt.Errorf(
				"%w: expected output %s does not exist; run again without skipping the %s stage",
				ErrMissingPrerequisite, stage.Output, stage.Name)}
		}

		result.Stages = append(result.Stages, StageResult{stage.Name, "skipped", stage.Output})
		return nil
	}

	for _, input := range stage.Inputs {
		if !artifactExists(input) {
			d.state = Failed
			return &StageError{Stage: stage.Name, Err: fmt.Errorf(
				"%w: required input %s does not exist", ErrMissingPrerequisite, input)}
		}
	}

	d.status(fmt.Sprintf("running %s stage", stage.Name))
	if err := stage.Action(ctx); err != nil {
		d.state = Failed
		return &StageError{Stage: stage.Name, Err: err}
	}

	if !artifactExists(stage.Output) {
		d.state = Failed
		return &StageError{Stage: stage.Name, Err: fmt.Errorf(
			"%w: stage finished but output %s does not exist", ErrPostconditionFailed, stage.Output)}
	}

	result.Stages = append(result.Stages, StageResult{stage.Name, "completed", stage.Output})
	return nil
}

// emitInfo schreibt den Sidecar-Datensatz neben das finale Artefakt
func (d *Driver) emitInfo(result *Result) error {
	d.status("writing model info")

	info, err := modelinfo.New(d.config.Name, d.config.Description,
		d.config.BaseModel, string(d.config.Quantize), d.config.OutputPath)
	if err != nil {
		return err
	}

	p, err := modelinfo.Write(d.config.OutputPath, info)
	if err != nil {
		return err
	}

	slog.Info("model info saved", "path", p)
	result.InfoPath = p
	return nil
}
