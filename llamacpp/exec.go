// MODUL: llamacpp/exec
// ZWECK: Subprocess-Ausfuehrung externer Konvertierungs- und Quantisierungs-Tools
// INPUT: Executable-Pfad, Argumentliste
// OUTPUT: ExecResult mit Exit-Code, stdout und stderr
// NEBENEFFEKTE: Startet Kind-Prozesse, blockiert bis zu deren Ende
// ABHAENGIGKEITEN: os/exec (stdlib), golang.org/x/sync/errgroup

package llamacpp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/elio-ai/forge/envconfig"
)

// Python-Interpreter fuer Konvertierungs-Scripts
const (
	PythonCommand         = "python"
	FallbackPythonCommand = "python3"
)

// Zeilen-Limit beim Einsammeln der Tool-Ausgabe; Konvertierungs-Scripts
// schreiben Fortschritts-Balken als eine einzige lange Zeile
const maxLineBytes = 16 * 1024 * 1024

// Fehler-Typen
var (
	ErrToolNotFound   = errors.New("tool not found")
	ErrToolFailed     = errors.New("tool execution failed")
	ErrPythonNotFound = errors.New("no python interpreter found in PATH")
)

// ExecResult enthaelt das Ergebnis einer Tool-Ausfuehrung
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner fuehrt ein externes Tool als Kind-Prozess aus.
// Tests ersetzen den Runner durch eine Fake-Implementierung.
type Runner interface {
	Run(ctx context.Context, exe string, args ...string) (ExecResult, error)
}

type execRunner struct{}

// NewRunner erstellt den Standard-Runner auf os/exec-Basis
func NewRunner() Runner {
	return execRunner{}
}

// Run startet das Tool und blockiert bis zum Prozessende.
// stdout und stderr werden vollstaendig eingesammelt. Es gibt bewusst
// keinen Timeout und keine Wiederholung: die Tools sind deterministisch,
// ein Fehlschlag erfordert einen Eingriff des Operators.
func (execRunner) Run(ctx context.Context, exe string, args ...string) (ExecResult, error) {
	path := exe
	if strings.ContainsAny(exe, `/\`) {
		if _, err := os.Stat(exe); err != nil {
			return ExecResult{}, fmt.Errorf("%w: %s", ErrToolNotFound, exe)
		}
	} else if p, err := exec.LookPath(exe); err != nil {
		return ExecResult{}, fmt.Errorf("%w: %s", ErrToolNotFound, exe)
	} else {
		path = p
	}

	cmd := exec.CommandContext(ctx, path, args...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return ExecResult{}, err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return ExecResult{}, err
	}

	slog.Debug("running tool", "exe", path, "args", args)
	if err := cmd.Start(); err != nil {
		return ExecResult{}, fmt.Errorf("starting %s: %w", exe, err)
	}

	var stdout, stderr strings.Builder
	var g errgroup.Group
	g.Go(func() error {
		s := bufio.NewScanner(stdoutPipe)
		s.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for s.Scan() {
			stdout.WriteString(s.Text() + "\n")
			slog.Debug("tool stdout", "line", s.Text())
		}
		return s.Err()
	})
	g.Go(func() error {
		s := bufio.NewScanner(stderrPipe)
		s.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for s.Scan() {
			stderr.WriteString(s.Text() + "\n")
			slog.Debug("tool stderr", "line", s.Text())
		}
		return s.Err()
	})

	// Pipes muessen vor cmd.Wait leergelesen sein
	scanErr := g.Wait()

	result := ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, fmt.Errorf("%w: %s exited with status %d: %s",
				ErrToolFailed, exe, result.ExitCode, strings.TrimSpace(result.Stderr))
		}
		return result, err
	}

	return result, scanErr
}

// FindPython sucht den Python-Interpreter fuer Konvertierungs-Scripts.
// FORGE_PYTHON hat Vorrang, danach python und python3 aus dem PATH.
func FindPython() (string, error) {
	if p := envconfig.Python(); p != "" {
		return p, nil
	}

	for _, name := range []string{PythonCommand, FallbackPythonCommand} {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}

	return "", ErrPythonNotFound
}
