// stage.go - Stage-Definition und Artefakt-Pruefungen
// Hauptfunktionen: Stage, artifactExists, dirNonEmpty
package pipeline

import (
	"context"
	"os"
)

// Stage ist ein benannter Pipeline-Schritt. Eine Stage wird vom Driver
// aus der Config konstruiert, hoechstens einmal ausgefuehrt und danach
// verworfen.
type Stage struct {
	Name   string   // Bezeichner fuer Diagnosen
	Inputs []string // Artefakte, die vor der Ausfuehrung existieren muessen
	Output string   // Artefakt, das nach der Ausfuehrung existieren muss
	Skip   bool     // nur Postcondition pruefen, keine Aktion
	Action func(ctx context.Context) error
}

// artifactExists meldet, ob ein Artefakt (Datei oder Verzeichnis) existiert.
// Leere Verzeichnisse zaehlen nicht als Artefakt.
func artifactExists(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}

	if fi.IsDir() {
		return dirNonEmpty(path)
	}

	return true
}

// dirNonEmpty meldet, ob ein Verzeichnis mindestens einen Eintrag enthaelt
func dirNonEmpty(path string) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	return len(entries) > 0
}
