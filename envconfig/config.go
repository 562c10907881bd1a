// config.go - Konfigurationsfunktionen fuer die Forge-Pipeline
//
// Dieses Modul enthaelt:
// - LogLevel: Gibt Log-Level zurueck (FORGE_DEBUG)
// - LlamaCpp: Gibt llama.cpp-Verzeichnis zurueck (FORGE_LLAMACPP)
// - Python: Gibt Python-Interpreter zurueck (FORGE_PYTHON)
// - MergeScript: Gibt Merge-Script-Pfad zurueck (FORGE_MERGE_SCRIPT)
// - AsMap/Values: Export aller Konfigurationen
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via FORGE_DEBUG (bool oder numerisches slog-Level)
// Default: Info
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("FORGE_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// LlamaCpp gibt das llama.cpp-Verzeichnis zurueck
// Konfigurierbar via FORGE_LLAMACPP
// Default: ../llama.cpp (Schwester-Verzeichnis des Arbeitsverzeichnisses)
func LlamaCpp() string {
	if s := Var("FORGE_LLAMACPP"); s != "" {
		return s
	}

	return "../llama.cpp"
}

// Python gibt den Python-Interpreter zurueck
// Konfigurierbar via FORGE_PYTHON
// Leer = automatische Suche (python, dann python3) via exec.LookPath
func Python() string {
	return Var("FORGE_PYTHON")
}

// MergeScript gibt den Pfad zum LoRA-Merge-Script zurueck
// Konfigurierbar via FORGE_MERGE_SCRIPT
// Leer = scripts/merge_lora.py neben dem forge-Binary
func MergeScript() string {
	return Var("FORGE_MERGE_SCRIPT")
}

// EnvVar repraesentiert eine Environment-Variable mit Metadaten
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap gibt alle Konfigurationen als Map zurueck
// Enthaelt Namen, aktuelle Werte und Beschreibungen
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"FORGE_DEBUG":        {"FORGE_DEBUG", LogLevel(), "Show additional debug information (e.g. FORGE_DEBUG=1)"},
		"FORGE_LLAMACPP":     {"FORGE_LLAMACPP", LlamaCpp(), "Path to the llama.cpp checkout (default \"../llama.cpp\")"},
		"FORGE_PYTHON":       {"FORGE_PYTHON", Python(), "Python interpreter used for conversion scripts"},
		"FORGE_MERGE_SCRIPT": {"FORGE_MERGE_SCRIPT", MergeScript(), "Override path of the LoRA merge script"},
	}
}

// Values gibt alle Konfigurationswerte als String-Map zurueck
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
