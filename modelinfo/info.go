// info.go - Sidecar-Metadaten fuer erzeugte Modell-Artefakte
// Hauptfunktionen: New, SidecarPath, Write
//
// Die Sidecar-Datei beschreibt das Artefakt fuer Downstream-Konsumenten
// (die Elio-App liest sie fuer die Modell-Auswahl), ohne dass das GGUF
// selbst geparst werden muss.
package modelinfo

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

// Feste Nutzungs-Empfehlungen fuer Elio-Modelle
var DefaultUsage = Usage{
	ContextSize:     4096,
	RecommendedTemp: 0.7,
	StopTokens:      []string{"<|im_end|>", "</think>"},
}

// DefaultFeatures beschreibt die Eigenschaften der gebauten Modelle
var DefaultFeatures = []string{
	"Japanese thinking (<think> tags)",
	"Optimized for mobile deployment",
	"GGUF format for llama.cpp",
}

// Usage sind die empfohlenen Inferenz-Parameter
type Usage struct {
	ContextSize     int      `json:"context_size"`
	RecommendedTemp float64  `json:"recommended_temp"`
	StopTokens      []string `json:"stop_tokens"`
}

// Info ist der Sidecar-Datensatz. Die JSON-Schluessel sind stabil und
// Teil des Formats; Downstream-Konsumenten verlassen sich darauf.
type Info struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	BaseModel    string   `json:"base_model"`
	Quantization string   `json:"quantization"`
	File         string   `json:"file"`
	SizeMB       float64  `json:"size_mb"`
	Features     []string `json:"features"`
	Usage        Usage    `json:"usage"`
}

// New erstellt den Info-Datensatz fuer ein existierendes Artefakt.
// Das size_mb-Feld spiegelt die Datei auf der Platte zum Zeitpunkt
// der Erstellung.
func New(name, description, baseModel, quantization, artifact string) (Info, error) {
	fi, err := os.Stat(artifact)
	if err != nil {
		return Info{}, err
	}

	return Info{
		Name:         name,
		Description:  description,
		BaseModel:    baseModel,
		Quantization: quantization,
		File:         filepath.Base(artifact),
		SizeMB:       float64(fi.Size()) / (1024 * 1024),
		Features:     DefaultFeatures,
		Usage:        DefaultUsage,
	}, nil
}

// SidecarPath leitet den Sidecar-Pfad vom Artefakt-Pfad ab:
// Endung wird durch den Info-Marker plus .json ersetzt
func SidecarPath(artifact string) string {
	ext := filepath.Ext(artifact)
	return artifact[:len(artifact)-len(ext)] + "-info.json"
}

// Write serialisiert den Datensatz neben das Artefakt.
// Die Ausgabe ist deterministisch: identische Eingaben ergeben
// byte-identische Sidecar-Dateien.
func Write(artifact string, info Info) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		return "", err
	}

	p := SidecarPath(artifact)
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		return "", err
	}

	return p, nil
}
