// suite.go - Lokalisierung der llama.cpp Tool-Suite auf der Platte
// Hauptfunktionen: NewSuite, ConvertScript, QuantizeBin
package llamacpp

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Namen der benoetigten Tools innerhalb des llama.cpp-Verzeichnisses
const (
	convertScriptName = "convert_hf_to_gguf.py"
	quantizeBinName   = "llama-quantize"
)

// Suite buendelt die Pfade der llama.cpp-Tools.
// Die Suite prueft Existenz erst beim Zugriff, damit ein Lauf mit
// --skip-convert auch ohne gebautes llama.cpp funktioniert.
type Suite struct {
	dir string
}

// NewSuite erstellt eine Suite fuer das angegebene llama.cpp-Verzeichnis
func NewSuite(dir string) Suite {
	return Suite{dir: dir}
}

// Dir gibt das llama.cpp-Verzeichnis zurueck
func (s Suite) Dir() string {
	return s.dir
}

// ConvertScript gibt den Pfad des HF-zu-GGUF-Konvertierungs-Scripts zurueck
func (s Suite) ConvertScript() (string, error) {
	p := filepath.Join(s.dir, convertScriptName)
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("%w: %s (clone llama.cpp next to this tool: git clone https://github.com/ggerganov/llama.cpp)", ErrToolNotFound, p)
	}
	return p, nil
}

// QuantizeBin gibt den Pfad des Quantisierungs-Binaries zurueck
func (s Suite) QuantizeBin() (string, error) {
	name := quantizeBinName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	p := filepath.Join(s.dir, name)
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("%w: %s (build llama.cpp: cd %s && make)", ErrToolNotFound, p, s.dir)
	}
	return p, nil
}
