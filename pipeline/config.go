// config.go - Unveraenderliche Lauf-Konfiguration der Pipeline
// Hauptfunktionen: ParseScheme, Config.Validate
package pipeline

import (
	"fmt"
	"strings"
)

// Scheme ist ein Quantisierungs-Schema fuer das finale Artefakt
type Scheme string

// Geschlossene Menge der unterstuetzten Schemata.
// SchemeF16 ist das Identitaets-Schema: keine Kompression, das
// f16-Zwischenartefakt wird unveraendert zum finalen Artefakt.
const (
	SchemeF16  Scheme = "f16"
	SchemeQ8_0 Scheme = "q8_0"
	SchemeQ4KM Scheme = "q4_k_m"
	SchemeQ4KS Scheme = "q4_k_s"
	SchemeQ3KM Scheme = "q3_k_m"
	SchemeQ2K  Scheme = "q2_k"
)

// DefaultScheme ist das aggressivste gaengige 4-Bit-Schema
const DefaultScheme = SchemeQ4KM

// Schemes gibt alle unterstuetzten Schemata in stabiler Reihenfolge zurueck
func Schemes() []Scheme {
	return []Scheme{SchemeF16, SchemeQ8_0, SchemeQ4KM, SchemeQ4KS, SchemeQ3KM, SchemeQ2K}
}

// ParseScheme validiert einen Schema-Selektor.
// Unbekannte Selektoren werden zur Konfigurationszeit abgelehnt,
// nie erst mitten in der Pipeline.
func ParseScheme(s string) (Scheme, error) {
	scheme := Scheme(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Schemes() {
		if scheme == known {
			return scheme, nil
		}
	}

	return "", fmt.Errorf("%w: unknown quantization scheme %q (supported: %s)",
		ErrInvalidConfiguration, s, schemeList())
}

func schemeList() string {
	parts := make([]string, 0, len(Schemes()))
	for _, s := range Schemes() {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ", ")
}

// IsIdentity meldet, ob das Schema das Artefakt unveraendert laesst
func (s Scheme) IsIdentity() bool {
	return s == SchemeF16
}

// Config ist die unveraenderliche Lauf-Konfiguration.
// Sie wird einmal beim Prozess-Start aus der Kommandozeile erstellt
// und danach nur noch gelesen.
type Config struct {
	BaseModel   string // Bezeichner des Basis-Modells
	AdapterPath string // Verzeichnis mit den LoRA-Gewichten
	MergedDir   string // Ziel-Verzeichnis des gemergten Checkpoints
	OutputPath  string // Pfad des finalen GGUF-Artefakts
	Quantize    Scheme // Quantisierungs-Schema
	LlamaCpp    string // llama.cpp-Verzeichnis (Tool-Suite)
	SkipMerge   bool
	SkipConvert bool

	// Anzeige-Felder fuer die Sidecar-Metadaten
	Name        string
	Description string
}

// Validate lehnt inkonsistente Konfigurationen ab, bevor eine Stage laeuft
func (c Config) Validate() error {
	if _, err := ParseScheme(string(c.Quantize)); err != nil {
		return err
	}

	if c.AdapterPath == "" && !c.SkipMerge {
		return fmt.Errorf("%w: adapter path is required unless --skip-merge is set", ErrInvalidConfiguration)
	}

	if c.MergedDir == "" {
		return fmt.Errorf("%w: merged checkpoint directory is required", ErrInvalidConfiguration)
	}

	if c.OutputPath == "" {
		return fmt.Errorf("%w: artifact output path is required", ErrInvalidConfiguration)
	}

	return nil
}
