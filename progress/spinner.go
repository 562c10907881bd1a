// spinner.go - Spinner-Animation fuer Schritte ohne messbaren Fortschritt
// Hauptfunktionen: NewSpinner, SetMessage, Stop
package progress

import (
	"strings"
	"sync"
	"time"
)

// Spinner zeigt eine Animation neben einer Status-Meldung
type Spinner struct {
	mu sync.Mutex

	message string
	parts   []string
	value   int

	ticker  *time.Ticker
	started time.Time
	stopped time.Time
}

// NewSpinner erstellt einen Spinner und startet die Animation
func NewSpinner(message string) *Spinner {
	s := &Spinner{
		message: message,
		parts: []string{
			"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏",
		},
		started: time.Now(),
	}
	go s.start()
	return s
}

// SetMessage aktualisiert die Status-Meldung
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Message gibt die Status-Meldung ohne Animations-Anteil zurueck
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

func (s *Spinner) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder

	if len(s.message) > 0 {
		message := strings.TrimSpace(s.message)
		sb.WriteString(message)
		sb.WriteString(" ")
	}

	if s.stopped.IsZero() {
		spinner := s.parts[s.value]
		sb.WriteString(spinner)
		sb.WriteString(" ")
	}

	return sb.String()
}

func (s *Spinner) start() {
	s.ticker = time.NewTicker(100 * time.Millisecond)
	for range s.ticker.C {
		s.mu.Lock()
		s.value = (s.value + 1) % len(s.parts)
		stopped := !s.stopped.IsZero()
		s.mu.Unlock()

		if stopped {
			return
		}
	}
}

// Stop haelt die Animation an
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped.IsZero() {
		s.stopped = time.Now()
	}
}

// Elapsed gibt die Laufzeit des Spinners zurueck
func (s *Spinner) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped.IsZero() {
		return time.Since(s.started)
	}
	return s.stopped.Sub(s.started)
}
