// progress.go - Fortschritts-Anzeige fuer laufende Pipeline-Schritte
// Hauptfunktionen: NewProgress, Add, Stop, StopAndClear
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// State ist ein einzelner anzeigbarer Fortschritts-Zustand
type State interface {
	String() string
}

// Progress rendert eine Liste von States zyklisch auf einen Writer
type Progress struct {
	mu sync.Mutex
	w  io.Writer

	pos int
	tty bool

	ticker  *time.Ticker
	states  []State
	printed []string // letzte Nicht-TTY-Ausgabe je State
}

// NewProgress erstellt eine Progress-Anzeige und startet das Rendering
func NewProgress(w io.Writer) *Progress {
	p := &Progress{w: w, pos: -1}
	if f, ok := w.(*os.File); ok {
		p.tty = term.IsTerminal(int(f.Fd()))
	}
	go p.start()
	return p
}

// Add fuegt einen neuen State hinzu
func (p *Progress) Add(_ string, state State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.states = append(p.states, state)
	p.printed = append(p.printed, "")

	// Ohne Terminal wird jede Status-Aenderung genau einmal gedruckt
	if !p.tty {
		p.printChanged()
	}
}

// stateText gibt den stabilen Text eines States zurueck, ohne
// Animations-Anteile wie das Spinner-Zeichen
func stateText(state State) string {
	if m, ok := state.(interface{ Message() string }); ok {
		return m.Message()
	}
	return state.String()
}

// printChanged druckt geaenderte Status-Texte; Aufrufer haelt p.mu
func (p *Progress) printChanged() {
	for i, state := range p.states {
		if text := stateText(state); text != p.printed[i] {
			fmt.Fprintf(p.w, "%s\n", text)
			p.printed[i] = text
		}
	}
}

func (p *Progress) stop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, state := range p.states {
		if spinner, ok := state.(*Spinner); ok {
			spinner.Stop()
		}
	}

	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.render()
		return true
	}

	return false
}

// Stop beendet das Rendering und laesst die letzte Ausgabe stehen
func (p *Progress) Stop() bool {
	stopped := p.stop()
	if stopped && p.tty {
		fmt.Fprint(p.w, "\n")
	}
	return stopped
}

// StopAndClear beendet das Rendering und loescht die Ausgabe
func (p *Progress) StopAndClear() bool {
	stopped := p.stop()
	if stopped && p.tty {
		// Zeilen der letzten Darstellung loeschen
		for range p.states {
			fmt.Fprint(p.w, "\033[A\033[2K")
		}
		fmt.Fprint(p.w, "\r")
	}
	return stopped
}

// render zeichnet alle States neu; Aufrufer haelt p.mu
func (p *Progress) render() {
	if !p.tty {
		p.printChanged()
		return
	}

	fmt.Fprint(p.w, "\033[?25l")
	defer fmt.Fprint(p.w, "\033[?25h")

	// Cursor an den Anfang der Darstellung zuruecksetzen
	if p.pos > 0 {
		fmt.Fprintf(p.w, "\033[%dA", p.pos)
	}

	for _, state := range p.states {
		fmt.Fprint(p.w, "\033[2K\r")
		fmt.Fprintln(p.w, state.String())
	}

	p.pos = len(p.states)
}

func (p *Progress) start() {
	p.mu.Lock()
	p.ticker = time.NewTicker(100 * time.Millisecond)
	ticker := p.ticker
	p.mu.Unlock()

	for range ticker.C {
		p.mu.Lock()
		if p.ticker == nil {
			p.mu.Unlock()
			return
		}
		p.render()
		p.mu.Unlock()
	}
}
