package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tejas/internal/engine"
)

// Sender forwards engine ticks from timer goroutines into a running program,
// so the engine is only touched from the program's update loop.
type Sender struct {
	mu      sync.RWMutex
	program *tea.Program
}

// Attach sets the program that receives ticks.
func (s *Sender) Attach(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	s.mu.Unlock()
}

// Dispatch is an engine.Options.Dispatch. Ticks before Attach are dropped.
func (s *Sender) Dispatch(t engine.Tick) {
	s.mu.RLock()
	p := s.program
	s.mu.RUnlock()
	if p != nil {
		p.Send(t)
	}
}

// Run starts the typing program on the alternate screen and blocks until it exits.
func Run(m *Model, s *Sender) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	s.Attach(program)
	defer m.engine.Close()
	_, err := program.Run()
	return err
}
