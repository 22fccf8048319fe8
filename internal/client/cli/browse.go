package cli

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmitrijs2005/arcadmin/internal/client/tui"
)

// newProgram is a test seam so Browse can be exercised without a terminal.
var newProgram = func(model tea.Model, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(model, opts...)
}

// Browse opens the full-screen directory browser. The row selection made
// there is shared with the REPL commands, so selecting in the browser and
// then running delete or compose works.
func (a *App) Browse(ctx context.Context) error {
	p := newProgram(tui.NewModel(a.directory), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	return a.List(ctx)
}
