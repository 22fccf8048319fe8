package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	account, ok := a.session.Account()
	if !ok {
		return "(signed out)"
	}
	page := a.directory.Page()
	return fmt.Sprintf("(%s %s %d/%d)",
		account.Email, a.directory.Category(), page.Current, page.TotalPages)
}

// Root verifies the stored session first, asks for credentials when that
// fails, and then hands control to the REPL.
func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to the arcer admin console (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	if _, err := a.session.Verify(ctx); err != nil {
		_ = a.Login(ctx)
	} else {
		_ = a.directory.Refresh(ctx)
	}

	runREPL(ctx, a, a.getStatus, scanner)
}
