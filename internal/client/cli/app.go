package cli

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/arcadmin/internal/client/client"
	"github.com/dmitrijs2005/arcadmin/internal/client/config"
	"github.com/dmitrijs2005/arcadmin/internal/client/services"
	"github.com/dmitrijs2005/arcadmin/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the services behind the interactive console.
type App struct {
	config    *config.Config
	session   *services.Session
	directory *services.Directory
	arcers    *services.Arcers
	compose   *services.Compose
	log       logging.Logger
	reader    *bufio.Reader
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()
	if logger == nil {
		logger = logging.Nop()
	}

	repos, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.BaseURL, c.RequestTimeout, logger)
	if err != nil {
		return nil, err
	}

	session := services.NewSession(apiClient, logger)

	return &App{
		config:    c,
		session:   session,
		directory: services.NewDirectory(apiClient, c.PageLimit, logger),
		arcers:    services.NewArcers(apiClient, session, logger),
		compose:   services.NewCompose(apiClient, repos, logger),
		log:       logger,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.session.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session.Account()
	return ok
}
