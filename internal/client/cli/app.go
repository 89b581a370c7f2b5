package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/dutybadge/internal/client/client"
	"github.com/dmitrijs2005/dutybadge/internal/client/config"
)

type App struct {
	config *config.Config
	client client.Client
	in     io.Reader
	out    io.Writer
	loc    *time.Location
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewDutyClient(c.ServerEndpointAddr, c.AccessToken)
	if err != nil {
		return nil, err
	}
	return newApp(c, apiClient, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, cl client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: cl, in: in, out: out, loc: time.Local}
}

// Run checks that the server answers, then blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	pctx, cancel := a.requestContext(ctx)
	if err := a.client.Ping(pctx); err != nil {
		printlnFn("Server is not reachable:", err)
	}
	cancel()

	if a.config.AccessToken == "" {
		printlnFn("No access token configured, use -t or DUTYBADGE_TOKEN.")
	}

	a.Root(ctx)
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
