// Command gfacade is the command line front end of the Google API facade.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/gfacade/internal/adapters/driving/cli"
	"github.com/custodia-labs/gfacade/internal/app"
	"github.com/custodia-labs/gfacade/internal/connectors/google"
)

func main() {
	cli.SetOpener(func(opts cli.Options) (cli.Services, func() error, error) {
		a, err := app.New(app.Options{ConfigDir: opts.ConfigDir, DataDir: opts.DataDir})
		if err != nil {
			return cli.Services{}, nil, err
		}
		return cli.Services{
			Facade:      a.Facade,
			Credentials: a.Credentials,
			Messaging:   a.Messaging(),
			Migrations:  a.Migrations(),
			Stats:       a.Stats.Snapshot,
			Watch:       a.Watch,
		}, a.Close, nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		if hint := google.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		os.Exit(1)
	}
}
