package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/salem909/auton-maple/pkg/cmd"
	"github.com/salem909/auton-maple/pkg/commandbook"
	"github.com/salem909/auton-maple/pkg/log"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "automaple-api",
		Usage:                 "Create and manage bot routines",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "routines-dir",
				Usage:    "Directory (or file:// URL) holding the routine store",
				Value:    "./data",
				Sources:  cli.EnvVars("ROUTINES_DIR"),
				Required: false,
			},
			&cli.StringFlag{
				Name:    "command-book",
				Usage:   "Path to a YAML command book used by the lint endpoints",
				Sources: cli.EnvVars("AUTOMAPLE_COMMAND_BOOK"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing AutoMaple API")

			persistence := cmd.NewPersistence(command.String("routines-dir"))

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			var book *commandbook.Book

			if bookPath := command.String("command-book"); bookPath != "" {
				loaded, err := commandbook.Load(bookPath)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to load command book", "error", err)

					return err
				}

				book = loaded
			}

			api := NewAPI(logger, persistence, book)

			err := api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
