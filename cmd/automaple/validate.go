package main

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/salem909/auton-maple/pkg/commandbook"
	"github.com/salem909/auton-maple/pkg/log"
	"github.com/salem909/auton-maple/pkg/models"
)

// ValidateCommand checks a routine document against the schema and model
// rules, and optionally lints its commands against a command book.
func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate a routine JSON document",
		ArgsUsage: "<routine.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "command-book",
				Aliases: []string{"b"},
				Usage:   "Path to a YAML command book to lint point commands against",
				Sources: cli.EnvVars("AUTOMAPLE_COMMAND_BOOK"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			return runValidate(ctx, command)
		},
	}
}

func runValidate(ctx context.Context, command *cli.Command) error {
	logger := log.WithModule("validate")

	input := command.Args().Get(0)
	if input == "" {
		return errors.New("input path is required")
	}

	routine, err := models.Load(input)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if err := routine.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if bookPath := command.String("command-book"); bookPath != "" {
		book, err := commandbook.Load(bookPath)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}

		issues := book.Check(routine)
		for _, issue := range issues {
			logger.WarnContext(ctx, "Unknown command", "issue", issue)
		}

		if len(issues) > 0 {
			return fmt.Errorf("validate: %d unknown command(s)", len(issues))
		}
	}

	logger.InfoContext(ctx, "Routine is valid",
		"input", input,
		"nodes", len(routine.Nodes),
		"start", routine.StartNode)

	return nil
}
