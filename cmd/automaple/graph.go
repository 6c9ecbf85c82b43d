package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/salem909/auton-maple/pkg/converter"
	"github.com/salem909/auton-maple/pkg/models"
)

// GraphCommand renders a routine document as a Graphviz DOT graph.
func GraphCommand() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Aliases:   []string{"g"},
		Usage:     "Render a routine as a Graphviz DOT graph",
		ArgsUsage: "<routine.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the DOT graph to a file instead of stdout",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			return runGraph(command)
		},
	}
}

func runGraph(command *cli.Command) error {
	input := command.Args().Get(0)
	if input == "" {
		return errors.New("input path is required")
	}

	routine, err := models.Load(input)
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	dot, err := converter.ToDOT(routine)
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	if output := command.String("output"); output != "" {
		if err := os.WriteFile(output, []byte(dot), 0o600); err != nil {
			return fmt.Errorf("graph: %w", err)
		}

		return nil
	}

	fmt.Print(dot)

	return nil
}
