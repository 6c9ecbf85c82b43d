package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/salem909/auton-maple/pkg/converter"
	"github.com/salem909/auton-maple/pkg/log"
)

// ConvertCommand translates routines between the legacy CSV format and the
// JSON document format. The output path defaults to the input path with the
// extension swapped.
func ConvertCommand() *cli.Command {
	return &cli.Command{
		Name:    "convert",
		Aliases: []string{"c"},
		Usage:   "Convert routines between CSV and JSON",
		Commands: []*cli.Command{
			{
				Name:      "csv-to-json",
				Usage:     "Convert a legacy CSV routine to a JSON document",
				ArgsUsage: "<input.csv> [output.json]",
				Action: func(ctx context.Context, command *cli.Command) error {
					return runCSVToJSON(ctx, command)
				},
			},
			{
				Name:      "json-to-csv",
				Usage:     "Convert a JSON routine document back to legacy CSV",
				ArgsUsage: "<input.json> [output.csv]",
				Action: func(ctx context.Context, command *cli.Command) error {
					return runJSONToCSV(ctx, command)
				},
			},
		},
	}
}

func runCSVToJSON(ctx context.Context, command *cli.Command) error {
	logger := log.WithModule("convert")

	input := command.Args().Get(0)
	if input == "" {
		return errors.New("input path is required")
	}

	output := command.Args().Get(1)
	if output == "" {
		output = swapExtension(input, ".json")
	}

	routine, err := converter.CSVToJSON(input, output)
	if err != nil {
		return fmt.Errorf("csv-to-json: %w", err)
	}

	logger.InfoContext(ctx, "Converted routine",
		"input", input,
		"output", output,
		"nodes", len(routine.Nodes),
		"start", routine.StartNode)

	return nil
}

func runJSONToCSV(ctx context.Context, command *cli.Command) error {
	logger := log.WithModule("convert")

	input := command.Args().Get(0)
	if input == "" {
		return errors.New("input path is required")
	}

	output := command.Args().Get(1)
	if output == "" {
		output = swapExtension(input, ".csv")
	}

	content, err := converter.JSONToCSV(input, output)
	if err != nil {
		return fmt.Errorf("json-to-csv: %w", err)
	}

	logger.InfoContext(ctx, "Converted routine",
		"input", input,
		"output", output,
		"lines", strings.Count(content, "\n"))

	return nil
}

func swapExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
