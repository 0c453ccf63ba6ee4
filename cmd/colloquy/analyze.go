//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/colloquy"
	"github.com/farcloser/colloquy/internal/output"
)

var errInvalidArgCount = errors.New("expected exactly one argument: file path")

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze a single recording and validate it against criteria",
		ArgsUsage: "<file>",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			opts, err := batchOptions(cmd)
			if err != nil {
				return err
			}

			report := colloquy.AnalyzeFile(ctx, cmd.Args().First(), opts)

			return outputReport(report, cmd.String("format"))
		},
	}
}

func outputReport(report *colloquy.FileReport, formatName string) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	data := &format.Data{
		Object: report.Path,
		Meta:   output.ReportToMap(report),
	}

	if err := formatter.PrintAll([]*format.Data{data}, os.Stdout); err != nil {
		return err
	}

	if report.Status == colloquy.StatusError {
		return errors.New(report.Message)
	}

	return nil
}
