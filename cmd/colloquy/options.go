package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/colloquy"
)

var (
	errInvalidPair    = errors.New("contributor pair must be <userId>:<agentId>")
	errInvalidPattern = errors.New("unknown filename pattern (valid: none, bilingual, script)")
)

// commonFlags are shared between the analyze and batch commands.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "Analysis mode: full, audio-only, filename-only, experimental",
			Value:   "full",
		},
		&cli.StringFlag{
			Name:    "preset",
			Aliases: []string{"p"},
			Usage:   "Criteria preset: conversational, monologue",
			Value:   "conversational",
		},
		&cli.FloatFlag{
			Name:  "target-db",
			Usage: "Normalization target peak level in dBFS",
			Value: -6.0,
		},
		&cli.FloatFlag{
			Name:  "tolerance-db",
			Usage: "Band around the target within which a peak counts as normalized",
			Value: 1.0,
		},
		&cli.StringFlag{
			Name:  "filename-pattern",
			Usage: "Filename convention to validate: none, bilingual, script",
			Value: "none",
		},
		&cli.StringFlag{
			Name:  "pairs",
			Usage: "Valid contributor pairs for the bilingual pattern, comma-separated <userId>:<agentId>",
		},
		&cli.StringFlag{
			Name:  "scripts",
			Usage: "Path to a file listing valid script base names, one per line",
		},
		&cli.StringFlag{
			Name:  "speaker-id",
			Usage: "Configured speaker ID for the script pattern",
		},
	}
}

// batchOptions assembles engine options from the shared flags.
func batchOptions(cmd *cli.Command) (colloquy.BatchOptions, error) {
	mode, err := colloquy.ParseMode(cmd.String("mode"))
	if err != nil {
		return colloquy.BatchOptions{}, err
	}

	criteria, err := colloquy.CriteriaForPreset(cmd.String("preset"))
	if err != nil {
		return colloquy.BatchOptions{}, err
	}

	filename, err := filenameOptions(cmd)
	if err != nil {
		return colloquy.BatchOptions{}, err
	}

	return colloquy.BatchOptions{
		Mode:     mode,
		Criteria: criteria,
		Analysis: colloquy.AnalysisOptions{
			TargetDb:    cmd.Float("target-db"),
			ToleranceDb: cmd.Float("tolerance-db"),
		},
		Filename: filename,
		Load:     loadFile,
	}, nil
}

func filenameOptions(cmd *cli.Command) (colloquy.FilenameOptions, error) {
	opts := colloquy.FilenameOptions{
		SpeakerID: cmd.String("speaker-id"),
	}

	switch cmd.String("filename-pattern") {
	case "none", "":
		opts.Pattern = colloquy.PatternNone

		return opts, nil
	case "bilingual":
		opts.Pattern = colloquy.PatternBilingual
	case "script":
		opts.Pattern = colloquy.PatternScript
	default:
		return opts, fmt.Errorf("%w: %q", errInvalidPattern, cmd.String("filename-pattern"))
	}

	pairs, err := parsePairs(cmd.String("pairs"))
	if err != nil {
		return opts, err
	}

	opts.ValidPairs = pairs

	if path := cmd.String("scripts"); path != "" {
		scripts, err := readScripts(path)
		if err != nil {
			return opts, err
		}

		opts.Scripts = scripts
	}

	return opts, nil
}

func parsePairs(raw string) ([]colloquy.ContributorPair, error) {
	var pairs []colloquy.ContributorPair

	for entry := range strings.SplitSeq(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		userID, agentID, ok := strings.Cut(entry, ":")
		if !ok || userID == "" || agentID == "" {
			return nil, fmt.Errorf("%w: got %q", errInvalidPair, entry)
		}

		pairs = append(pairs, colloquy.ContributorPair{UserID: userID, AgentID: agentID})
	}

	return pairs, nil
}

func readScripts(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified script list
	if err != nil {
		return nil, fmt.Errorf("reading script list: %w", err)
	}

	var scripts []string

	for line := range strings.SplitSeq(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			scripts = append(scripts, line)
		}
	}

	return scripts, nil
}
