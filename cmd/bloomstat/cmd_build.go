package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bloomkit/bloomkit"
)

// buildFlags holds the flags for the "build" subcommand. It is grounded
// on the teacher's examples/spellcheck/main.go, which loaded a newline
// dictionary into a Bloom filter one word per line; here the same
// line-at-a-time ingestion builds a filter and reports its fill state
// instead of checking spelling.
type buildFlags struct {
	input    string
	output   string
	fpRate   float64
	counting bool
}

func newBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a filter from a newline-delimited input file and report its stats",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBuild(flags)
		},
	}

	cmd.Flags().StringVar(&flags.input, "input", "", "newline-delimited input file (required)")
	cmd.Flags().StringVar(&flags.output, "output", "", "path to write the raw buffer to (optional)")
	cmd.Flags().Float64Var(&flags.fpRate, "fp-rate", 0.01, "target false positive rate")
	cmd.Flags().BoolVar(&flags.counting, "counting", false, "build a counting filter instead of a bit filter")
	cmd.MarkFlagRequired("input")

	return cmd
}

func runBuild(flags *buildFlags) error {
	lines, err := readLines(flags.input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	n := uint64(len(lines))
	if n == 0 {
		n = 1
	}

	builder, err := bloomkit.NewBuilder(n, flags.fpRate)
	if err != nil {
		return fmt.Errorf("deriving parameters: %w", err)
	}

	var (
		buf   []byte
		stats bloomkit.Stats
	)
	if flags.counting {
		f := builder.BuildCountingFilter()
		f.AddStringBatch(lines)
		buf, stats = f.GetBytes(), f.Stats()
	} else {
		f := builder.BuildBitFilter()
		f.AddStringBatch(lines)
		buf, stats = f.GetBytes(), f.Stats()
	}

	color.Cyan("inserted %d lines", len(lines))
	fmt.Printf("m=%d k=%d load=%.4f estCardinality=%d\n",
		stats.NumBits, stats.NumHashes, stats.LoadFactor, stats.EstCardinality)

	if flags.output != "" {
		if err := os.WriteFile(flags.output, buf, 0o644); err != nil {
			return fmt.Errorf("writing buffer: %w", err)
		}
		color.Green("wrote %d bytes to %s (k=%d)", len(buf), flags.output, builder.K())
	}

	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
