package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/odvcencio/yit/pkg/diff"
	"github.com/spf13/cobra"
)

func (a *app) newDiffCmd() *cobra.Command {
	var stat bool

	cmd := &cobra.Command{
		Use:   "diff <branch1> <branch2>",
		Short: "Show line changes between the tips of two branches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo()
			if err != nil {
				return err
			}

			diffs, err := r.Diff(args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if stat {
				fmt.Fprint(out, diff.FormatSummary(diffs))
				return nil
			}
			for _, d := range diffs {
				printColoredDiff(out, diff.FormatFileDiff(d))
			}
			fmt.Fprintf(out, "end diff between %s and %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&stat, "stat", false, "only list changed paths")
	return cmd
}

func printColoredDiff(out io.Writer, text string) {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	header := color.New(color.FgCyan)
	bold := color.New(color.Bold)

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			bold.Fprint(out, line)
		case strings.HasPrefix(line, "@@"):
			header.Fprint(out, line)
		case strings.HasPrefix(line, "+"):
			added.Fprint(out, line)
		case strings.HasPrefix(line, "-"):
			removed.Fprint(out, line)
		default:
			fmt.Fprint(out, line)
		}
	}
}
