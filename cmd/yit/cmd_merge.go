package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/odvcencio/yit/pkg/merge"
	"github.com/odvcencio/yit/pkg/repo"
	"github.com/spf13/cobra"
)

func (a *app) newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <branch> [into]",
		Short: "Merge a branch into another branch (default: the current branch)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo()
			if err != nil {
				return err
			}

			branch := args[0]
			into := ""
			if len(args) == 2 {
				into = args[1]
			} else if into, err = r.CurrentBranch(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "merging %s into %s...\n", branch, into)

			report, err := r.Merge(branch, into)
			if err != nil {
				if errors.Is(err, merge.ErrConflict) || errors.Is(err, merge.ErrDoesNotHaveOrigin) {
					fmt.Fprintln(out, color.RedString("CONFLICT"), "nothing was merged")
				}
				return err
			}
			printMergeReport(out, report, branch, into)
			return nil
		},
	}
}

func printMergeReport(out io.Writer, report *repo.MergeReport, branch, into string) {
	switch report.Outcome {
	case merge.AlreadyMerged:
		fmt.Fprintln(out, "already up to date")
	case merge.FastForward:
		fmt.Fprintf(out, "fast-forward %s..%s\n", shortHash(report.Target), shortHash(report.Source))
	default:
		for _, p := range report.Merged {
			fmt.Fprintf(out, "  %s: %s\n", p, color.YellowString("merged"))
		}
		s := report.Stats
		fmt.Fprintf(out, "%d carried, %d merged, %d deleted, %d unchanged\n", s.Carried, s.Merged, s.Deleted, s.Unchanged)
		fmt.Fprintf(out, "[%s %s] Merge %s into %s\n", into, shortHash(report.MergeCommit), branch, into)
	}
	fmt.Fprintln(out, color.GreenString("merge completed cleanly"))
}
