package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/odvcencio/yit/pkg/repo"
	"github.com/spf13/cobra"
)

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo()
			if err != nil {
				return err
			}

			entries, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			branch, _ := r.CurrentBranch()
			if head, _ := r.HeadCommit(); head == "" {
				fmt.Fprintf(out, "on %s (no commits yet)\n", branch)
			} else {
				fmt.Fprintf(out, "on %s\n", branch)
			}

			var staged, unstaged, untracked []string
			for _, e := range entries {
				switch e.IndexStatus {
				case repo.StatusNew:
					staged = append(staged, "  + "+e.Path)
				case repo.StatusModified:
					staged = append(staged, "  ~ "+e.Path)
				case repo.StatusUntracked:
					untracked = append(untracked, "  "+e.Path)
					continue
				}

				switch e.WorkStatus {
				case repo.StatusDirty:
					unstaged = append(unstaged, "  ~ "+e.Path)
				case repo.StatusDeleted:
					unstaged = append(unstaged, "  - "+e.Path)
				}
			}

			printSection(out, "staged:", staged, color.New(color.FgGreen))
			printSection(out, "unstaged:", unstaged, color.New(color.FgRed))
			printSection(out, "untracked:", untracked, color.New(color.FgRed))
			return nil
		},
	}
}
