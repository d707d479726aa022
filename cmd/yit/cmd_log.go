package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *app) newLogCmd() *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log [branch]",
		Short: "Show first-parent commit history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo()
			if err != nil {
				return err
			}

			branch := ""
			if len(args) == 1 {
				branch = args[0]
			}
			nodes, err := r.Log(branch, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(nodes) == 0 {
				fmt.Fprintln(out, "no commits yet")
				return nil
			}
			if branch == "" {
				branch, _ = r.CurrentBranch()
			}

			for i, n := range nodes {
				decoration := ""
				if i == 0 {
					decoration = " " + color.YellowString("(%s)", branch)
				}
				if oneline {
					fmt.Fprintf(out, "%s%s %s\n", shortHash(n.Hash), decoration, n.Message)
					continue
				}
				fmt.Fprintf(out, "commit %s%s\n", n.Hash, decoration)
				if len(n.Parents) > 1 {
					fmt.Fprint(out, "Merge:")
					for _, p := range n.Parents {
						fmt.Fprintf(out, " %s", shortHash(p.Hash))
					}
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out)
				fmt.Fprintf(out, "    %s\n", n.Message)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of commits to show (0 for all)")

	return cmd
}
