package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <branch>",
		Short: "Switch branches, creating the branch if it does not exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			r, err := a.openRepo()
			if err != nil {
				return err
			}

			existed := r.BranchExists(target)
			if err := r.CheckoutContext(cmd.Context(), target); err != nil {
				return err
			}

			if existed {
				fmt.Fprintf(cmd.OutOrStdout(), "switched to branch '%s'\n", target)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "switched to new branch '%s'\n", target)
			}
			return nil
		},
	}
}
