package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newVerifyCmd() *cobra.Command {
	var signatureBranch string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify object integrity and branch reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if signatureBranch != "" {
				tip, err := r.BranchCommit(signatureBranch)
				if err != nil {
					return err
				}
				sig, err := r.CommitSignature(tip)
				if err != nil {
					return err
				}
				payload, err := r.CommitPayload(tip)
				if err != nil {
					return err
				}
				fingerprint, err := verifyCommitSignature(sig, payload)
				if err != nil {
					return fmt.Errorf("verify %s: %w", shortHash(tip), err)
				}
				fmt.Fprintf(out, "good signature on %s by %s\n", shortHash(tip), fingerprint)
				return nil
			}

			report, err := r.Check()
			if err != nil {
				return err
			}
			fmt.Fprintf(out,
				"verified %d object(s): %d blob(s), %d tree(s), %d commit(s)\n",
				report.Objects.Objects,
				report.Objects.Blobs,
				report.Objects.Trees,
				report.Objects.Commits,
			)
			if !report.OK() {
				for _, h := range report.Missing {
					fmt.Fprintf(out, "missing %s\n", h)
				}
				return fmt.Errorf("%d referenced object(s) missing", len(report.Missing))
			}
			fmt.Fprintf(out, "ok: %d branch(es) fully reachable\n", len(report.Tips))
			return nil
		},
	}
	cmd.Flags().StringVar(&signatureBranch, "signature", "", "verify the SSH signature on this branch's tip instead")
	return cmd
}
