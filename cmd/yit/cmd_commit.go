package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newCommitCmd() *cobra.Command {
	var message string
	var sign bool
	var keyPath string

	cmd := &cobra.Command{
		Use:   "commit [message]",
		Short: "Record staged changes on the current branch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" && len(args) == 1 {
				message = args[0]
			}
			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := a.openRepo()
			if err != nil {
				return err
			}

			h, err := r.Commit(message)
			if err != nil {
				return err
			}

			if sign {
				if keyPath == "" {
					keyPath = a.v.GetString("signing_key")
				}
				signer, resolved, err := newSSHCommitSigner(keyPath)
				if err != nil {
					return err
				}
				if err := r.SignCommit(h, signer); err != nil {
					return err
				}
				a.logger.Sugar().Debugf("signed %s with %s", h, resolved)
			}

			branch, _ := r.CurrentBranch()
			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", branch, shortHash(h), message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().BoolVarP(&sign, "sign", "S", false, "sign the commit with an SSH key")
	cmd.Flags().StringVar(&keyPath, "key", "", "SSH private key used with -S (default: ~/.ssh/id_ed25519, id_ecdsa, id_rsa)")

	return cmd
}
