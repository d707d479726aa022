package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/yit/pkg/repo"
	"github.com/spf13/cobra"
)

func (a *app) newInitCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty yit repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.workDir()
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			cfg := repo.DefaultConfig()
			if branch != "" {
				cfg.Core.DefaultBranch = branch
			}
			r, err := repo.Init(abs, repo.WithConfig(cfg), repo.WithLogger(a.logger))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty yit repository in %s\n", r.Dir+string(filepath.Separator))
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "initial-branch", "b", "", "name of the first branch (default master)")
	return cmd
}
