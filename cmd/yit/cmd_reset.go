package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

func (a *app) newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset [file]...",
		Short: "Unstage files, or clear the index when no files are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo()
			if err != nil {
				return err
			}
			base, err := filepath.Abs(a.workDir())
			if err != nil {
				return err
			}
			paths := make([]string, 0, len(args))
			for _, p := range args {
				if !filepath.IsAbs(p) {
					p = filepath.Join(base, p)
				}
				paths = append(paths, p)
			}
			return r.Reset(paths...)
		},
	}
}
