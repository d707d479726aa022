package main

import (
	"bufio"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// newShellCmd runs an interactive loop that dispatches each input line to
// the regular subcommands.
func (a *app) newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			inherited := a.inheritedArgs()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) == 0 {
					continue
				}
				switch fields[0] {
				case "quit", "exit":
					return nil
				case "shell":
					fmt.Fprintln(errOut, color.RedString("error:"), "already in a shell")
					continue
				}

				sub := newApp().rootCmd()
				sub.SetArgs(append(slices.Clone(inherited), fields...))
				sub.SetOut(out)
				sub.SetErr(errOut)
				sub.SetIn(cmd.InOrStdin())
				if err := sub.Execute(); err != nil {
					fmt.Fprintln(errOut, color.RedString("error:"), err)
				}
			}
		},
	}
}

// inheritedArgs returns the persistent flags that reproduce a's resolved
// settings in a fresh command tree.
func (a *app) inheritedArgs() []string {
	args := []string{"--dir", a.workDir()}
	if cfg := a.v.ConfigFileUsed(); cfg != "" {
		args = append(args, "--config", cfg)
	}
	if lvl := a.v.GetString("log_level"); lvl != "" {
		args = append(args, "--log-level", lvl)
	}
	if a.v.GetBool("no_color") {
		args = append(args, "--no-color")
	}
	return args
}
