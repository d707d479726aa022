package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/odvcencio/yit/pkg/logging"
	"github.com/odvcencio/yit/pkg/object"
	"github.com/odvcencio/yit/pkg/repo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const version = "yit 0.1.0-dev"

// app carries the settings and logger shared by every subcommand.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
}

func main() {
	a := newApp()
	if err := a.rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func newApp() *app {
	return &app{v: viper.New(), logger: zap.NewNop()}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "yit",
		Short:         "A small content-addressed version control system",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "CLI config file (default: $XDG_CONFIG_HOME/yit/config.yaml)")
	flags.StringP("dir", "C", "", "run as if yit was started in this directory")
	flags.String("log-level", "", "log level: debug, info, warn or error (default warn)")
	flags.Bool("no-color", false, "disable coloured output")
	_ = a.v.BindPFlag("dir", flags.Lookup("dir"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("no_color", flags.Lookup("no-color"))

	root.AddCommand(
		newVersionCmd(),
		a.newInitCmd(),
		a.newAddCmd(),
		a.newCommitCmd(),
		a.newCheckoutCmd(),
		a.newMergeCmd(),
		a.newDiffCmd(),
		a.newBranchCmd(),
		a.newLogCmd(),
		a.newStatusCmd(),
		a.newResetCmd(),
		a.newReflogCmd(),
		a.newVerifyCmd(),
		a.newShellCmd(),
	)
	return root
}

// setup loads the optional CLI config file and environment, then builds the
// logger. It runs before every command.
func (a *app) setup(cmd *cobra.Command) error {
	if cfg, _ := cmd.Flags().GetString("config"); cfg != "" {
		a.v.SetConfigFile(cfg)
	} else {
		a.v.AddConfigPath(configDir())
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("YIT")
	a.v.AutomaticEnv()
	a.v.SetDefault("log_level", "warn")
	a.v.SetDefault("signing_key", "")

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read CLI config: %w", err)
		}
	}

	logger, err := logging.New(a.v.GetString("log_level"))
	if err != nil {
		return err
	}
	a.logger = logger
	if a.v.GetBool("no_color") {
		color.NoColor = true
	}
	return nil
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "yit")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "yit")
	}
	return ".yit-cli"
}

// workDir is the directory commands operate on.
func (a *app) workDir() string {
	if d := a.v.GetString("dir"); d != "" {
		return d
	}
	return "."
}

func (a *app) openRepo() (*repo.Repo, error) {
	return repo.Open(a.workDir(), repo.WithLogger(a.logger))
}

func shortHash(h object.Hash) string {
	s := string(h)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
