// Package main is the entry point for the wordlens viewer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/wordlens/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	noEnv      bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "wordlens",
		Short: "Hover a word, search its images",
		Long: `wordlens shows an HTML page in the terminal. Holding the modifier key
while moving the mouse highlights the word under the pointer; clicking it
opens an image search for that word.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "settings file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&g.noEnv, "no-env", false, "ignore WORDLENS_* environment variables")

	root.AddCommand(
		newRunCmd(g),
		newCheckCmd(g),
		newClassifyCmd(g),
		newLocateCmd(),
		newSettingsCmd(g),
		newVersionCmd(),
	)
	return root
}

// newConfig builds the layered settings for the command line.
func (g *globalFlags) newConfig(overrides map[string]any, opts ...config.Option) *config.Config {
	path := g.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	opts = append([]config.Option{config.WithPath(path), config.WithOverrides(overrides)}, opts...)
	if g.noEnv {
		opts = append(opts, config.WithEnvPrefix(""))
	}
	return config.New(opts...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "wordlens %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
