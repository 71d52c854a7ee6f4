package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/wordlens/internal/config"
	"github.com/dshills/wordlens/internal/document"
	"github.com/dshills/wordlens/internal/geom"
	"github.com/dshills/wordlens/internal/locate"
	"github.com/dshills/wordlens/internal/word"
)

// errInvalidSettings is returned by check after the problems are printed.
var errInvalidSettings = errors.New("settings have invalid values")

func newCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the settings file and environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := g.newConfig(nil)
			out := cmd.OutOrStdout()

			err := cfg.Check()
			var joined interface{ Unwrap() []error }
			switch {
			case err == nil:
				fmt.Fprintf(out, "%s: ok\n", cfg.Path())
				return nil
			case !errors.Is(err, config.ErrValidationFailed):
				return err
			case errors.As(err, &joined):
				for _, e := range joined.Unwrap() {
					fmt.Fprintf(out, "%s: %v\n", cfg.Path(), e)
				}
			default:
				fmt.Fprintf(out, "%s: %v\n", cfg.Path(), err)
			}
			return errInvalidSettings
		},
	}
}

func newClassifyCmd(g *globalFlags) *cobra.Command {
	var rules string
	cmd := &cobra.Command{
		Use:   "classify <word>...",
		Short: "Show whether candidates count as words",
		Example: `  wordlens classify otter 1234 http aaaa
  wordlens classify --rules stop.lua lorem ipsum`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("rules") {
				if s, err := g.newConfig(nil).Load(); err == nil {
					rules = s.Rules.Script
				}
			}
			c, closeRules, err := classifier(rules)
			if err != nil {
				return err
			}
			defer closeRules()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, candidate := range args {
				verdict, rule := c.Explain(candidate)
				if rule == "" {
					rule = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", candidate, verdict, rule)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&rules, "rules", "", "Lua classifier rule script")
	return cmd
}

// classifier returns the built-in rules extended by the script at path.
func classifier(path string) (*word.Classifier, func(), error) {
	if path == "" {
		return word.Default(), func() {}, nil
	}
	lr, err := word.LoadLuaRulesFile(path)
	if err != nil {
		return nil, nil, err
	}
	return word.Default().WithRules(lr.Rules()...), lr.Close, nil
}

func newLocateCmd() *cobra.Command {
	var (
		width, height, tabWidth int
		rules                   string
	)
	cmd := &cobra.Command{
		Use:   "locate <page.html> <x> <y>",
		Short: "Print the word at a cell of the laid out page",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid x %q: %w", args[1], err)
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid y %q: %w", args[2], err)
			}
			doc, err := document.LoadFile(args[0],
				document.WithViewport(width, height),
				document.WithTabWidth(tabWidth))
			if err != nil {
				return err
			}
			c, closeRules, err := classifier(rules)
			if err != nil {
				return err
			}
			defer closeRules()

			span, outcome := locate.New(doc, locate.WithClassifier(c)).Locate(geom.Pt(float64(x), float64(y)))
			out := cmd.OutOrStdout()
			if outcome != locate.Found {
				fmt.Fprintf(out, "%d,%d: %s\n", x, y, outcome)
				return nil
			}
			rect, _ := doc.RangeRect(span.Range())
			fmt.Fprintf(out, "%d,%d: %s %v\n", x, y, span.Text, rect)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "layout width in cells")
	cmd.Flags().IntVar(&height, "height", 24, "viewport height in cells")
	cmd.Flags().IntVar(&tabWidth, "tab-width", 8, "tab stop width")
	cmd.Flags().StringVar(&rules, "rules", "", "Lua classifier rule script")
	return cmd
}

func newSettingsCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Exchange settings with the browser extension",
	}
	cmd.AddCommand(newSettingsImportCmd(g), newSettingsExportCmd(g), newSettingsShowCmd(g))
	return cmd
}

func newSettingsImportCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <storage.json>",
		Short: "Merge an extension storage dump into the settings file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			cfg := g.newConfig(nil, config.WithEnvPrefix(""))
			base, err := cfg.Load()
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			s, err := config.ImportStorage(base, data)
			if err != nil {
				return err
			}
			if err := cfg.Save(s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s into %s\n", filepath.Base(args[0]), cfg.Path())
			return nil
		},
	}
}

func newSettingsExportCmd(g *globalFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the settings as an extension storage dump",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.newConfig(nil).Load()
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			data, err := config.ExportStorage(s)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func newSettingsShowCmd(g *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.newConfig(nil).Load()
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			data, err := config.Encode(s, "."+format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "output format (toml, yaml)")
	return cmd
}
