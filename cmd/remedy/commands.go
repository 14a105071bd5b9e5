package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/remedy/internal/errdoc"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/sanitize"
)

// maxInputSize bounds error documents and source files read by the CLI.
const maxInputSize = 4 * 1024 * 1024

type rootOptions struct {
	setupOptions
	json bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var a *app

	root := &cobra.Command{
		Use:   "remedy",
		Short: "Classify errors and propose fixes",
		Long: `remedy classifies structured errors, extracts their parameters and proposes
confidence-scored fixes. Fixes are only proposed, never applied.

Errors are read as YAML or JSON error documents from a file or stdin:

  kind: not_found
  fields:
    resource_type: file
    identifier: /tmp/config.json`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = newApp(cmd.Context(), opts.setupOptions)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/remedy/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (trace, debug, info, warn, error)")
	flags.BoolVar(&opts.json, "json", false, "print JSON output")

	appFn := func() *app { return a }
	root.AddCommand(
		newClassifyCmd(opts, appFn),
		newExtractCmd(opts, appFn),
		newSuggestCmd(opts, appFn),
		newGeneratorsCmd(opts, appFn),
		newTemplatesCmd(opts, appFn),
	)
	return root
}

func newClassifyCmd(opts *rootOptions, appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file]",
		Short: "Print the category of an error document",
		Long: `Print the category of an error document.

Examples:
  remedy classify error.yaml
  cat error.json | remedy classify -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ferr, err := readFault(cmd, args)
			if err != nil {
				return err
			}
			category := appFn().engine.Classify(ferr)
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"category": category.String(),
					"error":    ferr.Error(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), category)
			return nil
		},
	}
}

type extractOutput struct {
	Category   string            `json:"category"`
	Source     string            `json:"source"`
	Confidence float64           `json:"confidence"`
	Parameters map[string]string `json:"parameters"`
}

func newExtractCmd(opts *rootOptions, appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file]",
		Short: "Print the merged parameters extracted from an error document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ferr, err := readFault(cmd, args)
			if err != nil {
				return err
			}
			eng := appFn().engine
			params := eng.ExtractParameters(ferr)

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), extractOutput{
					Category:   eng.Classify(ferr).String(),
					Source:     params.Source().String(),
					Confidence: params.Confidence(),
					Parameters: params.Values(),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "category:   %s\n", eng.Classify(ferr))
			fmt.Fprintf(out, "source:     %s\n", params.Source())
			fmt.Fprintf(out, "confidence: %.2f\n", params.Confidence())
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, k := range params.Keys() {
				fmt.Fprintf(w, "  %s\t%s\n", k, sanitize.Line(params.Value(k)))
			}
			return w.Flush()
		},
	}
}

func newSuggestCmd(opts *rootOptions, appFn func() *app) *cobra.Command {
	var sourcePath string

	cmd := &cobra.Command{
		Use:   "suggest [file]",
		Short: "Propose a fix for an error document",
		Long: `Propose a fix for an error document. With --source, the file the error points
into is used to locate the offending line and preview the edit.

Examples:
  remedy suggest error.yaml
  remedy suggest --source src/main.rs lint.yaml
  remedy suggest --json - < error.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ferr, err := readFault(cmd, args)
			if err != nil {
				return err
			}
			var source string
			if sourcePath != "" {
				data, err := readLimited(sourcePath)
				if err != nil {
					return fmt.Errorf("failed to read source %s: %w", sourcePath, err)
				}
				source = string(data)
			}

			proposal := appFn().engine.Suggest(cmd.Context(), ferr, source)
			out := cmd.OutOrStdout()
			if opts.json {
				if proposal == nil {
					return writeJSON(out, map[string]any{"matched": false})
				}
				return writeJSON(out, proposal)
			}
			if proposal == nil {
				fmt.Fprintln(out, "no remediation available")
				return nil
			}
			fmt.Fprintln(out, proposal)
			return nil
		},
	}
	cmd.Flags().StringVar(&sourcePath, "source", "", "source file the error refers to")
	return cmd
}

func newGeneratorsCmd(opts *rootOptions, appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generators",
		Short: "List fix generators in dispatch order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng := appFn().engine
			cfg := eng.Config()
			names := eng.GeneratorNames()

			if opts.json {
				type entry struct {
					Name     string `json:"name"`
					Disabled bool   `json:"disabled"`
				}
				entries := make([]entry, len(names))
				for i, n := range names {
					entries[i] = entry{Name: n, Disabled: cfg.GeneratorDisabled(n)}
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			for _, n := range names {
				if cfg.GeneratorDisabled(n) {
					n += " (disabled)"
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newTemplatesCmd(opts *rootOptions, appFn func() *app) *cobra.Command {
	templates := &cobra.Command{
		Use:   "templates",
		Short: "Inspect fix templates",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered fix templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all := appFn().engine.Templates()
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), all)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCATEGORIES\tCODES\tTYPE")
			for _, t := range all {
				cats := make([]string, len(t.Categories))
				for i, c := range t.Categories {
					cats[i] = c.String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Name, orDash(strings.Join(cats, ",")),
					orDash(strings.Join(t.Codes, ",")), t.Type.Key())
			}
			return w.Flush()
		},
	}

	templates.AddCommand(list)
	return templates
}

// readFault decodes the error document named by args, or stdin for none
// or "-".
func readFault(cmd *cobra.Command, args []string) (faults.Error, error) {
	if len(args) == 0 || args[0] == "-" {
		ferr, err := errdoc.Decode(io.LimitReader(cmd.InOrStdin(), maxInputSize))
		if err != nil {
			return nil, fmt.Errorf("failed to decode stdin: %w", err)
		}
		return ferr, nil
	}

	data, err := readLimited(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	ferr, err := errdoc.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", args[0], err)
	}
	return ferr, nil
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxInputSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxInputSize {
		return nil, fmt.Errorf("file larger than %d bytes", maxInputSize)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
