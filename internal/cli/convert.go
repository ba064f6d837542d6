package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbench/pkg/compare"
	"github.com/matzehuels/flowbench/pkg/convert"
	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/flowchart"
)

// convertCommand prints one example converted to a source format.
func (c *CLI) convertCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "convert <examples.json> <id>",
		Short: "Print one example as DOT, D2, GraphML or ELK JSON",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 1 {
				return nil, cobra.ShellCompDirectiveDefault
			}
			set, err := flowchart.LoadExamples(args[0])
			if err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return set.IDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			g, err := loadGraph(args[0], args[1])
			if err != nil {
				return err
			}
			out, err := convert.Convert(convert.Format(format), g, convertOptions(cfg))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	formats := make([]string, len(convert.Formats))
	for i, f := range convert.Formats {
		formats[i] = string(f)
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(convert.FormatDOT), "output format: "+strings.Join(formats, ", "))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

// loadGraph returns the validated example id, matched case-insensitively.
func loadGraph(path, id string) (*flowchart.Graph, error) {
	set, err := flowchart.LoadExamples(path)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateGraphID(id); err != nil {
		return nil, err
	}
	entry, ok := set.Find(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNoMatchingExample, "no example %q in %s", id, path)
	}
	if entry.Err != nil {
		return nil, entry.Err
	}
	if err := flowchart.Validate(entry.Graph); err != nil {
		return nil, err
	}
	return entry.Graph, nil
}

// validateCommand checks every example without rendering.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [examples.json]",
		Short: "Check every example for structural errors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			path := cfg.Examples
			if len(args) > 0 {
				path = args[0]
			}
			set, err := flowchart.LoadExamples(path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			failed := 0
			for _, e := range set.Entries {
				err := e.Err
				if err == nil {
					err = flowchart.Validate(e.Graph)
				}
				if err != nil {
					failed++
					printError(w, "%s: %s", e.ID, errors.UserMessage(err))
					printDetail(w, "%s", errors.GetCode(err))
					continue
				}
				printSuccess(w, "%s %s", e.ID, StyleDim.Render(fmt.Sprintf("(%d nodes, %d edges)", e.Graph.NodeCount(), e.Graph.EdgeCount())))
			}

			fmt.Fprintln(w)
			if failed > 0 {
				return fmt.Errorf("%d of %d examples invalid", failed, set.Len())
			}
			printSuccess(w, "%d examples valid", set.Len())
			return nil
		},
	}
}

// casesCommand rewrites the viewer's testCases from a reference directory.
func (c *CLI) casesCommand() *cobra.Command {
	var viewerConfig string

	cmd := &cobra.Command{
		Use:   "cases [dir]",
		Short: "Rewrite the viewer config's testCases from *.svg file names",
		Long: `Rewrite the comparison viewer's config.json testCases from the *.svg
files in dir (default: the reference directory <output>/current). Each case gets a
display name built from its id, e.g. "loanApproval-v2" becomes
"loan Approval v2". Other keys in config.json are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.CasesFrom
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				dir = defaultCasesDir(cfg.Output)
			}
			if viewerConfig != "" {
				cfg.ViewerConfig = viewerConfig
			}

			ids, err := compare.DiscoverCases(dir)
			if err != nil {
				return err
			}
			if err := compare.WriteCaseConfig(cfg.ViewerConfig, ids); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printSuccess(w, "Wrote %d test cases", len(ids))
			printFile(w, cfg.ViewerConfig)
			return nil
		},
	}
	cmd.Flags().StringVar(&viewerConfig, "viewer-config", "", "viewer config to update (default: config.json)")
	return cmd
}
