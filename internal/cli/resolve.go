package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/viashmerge/internal/engine"
	"github.com/danieljhkim/viashmerge/internal/merge"
	"github.com/danieljhkim/viashmerge/internal/value"
)

var (
	resolveRoot   string
	resolveFormat string
	resolveReport bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Print a config with all merge directives resolved",
	Long: `Read a YAML (or JSON with comments) config, resolve every __merge__ directive
in it and print the composed document.

Specifiers starting with "/" are resolved against the package root: the nearest
directory above the file holding a _viash.yaml, unless --root is given. Sources
that cannot be found, read or parsed are skipped; use --report to list them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()

		result, err := eng.Resolve(cmd.Context(), &engine.ResolveRequest{
			CWD:     workingDir(),
			Path:    args[0],
			RootDir: resolveRoot,
			Format:  resolveFormat,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), newResolveOutput(result))
		}

		if _, err := cmd.OutOrStdout().Write(result.Output); err != nil {
			return err
		}
		if resolveReport {
			printReport(cmd.ErrOrStderr(), result)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveRoot, "root", "", "Package root for \"/\" specifiers (default: nearest package)")
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "yaml", "Output format (yaml or json)")
	resolveCmd.Flags().BoolVar(&resolveReport, "report", false, "List merge sources on stderr")
}

// resolveOutput is the --json rendering of a resolution.
type resolveOutput struct {
	*engine.ResolveResult
	Document any `json:"document"`
}

func newResolveOutput(result *engine.ResolveResult) resolveOutput {
	return resolveOutput{
		ResolveResult: result,
		Document:      value.ToAny(result.Document),
	}
}

// printReport lists the sources of a resolution.
func printReport(w io.Writer, result *engine.ResolveResult) {
	PrintInfo(w, "")
	PrintLabelValue(w, "Root", result.Root)
	PrintLabelValue(w, "Sources", PrintCount(len(result.Sources), "file", "files"))
	PrintList(w, result.Sources, 2)
	if len(result.Skipped) == 0 {
		return
	}
	PrintLabelValue(w, "Skipped", PrintCount(len(result.Skipped), "source", "sources"))
	for _, o := range result.Skipped {
		PrintWarning(w, describeSkip(o))
	}
}

func describeSkip(o merge.Outcome) string {
	if err := o.AsError(); err != nil {
		return err.Error()
	}
	return o.Reason.String()
}
