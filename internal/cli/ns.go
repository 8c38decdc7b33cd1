package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/viashmerge/internal/engine"
)

var nsCmd = &cobra.Command{
	Use:   "ns",
	Short: "Inspect package namespaces",
	Long:  `Commands for inspecting the components of viash packages.`,
}

var nsListCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List components with their full names",
	Long: `List every component config (*.vsh.yaml) of the package enclosing a directory,
or of every package below it. Configs are composed before their name and
namespace are read. Full names have the form package/namespace/name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()

		req := &engine.NamespacesRequest{CWD: workingDir()}
		if len(args) == 1 {
			req.Dir = args[0]
		}

		result, err := eng.ListNamespaces(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result)
		}

		for _, p := range result.Problems {
			PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("%s: %s", p.ConfigPath, p.Message))
		}

		if len(result.Components) == 0 {
			PrintEmptyState(out, "No components found")
			return nil
		}

		rows := make([][]string, 0, len(result.Components))
		for _, c := range result.Components {
			rows = append(rows, []string{c.FullName, c.ConfigPath})
		}
		PrintTable(out, []string{"COMPONENT", "CONFIG"}, rows)
		return nil
	},
}

func init() {
	nsCmd.AddCommand(nsListCmd)
}
