package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/viashmerge/internal/engine"
)

var packagesVersions bool

var packagesCmd = &cobra.Command{
	Use:   "packages [dir]",
	Short: "List viash packages below a directory",
	Long: `Find every package descriptor (_viash.yaml) below a directory, resolve its
merge directives and show the package name and pinned viash version.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()

		req := &engine.PackagesRequest{CWD: workingDir()}
		if len(args) == 1 {
			req.Dir = args[0]
		}

		result, err := eng.ListPackages(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			if packagesVersions {
				return outputJSON(out, result.Versions)
			}
			return outputJSON(out, result)
		}

		if packagesVersions {
			if len(result.Versions) == 0 {
				PrintEmptyState(out, "No viash versions pinned")
				return nil
			}
			PrintList(out, result.Versions, 0)
			return nil
		}

		if len(result.Packages) == 0 {
			PrintEmptyState(out, "No packages found")
			return nil
		}

		rows := make([][]string, 0, len(result.Packages))
		for _, p := range result.Packages {
			rows = append(rows, []string{orDash(p.Name), orDash(p.ViashVersion), p.ConfigPath})
		}
		PrintTable(out, []string{"NAME", "VIASH", "CONFIG"}, rows)
		return nil
	},
}

func init() {
	packagesCmd.Flags().BoolVar(&packagesVersions, "versions", false, "Only print the distinct viash versions, newest first")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
