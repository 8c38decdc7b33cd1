package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/viashmerge/internal/engine"
)

var (
	watchRoot   string
	watchFormat string
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-resolve a config whenever its sources change",
	Long: `Resolve a config like "resolve", then keep watching the config and every file
it was merged from. Each time one of them changes and the composed document
differs, it is printed again. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		req := &engine.WatchRequest{ResolveRequest: engine.ResolveRequest{
			CWD:     workingDir(),
			Path:    args[0],
			RootDir: watchRoot,
			Format:  watchFormat,
		}}
		return eng.Watch(ctx, req, printWatchEvent(cmd))
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchRoot, "root", "", "Package root for \"/\" specifiers (default: nearest package)")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "yaml", "Output format (yaml or json)")
}

// printWatchEvent renders each watch event on the command's streams.
func printWatchEvent(cmd *cobra.Command) func(engine.WatchEvent) {
	return func(ev engine.WatchEvent) {
		if ev.Err != nil {
			PrintError(cmd.ErrOrStderr(), ev.Err.Error())
			return
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			_ = outputJSON(out, newResolveOutput(ev.Result))
			return
		}
		PrintInfo(out, "---")
		_, _ = out.Write(ev.Result.Output)
	}
}
