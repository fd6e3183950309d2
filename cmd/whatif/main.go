// Command whatif runs boardroom what-if scenarios against a seeded entity set.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/logging"
)

var (
	verbose         bool
	seedPath        string
	catalogPaths    []string
	startingBalance float64
	disablePlugins  []string
	traceOutput     bool
	timeout         time.Duration

	logger   *zap.Logger
	exitFunc = os.Exit
)

var rootCmd = &cobra.Command{
	Use:   "whatif",
	Short: "Stackable what-if scenarios over club finances and rosters",
	Long: `whatif loads a seed entity set, applies catalog scenarios on top of it and
reports the derived boardroom metrics: runway, concentration, role coverage
and the composite health index.

The seed is read from --seed or from WHATIF_SEED_DRIVER / WHATIF_SEED_PATH.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.NewProduction(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&seedPath, "seed", "s", "", "Seed file (YAML or JSON); overrides WHATIF_SEED_* env")
	rootCmd.PersistentFlags().StringSliceVarP(&catalogPaths, "catalog", "c", nil, "Additional scenario catalog files")
	rootCmd.PersistentFlags().Float64Var(&startingBalance, "starting-balance", 0, "Cash balance before the first period")
	rootCmd.PersistentFlags().StringSliceVar(&disablePlugins, "disable-plugin", nil, "Skip a built-in scenario pack by name")
	rootCmd.PersistentFlags().BoolVar(&traceOutput, "trace", false, "Write operation spans as JSON lines to stderr")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")

	applyCmd.Flags().IntVar(&undoSteps, "undo", 0, "Undo this many scenarios after applying")
	previewCmd.Flags().StringSliceVar(&stackIDs, "after", nil, "Scenarios to apply before previewing")
	exportCmd.Flags().BoolVar(&publish, "publish", false, "Store the CSV in the export store instead of printing it")
	exportCmd.Flags().StringVar(&publishPrefix, "prefix", "exports", "Key prefix for published exports")
	seedImportCmd.Flags().StringVar(&importDriver, "to", "sqlite", "Target seed driver: sqlite or postgres")
	seedImportCmd.Flags().StringVar(&importTarget, "target", "", "SQLite path or Postgres DSN (default from env)")

	seedCmd.AddCommand(seedImportCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(seedCmd)
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func main() {
	exitFunc(run(os.Args[1:], os.Stdout, os.Stderr))
}
