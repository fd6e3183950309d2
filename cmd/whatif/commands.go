package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/blob"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/export"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/infra/persistence/postgres"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/infra/persistence/sqlite"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/seed"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

var (
	undoSteps     int
	stackIDs      []string
	publish       bool
	publishPrefix string
	importDriver  string
	importTarget  string
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List catalog scenarios",
	Args:  cobra.NoArgs,
	RunE:  runScenarios,
}

var previewCmd = &cobra.Command{
	Use:   "preview <scenario>",
	Short: "Show the metrics a scenario would produce without committing it",
	Example: `  whatif preview sponsor-exit --seed club.yaml
  whatif preview keeper-injury --after promote-u16-captains`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

var applyCmd = &cobra.Command{
	Use:   "apply <scenario>...",
	Short: "Apply scenarios in order and print the resulting metrics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runApply,
}

var exportCmd = &cobra.Command{
	Use:   "export [scenario]...",
	Short: "Apply scenarios and export the session as CSV",
	RunE:  runExport,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Manage seed sources",
}

var seedImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Copy a YAML/JSON seed file into a SQLite or Postgres seed table",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeedImport,
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func runScenarios(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	svc, err := newService(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRISK\tTARGET\tNAME")
	for _, sc := range svc.ListScenarios() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sc.ID(), sc.Risk(), sc.Selector(), sc.Name())
	}
	return w.Flush()
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	svc, h, err := openSession(ctx, cmd.ErrOrStderr(), stackIDs)
	if err != nil {
		return err
	}
	sc, err := findScenario(svc, args[0])
	if err != nil {
		return err
	}
	m, err := svc.PreviewScenario(ctx, h, sc)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), m)
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	svc, h, err := openSession(ctx, cmd.ErrOrStderr(), args)
	if err != nil {
		return err
	}
	for i := 0; i < undoSteps; i++ {
		if !svc.Undo(ctx, h) {
			return fmt.Errorf("nothing left to undo after %d step(s)", i)
		}
	}
	m, err := svc.GetDerivedMetrics(ctx, h)
	if err != nil {
		return err
	}
	stack := make([]string, 0, len(h.Stack()))
	for _, a := range h.Stack() {
		stack = append(stack, a.Scenario.ID())
	}
	return writeJSON(cmd.OutOrStdout(), struct {
		Stack   []string              `json:"stack"`
		Metrics domain.DerivedMetrics `json:"metrics"`
	}{Stack: stack, Metrics: m})
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	svc, h, err := openSession(ctx, cmd.ErrOrStderr(), args)
	if err != nil {
		return err
	}
	rows, err := svc.ExportTable(ctx, h)
	if err != nil {
		return err
	}
	if !publish {
		return export.EncodeCSV(cmd.OutOrStdout(), rows)
	}
	store, err := blob.Open(ctx)
	if err != nil {
		return err
	}
	info, err := export.NewPublisher(store, publishPrefix).Publish(ctx, h.ID(), rows)
	if err != nil {
		return err
	}
	logger.Info("export published", zap.String("key", info.Key), zap.String("driver", string(store.Driver())))
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d\n", store.Driver(), info.Key, info.Size)
	return nil
}

func runSeedImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	var dst domain.SeedWriter
	switch strings.ToLower(importDriver) {
	case string(seed.DriverSQLite):
		target := importTarget
		if target == "" {
			target = os.Getenv(seed.EnvSQLitePath)
		}
		store, err := sqlite.Open(ctx, target)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		dst = store
	case string(seed.DriverPostgres):
		target := importTarget
		if target == "" {
			target = os.Getenv(seed.EnvPostgresDSN)
		}
		store, err := postgres.Open(ctx, target)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		dst = store
	default:
		return fmt.Errorf("unsupported import driver %q", importDriver)
	}

	n, err := seed.Copy(ctx, dst, seed.NewFileSource(args[0]))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d entities\n", n)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
