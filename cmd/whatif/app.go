package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/catalog"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/core"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/logging"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/metrics"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/seed"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/plugins/finance"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/plugins/talent"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

func builtinPlugins() []core.Plugin {
	return []core.Plugin{finance.New(), talent.New()}
}

// newService wires the service from global flags: logger, tracer, packs and extra catalogs.
func newService(ctx context.Context, stderr io.Writer) (*core.Service, error) {
	cfg := metrics.DefaultConfig()
	cfg.StartingBalance = startingBalance
	opts := []core.Option{
		core.WithLogger(logging.New(logger)),
		core.WithMetricsConfig(cfg),
	}
	if traceOutput {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(stderr)))
	}
	svc := core.NewService(opts...)

	skip := make(map[string]bool, len(disablePlugins))
	for _, name := range disablePlugins {
		skip[name] = true
	}
	for _, p := range builtinPlugins() {
		if skip[p.Name()] {
			continue
		}
		if _, err := svc.InstallPlugin(p); err != nil {
			return nil, err
		}
	}

	for _, path := range catalogPaths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defs, err := catalog.Decode(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
		for _, def := range defs {
			if _, err := svc.AddScenario(ctx, def); err != nil {
				return nil, fmt.Errorf("catalog %s: %w", path, err)
			}
		}
	}
	return svc, nil
}

func loadSeed(ctx context.Context) ([]domain.Entity, error) {
	var src seed.Source
	if seedPath != "" {
		src = seed.NewFileSource(seedPath)
	} else {
		var err error
		if src, err = seed.Open(ctx); err != nil {
			return nil, err
		}
	}
	defer func() { _ = seed.Close(src) }()
	return src.Load(ctx)
}

// openSession builds the service, seeds a session and applies ids in order.
func openSession(ctx context.Context, stderr io.Writer, ids []string) (*core.Service, *core.Session, error) {
	svc, err := newService(ctx, stderr)
	if err != nil {
		return nil, nil, err
	}
	entities, err := loadSeed(ctx)
	if err != nil {
		return nil, nil, err
	}
	h, err := svc.CreateStore(ctx, entities)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		sc, err := findScenario(svc, id)
		if err != nil {
			return nil, nil, err
		}
		if _, err := svc.ApplyScenario(ctx, h, sc); err != nil {
			return nil, nil, err
		}
	}
	return svc, h, nil
}

func findScenario(svc *core.Service, id string) (domain.Scenario, error) {
	sc, ok := svc.FindScenario(id)
	if !ok {
		return domain.Scenario{}, domain.ErrNotFound{ID: id}
	}
	return sc, nil
}
