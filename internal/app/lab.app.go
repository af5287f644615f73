package app

import (
	"context"
	"fmt"
	"time"

	"momentumlab/internal/config"
	"momentumlab/internal/data"
	"momentumlab/internal/domain"
	"momentumlab/internal/logger"
	"momentumlab/internal/report"
	"momentumlab/internal/robustness"
	l1_service "momentumlab/internal/service/l1"
	l2_service "momentumlab/internal/service/l2"
	l3_service "momentumlab/internal/service/l3"

	"github.com/google/uuid"
)

// LabHandler runs one full backtest: load prices, simulate every variant,
// run the robustness battery and assemble the report
type LabHandler struct {
	Config *config.Config
	Loader data.PriceLoader
}

// Overrides replace configured parameters for a single run. Nil fields
// keep the configured value.
type Overrides struct {
	MomentumPeriod  *int     `json:"momentum_period"`
	MomentumTopN    *int     `json:"momentum_top_n"`
	TransactionCost *float64 `json:"transaction_cost"`
	WeightCap       *float64 `json:"weight_cap"`
	CapMode         *string  `json:"cap_mode"`
}

type RunInput struct {
	// empty runs the whole battery
	Tests       []string
	SkipBattery bool
	Overrides   Overrides
}

type RunOutput struct {
	Report  map[string]any
	Primary *domain.SimulationResult
	Battery *robustness.BatteryResult
}

func (o Overrides) apply(cfg config.Config) (*config.Config, error) {
	if o.MomentumPeriod != nil {
		cfg.Strategy.MomentumPeriod = *o.MomentumPeriod
	}
	if o.MomentumTopN != nil {
		cfg.Strategy.MomentumTopN = *o.MomentumTopN
	}
	if o.TransactionCost != nil {
		cfg.Strategy.TransactionCost = *o.TransactionCost
	}
	if o.WeightCap != nil {
		cfg.Strategy.WeightCap = *o.WeightCap
	}
	if o.CapMode != nil {
		cfg.Strategy.CapMode = *o.CapMode
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid overrides: %w", err)
	}
	return &cfg, nil
}

func (h LabHandler) Run(ctx context.Context, in RunInput) (*RunOutput, error) {
	log := logger.FromContext(ctx)
	profile, endProfile := domain.NewProfile()
	ctx = context.WithValue(ctx, domain.ContextProfileKey, profile)

	cfg, err := in.Overrides.apply(*h.Config)
	if err != nil {
		return nil, err
	}

	_, endSpan := profile.StartSpan("load prices")
	store, err := data.LoadPriceStore(ctx, h.Loader)
	endSpan()
	if err != nil {
		return nil, err
	}
	log.Infof("loaded %d symbols over %d trading days", len(store.Symbols()), store.Len())

	universes, dropped, err := data.ResolveUniverses(store, data.ResolveUniversesInput{
		MomentumA: cfg.Universe.MomentumA,
		MomentumB: cfg.Universe.MomentumB,
		Defensive: cfg.Universe.Defensive,
		Benchmark: cfg.Universe.Benchmark,
		Strict:    cfg.Universe.Strict,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve universes: %w", err)
	}
	if len(dropped) > 0 {
		log.Warnf("dropped %d symbols without price data: %v", len(dropped), dropped)
	}

	simulation, err := newSimulationService(cfg, store, *universes)
	if err != nil {
		return nil, err
	}

	_, endSpan = profile.StartSpan("primary simulation")
	primary, err := simulation.Run(ctx, primaryInput(cfg))
	endSpan()
	if err != nil {
		return nil, fmt.Errorf("failed to run primary simulation: %w", err)
	}
	log.Infof("primary simulation covered %d periods", len(primary.Months))

	var battery *robustness.BatteryResult
	if !in.SkipBattery {
		batteryService := robustness.NewBatteryService(simulation, robustnessInput(cfg), batteryOptions(cfg))
		battery, err = batteryService.Run(ctx, robustness.RunBatteryInput{
			Primary: primary,
			Tests:   in.Tests,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to run robustness battery: %w", err)
		}
		log.Infof("robustness battery finished: %d results, %d errors", len(battery.Results), len(battery.Errors))
	}

	endProfile()
	out, err := report.Assemble(report.AssembleInput{
		RunID:             uuid.NewString(),
		GeneratedAt:       time.Now(),
		Parameters:        parameters(cfg),
		PrimaryTargets:    cfg.PrimaryTargets(),
		RobustnessTargets: cfg.RobustnessTargets(),
		Primary:           primary,
		CostRate:          cfg.Strategy.TransactionCost,
		Battery:           battery,
		Crises:            toWindows(cfg.Robustness.Crises),
		Timings:           profile.Snapshot(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble report: %w", err)
	}

	return &RunOutput{
		Report:  out,
		Primary: primary,
		Battery: battery,
	}, nil
}

func newSimulationService(cfg *config.Config, store *data.PriceStore, universes data.Universes) (l3_service.SimulationService, error) {
	selection, err := selectionOptions(cfg)
	if err != nil {
		return nil, err
	}
	priceService := l1_service.NewPriceService(store, volatilityOptions(cfg))
	return l3_service.NewSimulationService(
		store,
		universes,
		l1_service.NewRegimeService(store, regimeOptions(cfg)),
		l2_service.NewSelectionService(priceService, selection),
		l2_service.NewVolScaleService(store, volScaleOptions(cfg)),
	), nil
}
