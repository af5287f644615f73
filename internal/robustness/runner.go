package robustness

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"momentumlab/internal/domain"
	"momentumlab/internal/logger"
	l3_service "momentumlab/internal/service/l3"

	"golang.org/x/sync/errgroup"
)

// BatteryService runs the robustness tests against a primary run and a
// re-simulated baseline
type BatteryService interface {
	Run(ctx context.Context, in RunBatteryInput) (*BatteryResult, error)
}

type RunBatteryInput struct {
	Primary *domain.SimulationResult
	// empty runs every test
	Tests []string
}

type BatteryResult struct {
	Baseline *domain.SimulationResult
	Order    []string
	Results  map[string]any
	Errors   map[string]string
}

type batteryServiceHandler struct {
	Simulation l3_service.SimulationService
	Base       l3_service.RunSimulationInput
	Options    Options
}

// NewBatteryService takes the input re-simulation tests start from. It
// should carry the robustness targets rather than the primary ones.
func NewBatteryService(simulation l3_service.SimulationService, base l3_service.RunSimulationInput, opts Options) BatteryService {
	return batteryServiceHandler{
		Simulation: simulation,
		Base:       base,
		Options:    opts,
	}
}

func selectTests(names []string) ([]namedTest, error) {
	all := registry()
	if len(names) == 0 {
		return all, nil
	}
	byName := map[string]namedTest{}
	for _, t := range all {
		byName[t.name] = t
	}
	wanted := map[string]bool{}
	for _, n := range names {
		if _, ok := byName[n]; !ok {
			return nil, fmt.Errorf("unknown robustness test %q", n)
		}
		wanted[n] = true
	}
	out := []namedTest{}
	for _, t := range all {
		if wanted[t.name] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (h batteryServiceHandler) Run(ctx context.Context, in RunBatteryInput) (*BatteryResult, error) {
	log := logger.FromContext(ctx)
	profile := domain.GetProfile(ctx)

	if in.Primary == nil {
		return nil, fmt.Errorf("battery requires a primary simulation result")
	}
	tests, err := selectTests(in.Tests)
	if err != nil {
		return nil, err
	}

	_, endSpan := profile.StartSpan("robustness baseline")
	baseline, err := h.Simulation.Run(ctx, h.Base)
	endSpan()
	if err != nil {
		return nil, fmt.Errorf("failed to simulate robustness baseline: %w", err)
	}

	s := suite{
		opts:       h.Options,
		simulation: h.Simulation,
		base:       h.Base,
		primary:    in.Primary,
		baseline:   baseline,
	}

	out := &BatteryResult{
		Baseline: baseline,
		Order:    []string{},
		Results:  map[string]any{},
		Errors:   map[string]string{},
	}
	mu := sync.Mutex{}

	workers := h.Options.Workers
	if workers <= 0 {
		workers = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for _, t := range tests {
		out.Order = append(out.Order, t.name)
		g.Go(func() error {
			_, endSpan := profile.StartSpan("robustness " + t.name)
			defer endSpan()

			result, err := runSafely(ctx, t, s)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Errorf("robustness test %s failed: %v", t.name, err)
				out.Errors[t.name] = err.Error()
				return nil
			}
			log.Infof("robustness test %s complete", t.name)
			out.Results[t.name] = result
			return nil
		})
	}
	// tests never return errors to the group
	_ = g.Wait()

	return out, nil
}

func runSafely(ctx context.Context, t namedTest, s suite) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Debugf("robustness test %s panicked: %s", t.name, debug.Stack())
			err = fmt.Errorf("panic in %s: %v", t.name, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.run(ctx, s)
}
