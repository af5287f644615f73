package l3_service

import (
	"context"
	"fmt"

	"momentumlab/internal/data"
	"momentumlab/internal/domain"
	"momentumlab/internal/logger"
	l1_service "momentumlab/internal/service/l1"
	l2_service "momentumlab/internal/service/l2"
)

// SimulationService runs every configured variant over the monthly
// rebalance calendar in a single pass
type SimulationService interface {
	Run(ctx context.Context, in RunSimulationInput) (*domain.SimulationResult, error)
}

type RunSimulationInput struct {
	MomentumPeriod     int
	MomentumTopN       int
	DefensiveTopN      int
	DefensiveTopNSmall int
	CostRate           float64
	Targets            domain.TargetProfile
	RebalanceOffset    int

	// defaults to domain.DefaultStrategies()
	Strategies []domain.StrategyConfig
}

type simulationServiceHandler struct {
	Prices           data.PriceReader
	Universes        data.Universes
	RegimeService    l1_service.RegimeService
	SelectionService l2_service.SelectionService
	VolScaleService  l2_service.VolScaleService
}

func NewSimulationService(
	prices data.PriceReader,
	universes data.Universes,
	regimeService l1_service.RegimeService,
	selectionService l2_service.SelectionService,
	volScaleService l2_service.VolScaleService,
) SimulationService {
	return simulationServiceHandler{
		Prices:           prices,
		Universes:        universes,
		RegimeService:    regimeService,
		SelectionService: selectionService,
		VolScaleService:  volScaleService,
	}
}

// strategyState is owned by exactly one variant
type strategyState struct {
	config      domain.StrategyConfig
	prevWeights domain.Weights
	result      domain.StrategyResult
	equity      float64
}

func newStrategyState(c domain.StrategyConfig) *strategyState {
	r := domain.StrategyResult{
		Name:       c.Name,
		Returns:    []float64{},
		Cumulative: []float64{},
		Turnovers:  []float64{},
		Labels:     []string{},
		Regimes:    []domain.Regime{},
	}
	if c.VolScaled {
		r.Scales = []float64{}
	}
	return &strategyState{
		config:      c,
		prevWeights: domain.Weights{},
		result:      r,
		equity:      1,
	}
}

func (s *strategyState) record(ret, turnover float64, label string, regime domain.Regime) {
	s.equity *= 1 + ret
	s.result.Returns = append(s.result.Returns, ret)
	s.result.Cumulative = append(s.result.Cumulative, s.equity)
	s.result.Turnovers = append(s.result.Turnovers, turnover)
	s.result.Labels = append(s.result.Labels, label)
	s.result.Regimes = append(s.result.Regimes, regime)
}

func (h simulationServiceHandler) Run(ctx context.Context, in RunSimulationInput) (*domain.SimulationResult, error) {
	log := logger.FromContext(ctx)
	_, endSpan := domain.GetProfile(ctx).StartSpan(fmt.Sprintf("simulation offset=%d period=%d topN=%d", in.RebalanceOffset, in.MomentumPeriod, in.MomentumTopN))
	defer endSpan()

	if in.MomentumPeriod <= 0 {
		return nil, fmt.Errorf("momentum period must be positive, got %d", in.MomentumPeriod)
	}

	strategies := in.Strategies
	if len(strategies) == 0 {
		strategies = domain.DefaultStrategies()
	}

	states := make([]*strategyState, 0, len(strategies))
	for _, c := range strategies {
		states = append(states, newStrategyState(c))
	}

	periods := data.BuildRebalancePeriods(h.Prices.Dates(), in.RebalanceOffset)
	out := &domain.SimulationResult{
		Months:     []string{},
		Regimes:    []domain.Regime{},
		Order:      []string{},
		Strategies: map[string]domain.StrategyResult{},
	}

	for _, period := range periods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		selectionIdx := period.SelectionIndex()
		if selectionIdx < in.MomentumPeriod {
			continue
		}

		regime := h.RegimeService.Classify(selectionIdx)
		out.Months = append(out.Months, period.Label)
		out.Regimes = append(out.Regimes, regime)

		selections, err := h.selectAll(in, selectionIdx)
		if err != nil {
			return nil, fmt.Errorf("failed to select portfolios for %s: %w", period.Label, err)
		}

		for _, state := range states {
			if state.config.Benchmark {
				ret, ok := h.benchmarkReturn(period)
				if !ok {
					continue
				}
				state.record(ret, 0, period.Label, regime)
				continue
			}

			selection := selections[state.config.SelectionFor(regime)]
			if selection.Empty() {
				continue
			}

			periodReturn := l2_service.NetReturn(
				h.Prices,
				selection,
				period.StartIndex,
				period.EndIndex,
				state.prevWeights,
				in.CostRate,
			)
			ret := periodReturn.Net
			if state.config.VolScaled {
				scale, _ := h.VolScaleService.ScaleFactor(selection, selectionIdx, in.Targets.Target(state.config.Target))
				ret *= scale
				state.result.Scales = append(state.result.Scales, scale)
			}

			state.record(ret, periodReturn.Turnover, period.Label, regime)
			state.prevWeights = selection.Weights.Copy()
		}
	}

	for _, state := range states {
		out.Order = append(out.Order, state.config.Name)
		out.Strategies[state.config.Name] = state.result
	}

	log.Debugf("simulated %d periods across %d strategies (offset=%d, period=%d)", len(out.Months), len(states), in.RebalanceOffset, in.MomentumPeriod)

	return out, nil
}

// selectAll computes the shared base selections once for the period
func (h simulationServiceHandler) selectAll(in RunSimulationInput, idx int) (map[domain.BaseSelection]domain.SelectionResult, error) {
	type job struct {
		key      domain.BaseSelection
		universe []string
		topN     int
	}
	jobs := []job{
		{domain.SelectionMomentumA, h.Universes.MomentumA, in.MomentumTopN},
		{domain.SelectionMomentumB, h.Universes.MomentumB, in.MomentumTopN},
		{domain.SelectionDefensive5, h.Universes.Defensive, in.DefensiveTopN},
		{domain.SelectionDefensive3, h.Universes.Defensive, in.DefensiveTopNSmall},
	}

	out := make(map[domain.BaseSelection]domain.SelectionResult, len(jobs))
	for _, j := range jobs {
		selection := h.SelectionService.SelectTopN(l2_service.SelectTopNInput{
			Universe:       j.universe,
			Index:          idx,
			TopN:           j.topN,
			MomentumPeriod: in.MomentumPeriod,
		})
		if err := selection.Validate(j.topN); err != nil {
			return nil, fmt.Errorf("invalid %s selection: %w", j.key, err)
		}
		out[j.key] = selection
	}
	return out, nil
}

func (h simulationServiceHandler) benchmarkReturn(period domain.RebalancePeriod) (float64, bool) {
	start, ok := h.Prices.Price(h.Universes.Benchmark, period.StartIndex)
	if !ok || start <= 0 {
		return 0, false
	}
	end, ok := h.Prices.Price(h.Universes.Benchmark, period.EndIndex)
	if !ok {
		return 0, false
	}
	return end/start - 1, true
}
