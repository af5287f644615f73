package l2_service

import (
	"testing"

	"momentumlab/internal/domain"
	mock_l1_service "momentumlab/internal/service/l1/mocks"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSelectionService_SelectTopN(t *testing.T) {
	t.Run("not enough scorable candidates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceService := mock_l1_service.NewMockPriceService(ctrl)
		priceService.EXPECT().Momentum("A", 200, 126).Return(0.1, true)
		priceService.EXPECT().Momentum("B", 200, 126).Return(0.0, false)

		svc := NewSelectionService(priceService, SelectionOptions{WeightCap: 0.4, CapMode: CapSinglePass})
		result := svc.SelectTopN(SelectTopNInput{
			Universe:       []string{"A", "B"},
			Index:          200,
			TopN:           2,
			MomentumPeriod: 126,
		})
		require.True(t, result.Empty())
	})

	setup := func(t *testing.T, opts SelectionOptions) SelectionService {
		ctrl := gomock.NewController(t)
		priceService := mock_l1_service.NewMockPriceService(ctrl)
		priceService.EXPECT().Momentum("A", 10, 5).Return(0.3, true)
		priceService.EXPECT().Momentum("B", 10, 5).Return(0.1, true)
		priceService.EXPECT().Momentum("C", 10, 5).Return(0.2, true)
		priceService.EXPECT().Momentum("D", 10, 5).Return(0.05, true)
		priceService.EXPECT().Volatility("A", 10).Return(0.1)
		priceService.EXPECT().Volatility("C", 10).Return(0.2)
		priceService.EXPECT().Volatility("B", 10).Return(0.4)
		return NewSelectionService(priceService, opts)
	}
	in := SelectTopNInput{
		Universe:       []string{"A", "B", "C", "D"},
		Index:          10,
		TopN:           3,
		MomentumPeriod: 5,
	}

	t.Run("single pass cap renormalizes once", func(t *testing.T) {
		result := setup(t, SelectionOptions{WeightCap: 0.4, CapMode: CapSinglePass}).SelectTopN(in)
		require.NoError(t, result.Validate(3))
		require.Equal(t, "", cmp.Diff([]string{"A", "C", "B"}, result.Symbols))

		sum := 0.4 + 5/17.5 + 2.5/17.5
		require.InDelta(t, 0.4/sum, result.Weights["A"], 1e-9)
		require.InDelta(t, (5/17.5)/sum, result.Weights["C"], 1e-9)
		require.InDelta(t, (2.5/17.5)/sum, result.Weights["B"], 1e-9)
		// a single pass can leave the top name above the cap
		require.Greater(t, result.Weights["A"], 0.4)
	})

	t.Run("iterative cap keeps every weight within the cap", func(t *testing.T) {
		result := setup(t, SelectionOptions{WeightCap: 0.4, CapMode: CapIterative}).SelectTopN(in)
		require.NoError(t, result.Validate(3))
		require.InDelta(t, 0.4, result.Weights["A"], 1e-9)
		require.InDelta(t, 0.4, result.Weights["C"], 1e-9)
		require.InDelta(t, 0.2, result.Weights["B"], 1e-9)
	})

	t.Run("ties keep universe order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceService := mock_l1_service.NewMockPriceService(ctrl)
		for _, s := range []string{"X", "Y", "Z"} {
			priceService.EXPECT().Momentum(s, 1, 1).Return(0.1, true)
		}
		priceService.EXPECT().Volatility(gomock.Any(), 1).Return(0.2).Times(2)

		svc := NewSelectionService(priceService, SelectionOptions{WeightCap: 1, CapMode: CapSinglePass})
		result := svc.SelectTopN(SelectTopNInput{
			Universe:       []string{"X", "Y", "Z"},
			Index:          1,
			TopN:           2,
			MomentumPeriod: 1,
		})
		require.Equal(t, "", cmp.Diff([]string{"X", "Y"}, result.Symbols))
		require.Equal(t, "", cmp.Diff(domain.Weights{"X": 0.5, "Y": 0.5}, result.Weights))
	})

	t.Run("single name gets the full weight", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceService := mock_l1_service.NewMockPriceService(ctrl)
		priceService.EXPECT().Momentum("A", 1, 1).Return(1.0, true)
		priceService.EXPECT().Momentum("B", 1, 1).Return(0.0, true)
		priceService.EXPECT().Volatility("A", 1).Return(0.3)

		svc := NewSelectionService(priceService, SelectionOptions{WeightCap: 0.4, CapMode: CapSinglePass})
		result := svc.SelectTopN(SelectTopNInput{
			Universe:       []string{"A", "B"},
			Index:          1,
			TopN:           1,
			MomentumPeriod: 1,
		})
		require.InDelta(t, 1.0, result.Weights["A"], 1e-12)
	})
}

func TestParseCapMode(t *testing.T) {
	mode, err := ParseCapMode("")
	require.NoError(t, err)
	require.Equal(t, CapSinglePass, mode)

	mode, err = ParseCapMode("iterative")
	require.NoError(t, err)
	require.Equal(t, CapIterative, mode)

	_, err = ParseCapMode("greedy")
	require.Error(t, err)
}
