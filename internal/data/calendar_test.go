package data

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"momentumlab/internal/domain"
)

func calendar() []time.Time {
	return []time.Time{
		day(2020, 1, 2), day(2020, 1, 3), day(2020, 1, 6),
		day(2020, 2, 3), day(2020, 2, 4),
		day(2020, 3, 2), day(2020, 3, 3), day(2020, 3, 4),
		day(2020, 4, 1),
	}
}

func TestMonthStarts(t *testing.T) {
	require.Equal(t, "", cmp.Diff([]int{0, 3, 5, 8}, MonthStarts(calendar())))
	require.Equal(t, "", cmp.Diff([]int{}, MonthStarts(nil)))
}

func TestBuildRebalancePeriods(t *testing.T) {
	t.Run("drops the trailing partial month", func(t *testing.T) {
		got := BuildRebalancePeriods(calendar(), 0)
		expected := []domain.RebalancePeriod{
			{StartIndex: 0, EndIndex: 2, Label: "2020-01", Start: day(2020, 1, 2)},
			{StartIndex: 3, EndIndex: 4, Label: "2020-02", Start: day(2020, 2, 3)},
			{StartIndex: 5, EndIndex: 7, Label: "2020-03", Start: day(2020, 3, 2)},
		}
		require.Equal(t, "", cmp.Diff(expected, got))
	})

	t.Run("offset is clamped inside the month", func(t *testing.T) {
		got := BuildRebalancePeriods(calendar(), 5)
		require.Len(t, got, 3)
		require.Equal(t, 2, got[0].StartIndex)
		require.Equal(t, 4, got[1].StartIndex)
		require.Equal(t, 7, got[2].StartIndex)
		// labels come from the unshifted month start
		require.Equal(t, "2020-02", got[1].Label)
	})

	t.Run("negative offset never goes before the calendar", func(t *testing.T) {
		got := BuildRebalancePeriods(calendar(), -5)
		require.Equal(t, 0, got[0].StartIndex)
		require.Equal(t, 0, got[1].StartIndex)
	})

	t.Run("single month gives no periods", func(t *testing.T) {
		require.Empty(t, BuildRebalancePeriods(calendar()[:3], 0))
	})
}

func TestParseMonthLabel(t *testing.T) {
	got, err := ParseMonthLabel("2020-03")
	require.NoError(t, err)
	require.Equal(t, day(2020, 3, 1), got)

	_, err = ParseMonthLabel("March")
	require.Error(t, err)
}
