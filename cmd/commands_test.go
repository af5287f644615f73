package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	t.Run("registers every subcommand", func(t *testing.T) {
		names := []string{}
		for _, c := range NewRootCommand().Commands() {
			names = append(names, c.Name())
		}
		require.Equal(t, "", cmp.Diff([]string{"ingest", "robust", "run", "serve"}, names))
	})

	t.Run("robust requires tests", func(t *testing.T) {
		root := NewRootCommand()
		root.SetArgs([]string{"robust"})
		require.ErrorContains(t, root.Execute(), "--tests is required")
	})

	t.Run("ingest rejects a bad start date", func(t *testing.T) {
		root := NewRootCommand()
		root.SetArgs([]string{"ingest", "--symbols", "SPY", "--start", "01/02/2020"})
		require.ErrorContains(t, root.Execute(), "invalid --start")
	})
}

func TestSplitList(t *testing.T) {
	require.Equal(t, "", cmp.Diff([]string{"pbo", "holdout"}, splitList(" pbo, ,holdout,")))
	require.Equal(t, "", cmp.Diff([]string{}, splitList("")))
}
