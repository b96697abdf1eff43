package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rotator/internal/domain"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		strategy, err := Load("")
		require.NoError(t, err)
		require.Equal(t, 3, strategy.TopN)
		require.Equal(t, 126, strategy.HeatWindow)
		require.Equal(t, "weekly", strategy.Rebalance)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
name: sector-rotation
top_n: 5
rebalance: monthly
rebalance_day: "2"
start_date: 2019-12-22
end_date: 2024-10-31
universe:
  XLK: ""
  XLC: 2018-06-18
`)
		strategy, err := Load(path)
		require.NoError(t, err)

		require.Equal(t, "sector-rotation", strategy.Name)
		require.Equal(t, 5, strategy.TopN)
		require.Equal(t, "monthly", strategy.Rebalance)
		// unset fields keep their defaults
		require.Equal(t, 126, strategy.HeatWindow)

		offset, err := strategy.MonthOffset()
		require.NoError(t, err)
		require.Equal(t, 2, offset)

		start, err := strategy.Start()
		require.NoError(t, err)
		starts, err := strategy.AssetStartDates(start)
		require.NoError(t, err)
		require.Equal(t, start, starts["XLK"])
		require.Equal(t, time.Date(2018, 6, 18, 0, 0, 0, 0, time.UTC), starts["XLC"])
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := Load("/does/not/exist.yaml")
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Strategy {
		strategy := Default()
		strategy.StartDate = "2019-12-22"
		strategy.EndDate = "2024-10-31"
		return strategy
	}

	t.Run("defaults with dates pass", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("top_n below 1", func(t *testing.T) {
		strategy := valid()
		strategy.TopN = 0
		err := strategy.Validate()
		require.Error(t, err)
		confErr := domain.ConfigurationError{}
		require.True(t, errors.As(err, &confErr))
	})

	t.Run("missing start date", func(t *testing.T) {
		strategy := valid()
		strategy.StartDate = ""
		require.Error(t, strategy.Validate())
	})

	t.Run("bad burn-in", func(t *testing.T) {
		strategy := valid()
		strategy.BurnIn = "soon"
		require.Error(t, strategy.Validate())
	})
}

func TestBurnInDate(t *testing.T) {
	start := time.Date(2019, 12, 22, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		input string
		want  time.Time
	}{
		{input: "", want: start},
		{input: "1y", want: time.Date(2020, 12, 22, 0, 0, 0, 0, time.UTC)},
		{input: "6m", want: time.Date(2020, 6, 22, 0, 0, 0, 0, time.UTC)},
		{input: "1y2m10d", want: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run("burn-in "+tc.input, func(t *testing.T) {
			strategy := Default()
			strategy.BurnIn = tc.input
			got, err := strategy.BurnInDate(start)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
