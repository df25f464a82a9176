package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEarningsUnknownTeam(t *testing.T) {
	for _, name := range []string{"", "sangal", "Unknown FC", "SANGAL"} {
		_, err := Earnings(name, 2)
		assert.ErrorIs(t, err, ErrUnknownTeam, "team %q must not resolve", name)
	}
}

func TestEarningsNegativeDuration(t *testing.T) {
	_, err := Earnings("Sangal", -1)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestEarningsSangal(t *testing.T) {
	got, err := Earnings("Sangal", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), got.TotalRevenue)
	assert.Equal(t, int64(900), got.StreamerEarning)
	assert.Equal(t, int64(300), got.ArhavalProfit)
}

func TestEarningsLinearity(t *testing.T) {
	for _, team := range Teams() {
		rate, err := PerHour(team)
		require.NoError(t, err)
		for _, hours := range []float64{0, 1, 2.5, 8} {
			got, err := Earnings(team, hours)
			require.NoError(t, err)
			assert.InDelta(t, float64(rate.TotalRevenue)*hours, float64(got.TotalRevenue), 0.5)
			assert.InDelta(t, float64(rate.StreamerEarning)*hours, float64(got.StreamerEarning), 0.5)
			assert.InDelta(t, float64(rate.ArhavalProfit)*hours, float64(got.ArhavalProfit), 0.5)
			assert.GreaterOrEqual(t, got.TotalRevenue, int64(0))
			assert.GreaterOrEqual(t, got.StreamerEarning, int64(0))
			assert.GreaterOrEqual(t, got.ArhavalProfit, int64(0))
		}
	}
}

func TestTableSplitsAddUp(t *testing.T) {
	for _, team := range Teams() {
		rate, err := PerHour(team)
		require.NoError(t, err)
		assert.Equal(t, rate.TotalRevenue, rate.StreamerEarning+rate.ArhavalProfit, "split for %s", team)
	}
}

func TestZeroDurationYieldsZeroSplit(t *testing.T) {
	got, err := Earnings("Galakticos", 0)
	require.NoError(t, err)
	assert.Equal(t, Split{}, got)
}
