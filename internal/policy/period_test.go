package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordrush/platform/internal/domain"
)

func TestPeriodID(t *testing.T) {
	at := time.Date(2026, time.August, 25, 14, 30, 0, 0, time.UTC)

	daily, err := PeriodID(domain.GranularityDaily, at)
	require.NoError(t, err)
	assert.Equal(t, "D20690", daily) // days since epoch for 2026-08-25

	weekly, err := PeriodID(domain.GranularityWeekly, at)
	require.NoError(t, err)
	assert.Equal(t, "W2955", weekly)

	monthly, err := PeriodID(domain.GranularityMonthly, at)
	require.NoError(t, err)
	assert.Equal(t, "M24319", monthly) // 2026*12 + 7

	_, err = PeriodID(domain.Granularity("hourly"), at)
	assert.Error(t, err)
}

func TestPeriodID_StableAcrossTheDay(t *testing.T) {
	morning := time.Date(2026, time.August, 25, 0, 0, 1, 0, time.UTC)
	night := time.Date(2026, time.August, 25, 23, 59, 59, 0, time.UTC)
	nextDay := time.Date(2026, time.August, 26, 0, 0, 0, 0, time.UTC)

	a, _ := PeriodID(domain.GranularityDaily, morning)
	b, _ := PeriodID(domain.GranularityDaily, night)
	c, _ := PeriodID(domain.GranularityDaily, nextDay)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestPeriodID_WithinLengthLimit(t *testing.T) {
	far := time.Date(2200, time.December, 31, 0, 0, 0, 0, time.UTC)
	for _, g := range domain.Granularities {
		id, err := PeriodID(g, far)
		require.NoError(t, err)
		assert.NoError(t, domain.ValidatePeriodID(id))
	}
}

func TestCurrentPeriods(t *testing.T) {
	ids, err := CurrentPeriods(time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, "D20690", ids[domain.GranularityDaily])
}

func TestPeriodStart_Roundtrip(t *testing.T) {
	at := time.Date(2026, time.August, 25, 14, 30, 0, 0, time.UTC)
	for _, g := range domain.Granularities {
		id, err := PeriodID(g, at)
		require.NoError(t, err)

		start, err := PeriodStart(g, id)
		require.NoError(t, err)
		assert.False(t, start.After(at), "%s period starts before the instant", g)

		back, err := PeriodID(g, start)
		require.NoError(t, err)
		assert.Equal(t, id, back)
	}

	_, err := PeriodStart(domain.GranularityDaily, "W123")
	assert.Error(t, err)
}
