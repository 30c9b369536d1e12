package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyMetricSnapshot_Value(t *testing.T) {
	var nilSnapshot *WeeklyMetricSnapshot
	_, ok := nilSnapshot.Value(MetricRevenue)
	assert.False(t, ok)

	s := NewWeeklyMetricSnapshot("biz-1", "user-1", "2024-04-05")
	_, ok = s.Value(MetricRevenue)
	assert.False(t, ok, "campo não preenchido")

	require.NoError(t, s.SetValue(MetricRevenue, 1200))
	v, ok := s.Value(MetricRevenue)
	assert.True(t, ok)
	assert.Equal(t, 1200.0, v)

	inf := math.Inf(1)
	s.Leads = &inf
	_, ok = s.Value(MetricLeads)
	assert.False(t, ok)

	_, ok = s.Value("ebitda")
	assert.False(t, ok)
}

func TestWeeklyMetricSnapshot_SetValue(t *testing.T) {
	s := &WeeklyMetricSnapshot{WeekKey: "2024-04-05"}

	require.NoError(t, s.SetValue("kpi:nps", 42))
	v, ok := s.Value("kpi:nps")
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)
	assert.Nil(t, s.Revenue, "atualização parcial não toca outros campos")

	err := s.SetValue("kpi:", 1)
	assert.ErrorIs(t, err, ErrUnknownMetric)

	err = s.SetValue("ebitda", 1)
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestWeeklyMetricSnapshot_Clone(t *testing.T) {
	s := NewWeeklyMetricSnapshot("biz-1", "user-1", "2024-04-05")
	require.NoError(t, s.SetValue(MetricRevenue, 100))
	require.NoError(t, s.SetValue("kpi:nps", 10))

	clone := s.Clone()
	require.NoError(t, clone.SetValue(MetricRevenue, 999))
	require.NoError(t, clone.SetValue("kpi:nps", 99))

	v, _ := s.Value(MetricRevenue)
	assert.Equal(t, 100.0, v)
	v, _ = s.Value("kpi:nps")
	assert.Equal(t, 10.0, v)

	var nilSnapshot *WeeklyMetricSnapshot
	assert.Nil(t, nilSnapshot.Clone())
}

func TestIsKnownField(t *testing.T) {
	assert.True(t, IsKnownField(MetricAverageSale))
	assert.True(t, IsKnownField("kpi:churn"))
	assert.False(t, IsKnownField("kpi:"))
	assert.False(t, IsKnownField("Revenue"))
}

func TestExpansionState(t *testing.T) {
	state := NewExpansionState("calendar-2024-Q1", "")
	assert.True(t, state.Has("calendar-2024-Q1"))
	assert.False(t, state.Has(""))

	assert.True(t, state.Toggle("calendar-2024-Q3"))
	assert.False(t, state.Toggle("calendar-2024-Q1"))
	assert.Equal(t, []string{"calendar-2024-Q3"}, state.IDs())

	// IDs de outra convenção fiscal são descartados
	state = NewExpansionState("calendar-2024-Q1", "fiscal-2025-Q2")
	retained := state.Retain([]QuarterDescriptor{{ID: "fiscal-2025-Q1"}, {ID: "fiscal-2025-Q2"}})
	assert.Equal(t, []string{"fiscal-2025-Q2"}, retained.IDs())
}

func TestPreferences_Visibility(t *testing.T) {
	var none *Preferences
	assert.True(t, none.MetricVisible(MetricLeads))
	assert.True(t, none.KPIVisible("nps"))

	prefs := &Preferences{
		EnabledMetrics: []string{MetricRevenue},
		SuppressedKPIs: []string{"nps"},
	}
	assert.True(t, prefs.MetricVisible(MetricRevenue))
	assert.False(t, prefs.MetricVisible(MetricLeads))
	assert.False(t, prefs.KPIVisible("nps"))
	assert.True(t, prefs.KPIVisible("churn"))
}

func TestTarget_QuarterTarget(t *testing.T) {
	target := &Target{Quarters: [4]float64{100, 200, 300, 400}}
	assert.Equal(t, 200.0, target.QuarterTarget(2))
	assert.Equal(t, 0.0, target.QuarterTarget(5))

	var none *Target
	assert.Equal(t, 0.0, none.QuarterTarget(1))
}

func TestAllowsNegative(t *testing.T) {
	for _, field := range []string{MetricGrossProfit, MetricNetProfit, MetricCashInBank, "kpi:nps"} {
		assert.True(t, AllowsNegative(field), field)
	}
	for _, field := range []string{MetricRevenue, MetricLeads, MetricConversions, MetricNewCustomers, MetricAverageSale} {
		assert.False(t, AllowsNegative(field), field)
	}
}
