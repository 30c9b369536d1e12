package scorecard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
)

func floatPtr(v float64) *float64 {
	return &v
}

func snapshotWithRevenue(weekKey string, revenue float64) *domain.WeeklyMetricSnapshot {
	s := domain.NewWeeklyMetricSnapshot("biz-1", "user-1", weekKey)
	s.Revenue = floatPtr(revenue)
	return s
}

func calendarQuarters(t *testing.T, today time.Time) []domain.QuarterDescriptor {
	t.Helper()
	cal, err := NewFiscalCalendar(FiscalCalendarYear, time.January)
	require.NoError(t, err)
	return cal.CurrentQuarters(today)
}

func weekColumns(columns []domain.DisplayColumn) []domain.DisplayColumn {
	weeks := make([]domain.DisplayColumn, 0)
	for _, c := range columns {
		if c.Kind == domain.ColumnWeek {
			weeks = append(weeks, c)
		}
	}
	return weeks
}

func TestBuildColumns_DefaultCollapsesNonCurrentQuarters(t *testing.T) {
	today := date(2024, 5, 17)
	quarters := calendarQuarters(t, today)

	columns := BuildColumns(ColumnInput{
		Quarters:   quarters,
		Expansion:  domain.NewExpansionState(),
		Index:      NewSnapshotIndex(nil),
		Convention: WeekEndingFriday,
		Today:      today,
	})

	// 2 recolhidas + 13 semanas do Q2 + 2 recolhidas
	require.Len(t, columns, 17)
	assert.Equal(t, domain.ColumnQuarterCollapsed, columns[0].Kind)
	assert.Equal(t, "calendar-2023-Q4", columns[0].Quarter.ID)
	assert.Equal(t, domain.ColumnQuarterCollapsed, columns[1].Kind)
	assert.Equal(t, "calendar-2024-Q1", columns[1].Quarter.ID)
	assert.Equal(t, domain.ColumnWeek, columns[2].Kind)
	assert.Equal(t, "2024-04-05", columns[2].WeekKey)
	assert.Equal(t, domain.ColumnQuarterCollapsed, columns[15].Kind)
	assert.Equal(t, domain.ColumnQuarterCollapsed, columns[16].Kind)

	current := 0
	for _, c := range columns {
		assert.NotEqual(t, domain.ColumnQuarterHeader, c.Kind, "trimestre atual não tem cabeçalho")
		if c.IsCurrentWeek {
			current++
			assert.Equal(t, "2024-05-17", c.WeekKey)
		}
	}
	assert.Equal(t, 1, current)
}

func TestBuildColumns_FullyExpanded(t *testing.T) {
	today := date(2024, 5, 17)
	quarters := calendarQuarters(t, today)

	ids := make([]string, 0, len(quarters))
	expected := 0
	for _, q := range quarters {
		ids = append(ids, q.ID)
		expected += len(WeeksInRange(q.StartDate, q.EndDate, WeekEndingFriday))
	}

	columns := BuildColumns(ColumnInput{
		Quarters:   quarters,
		Expansion:  domain.NewExpansionState(ids...),
		Index:      NewSnapshotIndex(nil),
		Convention: WeekEndingFriday,
		Today:      today,
	})

	weeks := weekColumns(columns)
	assert.Len(t, weeks, expected)

	seen := make(map[string]bool)
	for _, w := range weeks {
		assert.False(t, seen[w.WeekKey], "semana duplicada %s", w.WeekKey)
		seen[w.WeekKey] = true
	}

	headers := 0
	for _, c := range columns {
		if c.Kind == domain.ColumnQuarterHeader {
			headers++
			assert.False(t, c.Quarter.IsCurrent)
		}
	}
	assert.Equal(t, 4, headers)
	assert.Equal(t, CountWeeks(quarters, WeekEndingFriday, today), len(FlattenWeekKeys(columns)))
}

func TestBuildColumns_CurrentWeekOutsideQuarterBoundary(t *testing.T) {
	// Sábado, 30/03/2024: a semana termina em 05/04, já no Q2
	today := date(2024, 3, 30)
	quarters := calendarQuarters(t, today)

	columns := BuildColumns(ColumnInput{
		Quarters:   quarters,
		Expansion:  domain.NewExpansionState(),
		Index:      NewSnapshotIndex(nil),
		Convention: WeekEndingFriday,
		Today:      today,
	})

	weeks := weekColumns(columns)
	require.NotEmpty(t, weeks)
	last := weeks[len(weeks)-1]
	assert.Equal(t, "2024-04-05", last.WeekKey)
	assert.True(t, last.IsCurrentWeek)
	assert.Equal(t, "calendar-2024-Q1", last.Quarter.ID)

	for _, c := range columns {
		if c.Kind == domain.ColumnQuarterCollapsed && c.Quarter.ID == "calendar-2024-Q2" {
			assert.NotContains(t, c.WeekKeys, "2024-04-05")
		}
	}

	flattened := FlattenWeekKeys(columns)
	unique := make(map[string]struct{}, len(flattened))
	for _, key := range flattened {
		unique[key] = struct{}{}
	}
	assert.Len(t, unique, len(flattened))
	assert.Equal(t, CountWeeks(quarters, WeekEndingFriday, today), len(flattened))
}

func TestBuildColumns_MondayConventionClaimsPreviousQuarterWeek(t *testing.T) {
	// Quinta, 03/04/2025: a semana começa em 31/03, ainda no Q1
	today := date(2025, 4, 3)
	quarters := calendarQuarters(t, today)
	ids := make([]string, 0, len(quarters))
	for _, q := range quarters {
		ids = append(ids, q.ID)
	}

	columns := BuildColumns(ColumnInput{
		Quarters:   quarters,
		Expansion:  domain.NewExpansionState(ids...),
		Index:      NewSnapshotIndex(nil),
		Convention: WeekBeginningMonday,
		Today:      today,
	})

	owners := make(map[string][]string)
	for _, c := range weekColumns(columns) {
		owners[c.WeekKey] = append(owners[c.WeekKey], c.Quarter.ID)
	}
	assert.Equal(t, []string{"calendar-2025-Q2"}, owners["2025-03-31"])
}

func TestBuildColumns_ResolvesSnapshots(t *testing.T) {
	today := date(2024, 5, 17)
	quarters := calendarQuarters(t, today)

	index := NewSnapshotIndex([]*domain.WeeklyMetricSnapshot{
		snapshotWithRevenue("2024-01-05", 10),
		snapshotWithRevenue("2024-02-02", 20),
		snapshotWithRevenue("2024-04-12", 2000),
		snapshotWithRevenue("2024-05-17", 100),
	})
	live := snapshotWithRevenue("2024-05-17", 500)

	columns := BuildColumns(ColumnInput{
		Quarters:   quarters,
		Expansion:  domain.NewExpansionState(),
		Index:      index,
		Convention: WeekEndingFriday,
		Today:      today,
		Live:       live,
	})

	for _, c := range columns {
		switch {
		case c.Kind == domain.ColumnQuarterCollapsed && c.Quarter.ID == "calendar-2024-Q1":
			assert.Len(t, c.Snapshots, 2)
			assert.Len(t, c.WeekKeys, 13)
			assert.Equal(t, 30.0, CollapsedPreview(c, domain.MetricRevenue))
		case c.Kind == domain.ColumnWeek && c.WeekKey == "2024-05-17":
			assert.Same(t, live, c.Snapshot)
		case c.Kind == domain.ColumnWeek && c.WeekKey == "2024-04-12":
			require.NotNil(t, c.Snapshot)
			assert.Equal(t, 2000.0, *c.Snapshot.Revenue)
		case c.Kind == domain.ColumnWeek && c.WeekKey == "2024-04-19":
			assert.Nil(t, c.Snapshot)
		}
	}
}

func TestBuildColumns_ExpandedPastQuarterHasHeader(t *testing.T) {
	today := date(2024, 5, 17)
	quarters := calendarQuarters(t, today)

	columns := BuildColumns(ColumnInput{
		Quarters:   quarters,
		Expansion:  domain.NewExpansionState("calendar-2024-Q1"),
		Index:      NewSnapshotIndex(nil),
		Convention: WeekEndingFriday,
		Today:      today,
	})

	require.Equal(t, domain.ColumnQuarterCollapsed, columns[0].Kind)
	require.Equal(t, domain.ColumnQuarterHeader, columns[1].Kind)
	assert.Equal(t, "calendar-2024-Q1", columns[1].Quarter.ID)
	assert.Equal(t, domain.ColumnWeek, columns[2].Kind)
	assert.Equal(t, "2024-01-05", columns[2].WeekKey)
	assert.False(t, columns[2].IsCurrentWeek)
}

func TestSnapshotIndex(t *testing.T) {
	index := NewSnapshotIndex([]*domain.WeeklyMetricSnapshot{
		snapshotWithRevenue("2024-04-12", 1),
		nil,
		snapshotWithRevenue("2024-04-05", 2),
	})

	assert.Equal(t, 2, index.Len())
	assert.Equal(t, []string{"2024-04-05", "2024-04-12"}, index.Keys())

	s, ok := index.Get("2024-04-05")
	require.True(t, ok)
	assert.Equal(t, 2.0, *s.Revenue)

	_, ok = index.Get("2024-04-19")
	assert.False(t, ok)
}
