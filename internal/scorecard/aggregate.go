package scorecard

import (
	"github.com/shopspring/decimal"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
)

// SumField soma um campo (métrica nativa ou kpi:<id>) em um conjunto de snapshots.
// Snapshot ausente, campo não preenchido ou valor não numérico contam como zero.
// A soma é feita em decimal para o resultado não depender da ordem dos snapshots.
func SumField(snapshots []*domain.WeeklyMetricSnapshot, field string) float64 {
	total := decimal.Zero
	for _, snapshot := range snapshots {
		value, ok := snapshot.Value(field)
		if !ok {
			continue
		}
		total = total.Add(decimal.NewFromFloat(value))
	}
	return total.InexactFloat64()
}

// QuarterToDate soma o campo nas semanas do trimestre atual até a semana atual, inclusive
func QuarterToDate(columns []domain.DisplayColumn, field string) float64 {
	snapshots := make([]*domain.WeeklyMetricSnapshot, 0, 14)
	for _, column := range columns {
		if column.Kind != domain.ColumnWeek || column.Quarter == nil || !column.Quarter.IsCurrent {
			continue
		}
		snapshots = append(snapshots, column.Snapshot)
		if column.IsCurrentWeek {
			break
		}
	}
	return SumField(snapshots, field)
}

// CollapsedPreview soma o campo nos snapshots carregados por uma coluna recolhida
func CollapsedPreview(column domain.DisplayColumn, field string) float64 {
	if column.Kind != domain.ColumnQuarterCollapsed {
		return 0
	}
	return SumField(column.Snapshots, field)
}
