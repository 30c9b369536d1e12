package scorecard

import (
	"sort"
	"time"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
)

// ColumnInput reúne tudo que a montagem de colunas precisa
type ColumnInput struct {
	Quarters   []domain.QuarterDescriptor
	Expansion  domain.ExpansionState
	Index      SnapshotIndex
	Convention WeekConvention
	Today      time.Time
	// Live é o snapshot da semana atual, possivelmente ainda não salvo.
	// Tem precedência sobre o snapshot persistido da semana ativa.
	Live *domain.WeeklyMetricSnapshot
}

// BuildColumns monta a sequência ordenada de colunas da grade, seguindo a ordem dos
// trimestres recebidos. O trimestre atual sempre aparece expandido e sem cabeçalho;
// trimestres expandidos manualmente ganham um cabeçalho; os demais viram uma coluna
// recolhida com os snapshots do trimestre.
func BuildColumns(in ColumnInput) []domain.DisplayColumn {
	todayKey := WeekKey(in.Convention, in.Today)
	weeksByQuarter := planQuarterWeeks(in.Quarters, in.Convention, todayKey)

	columns := make([]domain.DisplayColumn, 0, len(in.Quarters)*14)
	for i := range in.Quarters {
		quarter := in.Quarters[i]
		weeks := weeksByQuarter[i]

		if quarter.IsCurrent || in.Expansion.Has(quarter.ID) {
			if !quarter.IsCurrent {
				columns = append(columns, domain.DisplayColumn{
					Kind:    domain.ColumnQuarterHeader,
					Quarter: &quarter,
				})
			}

			for _, key := range weeks {
				isCurrentWeek := quarter.IsCurrent && key == todayKey
				columns = append(columns, domain.DisplayColumn{
					Kind:          domain.ColumnWeek,
					Quarter:       &quarter,
					WeekKey:       key,
					Snapshot:      in.resolve(key, todayKey),
					IsCurrentWeek: isCurrentWeek,
				})
			}
			continue
		}

		snapshots := make([]*domain.WeeklyMetricSnapshot, 0, len(weeks))
		for _, key := range weeks {
			if snapshot := in.resolve(key, todayKey); snapshot != nil {
				snapshots = append(snapshots, snapshot)
			}
		}

		columns = append(columns, domain.DisplayColumn{
			Kind:      domain.ColumnQuarterCollapsed,
			Quarter:   &quarter,
			Snapshots: snapshots,
			WeekKeys:  weeks,
		})
	}

	return columns
}

func (in ColumnInput) resolve(weekKey, todayKey string) *domain.WeeklyMetricSnapshot {
	if in.Live != nil && weekKey == todayKey && (in.Live.WeekKey == "" || in.Live.WeekKey == weekKey) {
		return in.Live
	}
	snapshot, _ := in.Index.Get(weekKey)
	return snapshot
}

// planQuarterWeeks calcula as chaves de cada trimestre. O trimestre atual recebe a
// chave da semana de hoje mesmo quando ela cai fora do limite nominal, e essa chave
// sai dos demais trimestres para aparecer uma única vez.
func planQuarterWeeks(quarters []domain.QuarterDescriptor, conv WeekConvention, todayKey string) [][]string {
	plans := make([][]string, len(quarters))
	current := -1

	for i, q := range quarters {
		plans[i] = WeeksInRange(q.StartDate, q.EndDate, conv)
		if q.IsCurrent && current < 0 {
			current = i
		}
	}

	if current < 0 {
		return plans
	}

	if !containsKey(plans[current], todayKey) {
		plans[current] = append(plans[current], todayKey)
		sort.Strings(plans[current])
	}

	for i := range plans {
		if i == current {
			continue
		}
		plans[i] = removeKey(plans[i], todayKey)
	}

	return plans
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func removeKey(keys []string, key string) []string {
	filtered := keys[:0]
	for _, k := range keys {
		if k != key {
			filtered = append(filtered, k)
		}
	}
	return filtered
}

// FlattenWeekKeys devolve as chaves de semana representadas pelas colunas, na ordem
// de exibição, incluindo as semanas implícitas das colunas recolhidas.
func FlattenWeekKeys(columns []domain.DisplayColumn) []string {
	keys := make([]string, 0, len(columns))
	for _, column := range columns {
		switch column.Kind {
		case domain.ColumnWeek:
			keys = append(keys, column.WeekKey)
		case domain.ColumnQuarterCollapsed:
			keys = append(keys, column.WeekKeys...)
		}
	}
	return keys
}

// CountWeeks conta, a partir apenas dos limites dos trimestres, quantas semanas
// distintas a grade deve cobrir. Serve para conferir o resultado de BuildColumns.
func CountWeeks(quarters []domain.QuarterDescriptor, conv WeekConvention, today time.Time) int {
	seen := make(map[string]struct{})
	hasCurrent := false

	for _, q := range quarters {
		for _, key := range WeeksInRange(q.StartDate, q.EndDate, conv) {
			seen[key] = struct{}{}
		}
		if q.IsCurrent {
			hasCurrent = true
		}
	}

	if hasCurrent {
		seen[WeekKey(conv, today)] = struct{}{}
	}

	return len(seen)
}
