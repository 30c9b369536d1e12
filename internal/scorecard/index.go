package scorecard

import (
	"sort"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
)

// SnapshotIndex é um índice somente leitura de chave de semana -> snapshot
type SnapshotIndex struct {
	byWeek map[string]*domain.WeeklyMetricSnapshot
}

func NewSnapshotIndex(snapshots []*domain.WeeklyMetricSnapshot) SnapshotIndex {
	byWeek := make(map[string]*domain.WeeklyMetricSnapshot, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot == nil || snapshot.WeekKey == "" {
			continue
		}
		byWeek[snapshot.WeekKey] = snapshot
	}
	return SnapshotIndex{byWeek: byWeek}
}

func (i SnapshotIndex) Get(weekKey string) (*domain.WeeklyMetricSnapshot, bool) {
	snapshot, ok := i.byWeek[weekKey]
	return snapshot, ok
}

func (i SnapshotIndex) Len() int {
	return len(i.byWeek)
}

// Keys retorna as chaves em ordem crescente
func (i SnapshotIndex) Keys() []string {
	keys := make([]string, 0, len(i.byWeek))
	for key := range i.byWeek {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
