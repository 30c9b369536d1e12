package domain

type ColumnKind string

const (
	ColumnQuarterCollapsed ColumnKind = "quarter-collapsed"
	ColumnQuarterHeader    ColumnKind = "quarter-header"
	ColumnWeek             ColumnKind = "week"
)

// DisplayColumn é uma coluna da grade. Os campos preenchidos dependem de Kind:
//   - quarter-collapsed: Quarter, Snapshots e WeekKeys
//   - quarter-header: Quarter
//   - week: Quarter, WeekKey, Snapshot (pode ser nil) e IsCurrentWeek
type DisplayColumn struct {
	Kind          ColumnKind              `json:"kind"`
	Quarter       *QuarterDescriptor      `json:"quarter,omitempty"`
	Snapshots     []*WeeklyMetricSnapshot `json:"snapshots,omitempty"`
	WeekKeys      []string                `json:"week_keys,omitempty"`
	WeekKey       string                  `json:"week_key,omitempty"`
	Snapshot      *WeeklyMetricSnapshot   `json:"snapshot,omitempty"`
	IsCurrentWeek bool                    `json:"is_current_week,omitempty"`
}
