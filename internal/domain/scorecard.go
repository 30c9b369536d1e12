package domain

// ScorecardView é a resposta pronta para renderização da grade semanal
type ScorecardView struct {
	BusinessID        string              `json:"business_id"`
	FiscalYear        int                 `json:"fiscal_year"`
	CurrentWeekKey    string              `json:"current_week_key"`
	WeekConvention    string              `json:"week_convention"`
	PastWeeksUnlocked bool                `json:"past_weeks_unlocked"`
	Quarters          []QuarterDescriptor `json:"quarters"`
	Expanded          []string            `json:"expanded"`
	Columns           []DisplayColumn     `json:"columns"`
	EditableWeeks     map[string]bool     `json:"editable_weeks"`
	Metrics           []MetricRow         `json:"metrics"`
}

// MetricRow resume uma métrica visível no trimestre atual
type MetricRow struct {
	Field           string             `json:"field"`
	QuarterToDate   float64            `json:"quarter_to_date"`
	QuarterTarget   float64            `json:"quarter_target"`
	AnnualTarget    float64            `json:"annual_target"`
	PercentComplete float64            `json:"percent_complete"`
	Trend           string             `json:"trend"`
	TrendEvaluated  bool               `json:"trend_evaluated"`
	Previews        map[string]float64 `json:"previews"` // ID do trimestre recolhido -> soma
}
