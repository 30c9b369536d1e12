package domain

import "time"

// BusinessSettings guarda as convenções de calendário escolhidas pelo negócio
type BusinessSettings struct {
	BusinessID           string    `json:"business_id"`
	FiscalConvention     string    `json:"fiscal_convention"`       // "calendar" ou "fiscal"
	FiscalYearStartMonth int       `json:"fiscal_year_start_month"` // 1-12, usado apenas em "fiscal"
	WeekConvention       string    `json:"week_convention"`         // "week_ending" ou "week_beginning"
	PastWeeksUnlocked    bool      `json:"past_weeks_unlocked"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Preferences define a visibilidade das métricas de um negócio
type Preferences struct {
	BusinessID     string    `json:"business_id"`
	EnabledMetrics []string  `json:"enabled_metrics"`
	SuppressedKPIs []string  `json:"suppressed_kpis"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MetricVisible informa se uma métrica nativa deve aparecer.
// Sem registro de preferências todas as métricas nativas ficam visíveis.
func (p *Preferences) MetricVisible(metric string) bool {
	if p == nil || p.EnabledMetrics == nil {
		return true
	}
	for _, m := range p.EnabledMetrics {
		if m == metric {
			return true
		}
	}
	return false
}

// KPIVisible informa se um KPI customizado não foi suprimido
func (p *Preferences) KPIVisible(kpiID string) bool {
	if p == nil {
		return true
	}
	for _, id := range p.SuppressedKPIs {
		if id == kpiID {
			return false
		}
	}
	return true
}

// Target representa as metas de uma métrica para um ano fiscal
type Target struct {
	BusinessID string     `json:"business_id"`
	FiscalYear int        `json:"fiscal_year"`
	Metric     string     `json:"metric"`
	Quarters   [4]float64 `json:"quarters"` // Q1..Q4
	Annual     float64    `json:"annual"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// QuarterTarget retorna a meta do trimestre n (1-4); fora do intervalo retorna 0
func (t *Target) QuarterTarget(n int) float64 {
	if t == nil || n < 1 || n > 4 {
		return 0
	}
	return t.Quarters[n-1]
}
