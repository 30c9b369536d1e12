package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Métricas nativas acompanhadas semanalmente
const (
	MetricRevenue      = "revenue"
	MetricGrossProfit  = "gross_profit"
	MetricNetProfit    = "net_profit"
	MetricCashInBank   = "cash_in_bank"
	MetricLeads        = "leads"
	MetricConversions  = "conversions"
	MetricNewCustomers = "new_customers"
	MetricAverageSale  = "average_sale"
)

// CustomKPIPrefix identifica campos que apontam para um indicador customizado (kpi:<id>)
const CustomKPIPrefix = "kpi:"

// BuiltInMetrics lista as métricas nativas na ordem de exibição
var BuiltInMetrics = []string{
	MetricRevenue,
	MetricGrossProfit,
	MetricNetProfit,
	MetricCashInBank,
	MetricLeads,
	MetricConversions,
	MetricNewCustomers,
	MetricAverageSale,
}

var ErrUnknownMetric = errors.New("unknown metric field")

// AllowsNegative informa se o campo aceita valores negativos: resultados e saldo
// podem ficar abaixo de zero, contagens e valores de venda não. KPIs customizados aceitam.
func AllowsNegative(field string) bool {
	switch field {
	case MetricGrossProfit, MetricNetProfit, MetricCashInBank:
		return true
	}
	return strings.HasPrefix(field, CustomKPIPrefix)
}

// WeeklyMetricSnapshot representa uma linha de métricas por (negócio, semana)
type WeeklyMetricSnapshot struct {
	ID           string             `json:"id"`
	BusinessID   string             `json:"business_id"`
	UserID       string             `json:"user_id"`
	WeekKey      string             `json:"week_key"`
	Revenue      *float64           `json:"revenue"`
	GrossProfit  *float64           `json:"gross_profit"`
	NetProfit    *float64           `json:"net_profit"`
	CashInBank   *float64           `json:"cash_in_bank"`
	Leads        *float64           `json:"leads"`
	Conversions  *float64           `json:"conversions"`
	NewCustomers *float64           `json:"new_customers"`
	AverageSale  *float64           `json:"average_sale"`
	CustomKPIs   map[string]float64 `json:"custom_kpis"`
	Notes        string             `json:"notes"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NewWeeklyMetricSnapshot cria um snapshot vazio: métricas nulas e mapa de KPIs vazio
func NewWeeklyMetricSnapshot(businessID, userID, weekKey string) *WeeklyMetricSnapshot {
	return &WeeklyMetricSnapshot{
		BusinessID: businessID,
		UserID:     userID,
		WeekKey:    weekKey,
		CustomKPIs: make(map[string]float64),
	}
}

func IsBuiltInMetric(field string) bool {
	for _, metric := range BuiltInMetrics {
		if metric == field {
			return true
		}
	}
	return false
}

// IsKnownField aceita métricas nativas e KPIs customizados com ID não vazio
func IsKnownField(field string) bool {
	if IsBuiltInMetric(field) {
		return true
	}
	return strings.HasPrefix(field, CustomKPIPrefix) && len(field) > len(CustomKPIPrefix)
}

func (s *WeeklyMetricSnapshot) metricRef(field string) **float64 {
	switch field {
	case MetricRevenue:
		return &s.Revenue
	case MetricGrossProfit:
		return &s.GrossProfit
	case MetricNetProfit:
		return &s.NetProfit
	case MetricCashInBank:
		return &s.CashInBank
	case MetricLeads:
		return &s.Leads
	case MetricConversions:
		return &s.Conversions
	case MetricNewCustomers:
		return &s.NewCustomers
	case MetricAverageSale:
		return &s.AverageSale
	}
	return nil
}

// Value retorna o valor do campo e se ele está preenchido.
// Snapshot nulo, campo desconhecido ou valor não finito contam como ausentes.
func (s *WeeklyMetricSnapshot) Value(field string) (float64, bool) {
	if s == nil {
		return 0, false
	}

	var value float64
	if ref := s.metricRef(field); ref != nil {
		if *ref == nil {
			return 0, false
		}
		value = **ref
	} else if strings.HasPrefix(field, CustomKPIPrefix) {
		v, ok := s.CustomKPIs[strings.TrimPrefix(field, CustomKPIPrefix)]
		if !ok {
			return 0, false
		}
		value = v
	} else {
		return 0, false
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	return value, true
}

// SetValue altera um único campo (atualização parcial)
func (s *WeeklyMetricSnapshot) SetValue(field string, value float64) error {
	if ref := s.metricRef(field); ref != nil {
		v := value
		*ref = &v
		return nil
	}

	if IsKnownField(field) {
		if s.CustomKPIs == nil {
			s.CustomKPIs = make(map[string]float64)
		}
		s.CustomKPIs[strings.TrimPrefix(field, CustomKPIPrefix)] = value
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnknownMetric, field)
}

// Clone copia o snapshot para que atualizações otimistas não alterem a coleção carregada
func (s *WeeklyMetricSnapshot) Clone() *WeeklyMetricSnapshot {
	if s == nil {
		return nil
	}

	clone := *s
	for _, field := range BuiltInMetrics {
		ref := clone.metricRef(field)
		if *ref != nil {
			v := **ref
			*ref = &v
		}
	}

	clone.CustomKPIs = make(map[string]float64, len(s.CustomKPIs))
	for id, v := range s.CustomKPIs {
		clone.CustomKPIs[id] = v
	}

	return &clone
}
