package utils

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var metricInputReplacer = strings.NewReplacer(",", "", "$", "", " ", "", "\u00a0", "")

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return math.Round(f*100) / 100
}

// maxMetricValue é o maior valor aceito por uma coluna NUMERIC(18,2)
var maxMetricValue = decimal.RequireFromString("9999999999999999.99")

// ParseMetricValue converte o texto digitado na grade em número com duas casas decimais,
// a mesma escala das colunas de métricas. Separadores de milhar e "$" são ignorados;
// texto não numérico vira 0. Valor negativo vira 0 quando allowNegative é falso.
func ParseMetricValue(raw string, allowNegative bool) float64 {
	cleaned := metricInputReplacer.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	if value.IsNegative() && !allowNegative {
		return 0
	}

	value = value.Round(2)
	switch {
	case value.GreaterThan(maxMetricValue):
		value = maxMetricValue
	case value.LessThan(maxMetricValue.Neg()):
		value = maxMetricValue.Neg()
	}

	return value.InexactFloat64()
}
