package scorecard

import (
	"errors"
	"fmt"
	"time"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
)

type FiscalConvention string

const (
	// FiscalCalendarYear usa o ano civil (Jan-Dez)
	FiscalCalendarYear FiscalConvention = "calendar"
	// FiscalAlternate usa um ano fiscal que começa em um mês configurável
	FiscalAlternate FiscalConvention = "fiscal"
)

// QuartersPerView é a quantidade de trimestres exibidos: o último trimestre do
// ano fiscal anterior seguido dos quatro trimestres do ano de referência.
const QuartersPerView = 5

var (
	ErrInvalidFiscalConvention = errors.New("invalid fiscal convention")
	ErrInvalidFiscalStartMonth = errors.New("invalid fiscal year start month")
)

// FiscalCalendar calcula os limites dos trimestres para uma convenção fiscal
type FiscalCalendar struct {
	convention FiscalConvention
	startMonth time.Month
}

// NewFiscalCalendar valida a configuração. Configuração inválida falha aqui,
// antes de gerar qualquer data errada.
func NewFiscalCalendar(convention FiscalConvention, startMonth time.Month) (FiscalCalendar, error) {
	switch convention {
	case FiscalCalendarYear:
		return FiscalCalendar{convention: convention, startMonth: time.January}, nil
	case FiscalAlternate:
		if startMonth < time.January || startMonth > time.December {
			return FiscalCalendar{}, fmt.Errorf("%w: %d", ErrInvalidFiscalStartMonth, startMonth)
		}
		return FiscalCalendar{convention: convention, startMonth: startMonth}, nil
	}

	return FiscalCalendar{}, fmt.Errorf("%w: %q", ErrInvalidFiscalConvention, convention)
}

func (c FiscalCalendar) Convention() FiscalConvention {
	return c.convention
}

func (c FiscalCalendar) StartMonth() time.Month {
	return c.startMonth
}

// FiscalYearFor retorna o ano fiscal que contém t. No ano fiscal alternativo o ano
// vira para t.Year()+1 assim que o mês de t alcança o mês de início.
func (c FiscalCalendar) FiscalYearFor(t time.Time) int {
	if c.startMonth == time.January {
		return t.Year()
	}
	if t.Month() >= c.startMonth {
		return t.Year() + 1
	}
	return t.Year()
}

// fiscalYearStart retorna o primeiro dia do ano fiscal
func (c FiscalCalendar) fiscalYearStart(fiscalYear int) time.Time {
	if c.startMonth == time.January {
		return time.Date(fiscalYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(fiscalYear-1, c.startMonth, 1, 0, 0, 0, 0, time.UTC)
}

func (c FiscalCalendar) quarter(fiscalYear, number int, today time.Time) domain.QuarterDescriptor {
	start := c.fiscalYearStart(fiscalYear).AddDate(0, 3*(number-1), 0)
	end := start.AddDate(0, 3, -1)
	day := dateOf(today)

	return domain.QuarterDescriptor{
		ID:         fmt.Sprintf("%s-%d-Q%d", c.convention, fiscalYear, number),
		Number:     number,
		FiscalYear: fiscalYear,
		Label:      fmt.Sprintf("Q%d %d", number, fiscalYear),
		Months:     fmt.Sprintf("%s-%s", start.Format("Jan"), end.Format("Jan")),
		StartDate:  start,
		EndDate:    end,
		IsCurrent:  !day.Before(start) && !day.After(end),
		IsPast:     end.Before(day),
	}
}

// QuartersFor gera os cinco trimestres da grade para o ano fiscal de referência,
// em ordem crescente. Exatamente um trimestre é o atual somente quando referenceYear
// é o ano fiscal de today. Para outros anos pode não haver trimestre atual (ou apenas
// o Q4 anterior, quando referenceYear é o ano seguinte); a grade usa CurrentQuarters.
func (c FiscalCalendar) QuartersFor(referenceYear int, today time.Time) []domain.QuarterDescriptor {
	quarters := make([]domain.QuarterDescriptor, 0, QuartersPerView)
	quarters = append(quarters, c.quarter(referenceYear-1, 4, today))
	for n := 1; n <= 4; n++ {
		quarters = append(quarters, c.quarter(referenceYear, n, today))
	}
	return quarters
}

// CurrentQuarters usa o ano fiscal derivado de today como referência
func (c FiscalCalendar) CurrentQuarters(today time.Time) []domain.QuarterDescriptor {
	return c.QuartersFor(c.FiscalYearFor(today), today)
}

// CurrentQuarter retorna o trimestre marcado como atual, se houver
func CurrentQuarter(quarters []domain.QuarterDescriptor) (domain.QuarterDescriptor, bool) {
	for _, q := range quarters {
		if q.IsCurrent {
			return q, true
		}
	}
	return domain.QuarterDescriptor{}, false
}

// QuarterProgress retorna a porcentagem (0-100) de dias do trimestre já decorridos,
// contando o próprio dia de hoje.
func QuarterProgress(q domain.QuarterDescriptor, today time.Time) float64 {
	day := dateOf(today)
	start := dateOf(q.StartDate)
	end := dateOf(q.EndDate)

	if day.Before(start) {
		return 0
	}
	if day.After(end) {
		return 100
	}

	total := end.Sub(start).Hours()/24 + 1
	elapsed := day.Sub(start).Hours()/24 + 1

	return elapsed / total * 100
}
