package scorecard

import "time"

// EditabilityPolicy decide se os valores de uma semana podem ser alterados
type EditabilityPolicy struct {
	convention WeekConvention
	now        func() time.Time
}

func NewEditabilityPolicy(convention WeekConvention, now func() time.Time) EditabilityPolicy {
	if now == nil {
		now = time.Now
	}
	return EditabilityPolicy{convention: convention, now: now}
}

// CurrentWeekKey retorna a chave da semana de hoje na convenção ativa
func (p EditabilityPolicy) CurrentWeekKey() string {
	return WeekKey(p.convention, p.now())
}

// IsPastWeek compara datas de fato, sem depender da ordenação lexicográfica das chaves
func (p EditabilityPolicy) IsPastWeek(weekKey string) bool {
	week, err := ParseWeekKey(weekKey)
	if err != nil {
		return false
	}
	current, err := ParseWeekKey(p.CurrentWeekKey())
	if err != nil {
		return false
	}
	return week.Before(current)
}

// IsEditable: a semana atual sempre pode ser editada; semana sem chave nunca;
// semanas passadas só com pastWeeksUnlocked. Chaves futuras ou inválidas ficam bloqueadas.
func (p EditabilityPolicy) IsEditable(isCurrentWeek bool, weekKey string, pastWeeksUnlocked bool) bool {
	if isCurrentWeek {
		return true
	}
	if weekKey == "" {
		return false
	}
	if weekKey == p.CurrentWeekKey() {
		return true
	}
	if p.IsPastWeek(weekKey) {
		return pastWeeksUnlocked
	}
	return false
}
