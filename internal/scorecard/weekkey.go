// Package scorecard contém o motor de janelas semanais e trimestrais do scorecard:
// chaves de semana, trimestres fiscais, colunas da grade, somatórios e tendência.
// O pacote não faz I/O; recebe a coleção de snapshots já materializada.
package scorecard

import (
	"errors"
	"fmt"
	"time"
)

type WeekConvention string

const (
	// WeekEndingFriday identifica a semana pela sexta-feira em que ela termina
	WeekEndingFriday WeekConvention = "week_ending"
	// WeekBeginningMonday identifica a semana pela segunda-feira em que ela começa
	WeekBeginningMonday WeekConvention = "week_beginning"
)

const weekKeyLayout = time.DateOnly

var ErrInvalidWeekConvention = errors.New("invalid week convention")

func ParseWeekConvention(value string) (WeekConvention, error) {
	switch WeekConvention(value) {
	case WeekEndingFriday, WeekBeginningMonday:
		return WeekConvention(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWeekConvention, value)
}

// TargetWeekday retorna o dia da semana que dá nome à chave
func (c WeekConvention) TargetWeekday() time.Weekday {
	if c == WeekBeginningMonday {
		return time.Monday
	}
	return time.Friday
}

// dateOf descarta o horário mantendo os componentes de data locais de t.
// O resultado fica em UTC apenas para a aritmética de dias não sofrer com horário de verão.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekEnding retorna a sexta-feira igual ou posterior a t
func WeekEnding(t time.Time) string {
	date := dateOf(t)
	offset := (int(time.Friday) - int(date.Weekday()) + 7) % 7
	return date.AddDate(0, 0, offset).Format(weekKeyLayout)
}

// WeekBeginning retorna a segunda-feira igual ou anterior a t
func WeekBeginning(t time.Time) string {
	date := dateOf(t)
	offset := (int(date.Weekday()) - int(time.Monday) + 7) % 7
	return date.AddDate(0, 0, -offset).Format(weekKeyLayout)
}

// WeekKey calcula a chave canônica da semana de t conforme a convenção
func WeekKey(conv WeekConvention, t time.Time) string {
	if conv == WeekBeginningMonday {
		return WeekBeginning(t)
	}
	return WeekEnding(t)
}

// WeeksInRange lista todas as ocorrências do dia alvo da convenção em [start, end],
// em ordem crescente e avançando de 7 em 7 dias.
func WeeksInRange(start, end time.Time, conv WeekConvention) []string {
	first := dateOf(start)
	last := dateOf(end)

	offset := (int(conv.TargetWeekday()) - int(first.Weekday()) + 7) % 7
	current := first.AddDate(0, 0, offset)

	weeks := make([]string, 0, 14)
	for !current.After(last) {
		weeks = append(weeks, current.Format(weekKeyLayout))
		current = current.AddDate(0, 0, 7)
	}

	return weeks
}

// ParseWeekKey converte uma chave YYYY-MM-DD de volta para data
func ParseWeekKey(key string) (time.Time, error) {
	date, err := time.Parse(weekKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("chave de semana inválida %q: %w", key, err)
	}
	return date, nil
}
