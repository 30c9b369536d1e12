package domain

import "time"

// QuarterDescriptor descreve um trimestre fiscal usado para montar a grade
type QuarterDescriptor struct {
	ID         string    `json:"id"`
	Number     int       `json:"number"`
	FiscalYear int       `json:"fiscal_year"`
	Label      string    `json:"label"`  // Formato "Q{n} {ano}"
	Months     string    `json:"months"` // Ex: "Oct-Dec"
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"` // Inclusivo
	IsCurrent  bool      `json:"is_current"`
	IsPast     bool      `json:"is_past"`
}

// ExpansionState guarda os IDs de trimestres expandidos pelo usuário.
// O trimestre atual é sempre tratado como expandido, independente deste conjunto.
type ExpansionState map[string]struct{}

func NewExpansionState(ids ...string) ExpansionState {
	state := make(ExpansionState, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		state[id] = struct{}{}
	}
	return state
}

func (e ExpansionState) Has(id string) bool {
	_, ok := e[id]
	return ok
}

// Toggle expande ou recolhe um trimestre e retorna o novo estado dele
func (e ExpansionState) Toggle(id string) bool {
	if e.Has(id) {
		delete(e, id)
		return false
	}
	e[id] = struct{}{}
	return true
}

func (e ExpansionState) IDs() []string {
	ids := make([]string, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	return ids
}

// Retain descarta IDs que não pertencem aos trimestres informados.
// Uma troca de convenção fiscal gera IDs novos, então o estado antigo é zerado aqui.
func (e ExpansionState) Retain(quarters []QuarterDescriptor) ExpansionState {
	retained := make(ExpansionState, len(e))
	for _, q := range quarters {
		if e.Has(q.ID) {
			retained[q.ID] = struct{}{}
		}
	}
	return retained
}
