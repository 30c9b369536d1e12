package tracking

import (
	"errors"
	"fmt"
)

// Erros específicos para o acompanhamento semanal
var (
	// Erros de validação
	ErrBusinessIDRequired = errors.New("business ID is required")
	ErrInvalidWeekKey     = errors.New("invalid week key")
	ErrUnknownMetric      = errors.New("unknown metric field")
	ErrInvalidTarget      = errors.New("invalid target")

	// Erros de regra
	ErrWeekLocked           = errors.New("week is locked for editing")
	ErrInvalidConfiguration = errors.New("invalid business configuration")

	// Erros de banco de dados
	ErrFetchSnapshots   = errors.New("error fetching snapshots from database")
	ErrPersistSnapshot  = errors.New("error persisting snapshot")
	ErrFetchSettings    = errors.New("error fetching business settings")
	ErrPersistSettings  = errors.New("error persisting business settings")
	ErrFetchTargets     = errors.New("error fetching targets")
	ErrPersistTarget    = errors.New("error persisting target")
	ErrFetchPreferences = errors.New("error fetching preferences")
	ErrSavePreferences  = errors.New("error persisting preferences")
)

// TrackingError é um erro com contexto adicional para o scorecard de um negócio
type TrackingError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	BusinessID string // Negócio envolvido (quando aplicável)
	Details    string // Detalhes adicionais
}

func (e *TrackingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *TrackingError) Unwrap() error {
	return e.Err
}

func (e *TrackingError) ErrorCode() string {
	return e.Code
}

func NewTrackingError(err error, code string, businessID string, details string) *TrackingError {
	return &TrackingError{
		Err:        err,
		Code:       code,
		BusinessID: businessID,
		Details:    details,
	}
}
