package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/usecases/authenticating"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/usecases/tracking"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/apiErrors"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("handler: erro ao enviar resposta")
	}
}

// writeServiceError traduz os erros tipados dos casos de uso para a resposta padronizada.
// details acompanha a resposta quando o erro não traz detalhes próprios.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string, details any) {
	logger := log.ForContext(r.Context()).WithError(err)

	var trackingErr *tracking.TrackingError
	if errors.As(err, &trackingErr) {
		if apiErrors.StatusFor(trackingErr.Code) >= http.StatusInternalServerError {
			logger.WithField("business_id", trackingErr.BusinessID).Error("handler: falha no scorecard")
		} else {
			logger.WithField("business_id", trackingErr.BusinessID).Warn("handler: requisição rejeitada")
		}
		apiErrors.WriteError(w, trackingErr.Code, trackingErr.Error(), details)
		return
	}

	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		logger.WithField("user_id", authErr.UserID).Warn("handler: erro de autenticação")
		apiErrors.WriteError(w, authErr.Code, authErr.Error(), details)
		return
	}

	logger.Error(fallback)
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("corpo da requisição vazio")
	}
	return json.NewDecoder(r.Body).Decode(v)
}
