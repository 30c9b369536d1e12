package middleware

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/apiErrors"
)

const (
	RoleAdmin   = domain.RoleAdmin
	RoleAdvisor = domain.RoleAdvisor
	RoleOwner   = domain.RoleOwner
)

// RoleMiddleware restringe o acesso aos roles informados
func RoleMiddleware(allowedRoles []int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := ClaimsFromContext(r.Context())
			if !ok {
				logrus.Warning("middleware: tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			isAllowed := false
			for _, role := range allowedRoles {
				if userClaims.UserRoleID == role {
					isAllowed = true
					break
				}
			}

			if !isAllowed {
				logrus.Warningf("middleware: acesso negado para usuário ID=%d, Role=%d", userClaims.UserID, userClaims.UserRoleID)
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para acessar este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func AdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware([]int{RoleAdmin})
}

func AllRoles() func(http.Handler) http.Handler {
	return RoleMiddleware([]int{RoleAdmin, RoleAdvisor, RoleOwner})
}

// BusinessAccess garante que o negócio do path (:business_id) é o mesmo do token.
// Administradores e consultores acessam qualquer negócio.
func BusinessAccess() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := ClaimsFromContext(r.Context())
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			businessID := httprouter.ParamsFromContext(r.Context()).ByName("business_id")
			if businessID == "" {
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do negócio não fornecido", nil)
				return
			}

			if userClaims.UserRoleID == RoleAdmin || userClaims.UserRoleID == RoleAdvisor {
				next.ServeHTTP(w, r)
				return
			}

			if userClaims.BusinessID != businessID {
				logrus.WithFields(logrus.Fields{
					"user_id":     userClaims.UserID,
					"business_id": businessID,
				}).Warn("middleware: acesso a negócio de outro usuário")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem acesso a este negócio", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
