package handler

import (
	"net/http"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/domain"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/usecases/authenticating"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/apiErrors"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/log"
)

// CreateUserRequest recebe a senha em texto; o hash é gerado no serviço
type CreateUserRequest struct {
	BusinessID string `json:"business_id"`
	Name       string `json:"name"`
	Lastname   string `json:"lastname"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RoleID     int    `json:"role_id"`
}

// CreateUser cria um novo usuário
func CreateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if req.Name == "" || req.Email == "" || req.Password == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Nome, email e senha são obrigatórios", nil)
			return
		}

		user, err := service.CreateUser(r.Context(), &domain.User{
			BusinessID:   req.BusinessID,
			Name:         req.Name,
			Lastname:     req.Lastname,
			Email:        req.Email,
			PasswordHash: req.Password,
			RoleID:       req.RoleID,
		})
		if err != nil {
			writeServiceError(w, r, err, "Erro ao criar usuário", nil)
			return
		}

		log.ForContext(r.Context()).WithFields(log.Fields{
			"user_id":     user.ID,
			"business_id": user.BusinessID,
			"role_id":     user.RoleID,
		}).Info("user: usuário criado")

		writeJSON(w, r, http.StatusCreated, user)
	}
}

// ListUsers lista todos os usuários
func ListUsers(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := service.ListUser(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar usuários", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, users)
	}
}
