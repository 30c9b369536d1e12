package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Perfis de acesso. Administradores e consultores acessam qualquer negócio;
// donos acessam apenas o próprio.
const (
	RoleAdmin   = 1
	RoleAdvisor = 2
	RoleOwner   = 3
)

func IsValidRole(role int) bool {
	return role == RoleAdmin || role == RoleAdvisor || role == RoleOwner
}

type User struct {
	ID           int        `json:"id"`
	BusinessID   string     `json:"business_id"`
	Name         string     `json:"name"`
	Lastname     string     `json:"lastname"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Active       bool       `json:"active"`
	RoleID       int        `json:"role_id"`
	AvatarURL    *string    `json:"avatar_url"`
	Deleted      bool       `json:"deleted"`
	DeletedAt    *time.Time `json:"deleted_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Claims struct {
	UserID        int
	UserName      string
	UserLastname  string
	UserEmail     string
	UserActive    bool
	UserRoleID    int
	UserAvatarURL *string
	BusinessID    string
	jwt.RegisteredClaims
}
