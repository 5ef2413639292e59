package user

import (
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

const (
	RoleEmployee = userDatamodel.RoleEmployee
	RoleAdmin    = userDatamodel.RoleAdmin
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Department   string    `json:"department"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func ValidRole(role string) bool {
	return role == RoleEmployee || role == RoleAdmin
}

var ErrNotFound = errors.New("user not found")

func FromDataModel(m *userDatamodel.User) *User {
	return &User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Department:   m.Department,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
