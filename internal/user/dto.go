package user

import "time"

// ProfileDTO is the response shape for the current-user endpoint.
// Password hash and reset-token fields are never part of it.
type ProfileDTO struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) ToProfileDTO() ProfileDTO {
	return ProfileDTO{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
	}
}
