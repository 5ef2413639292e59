package user

import "time"

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

type User struct {
	ID               int64      `gorm:"primaryKey"`
	Email            string     `gorm:"column:email;uniqueIndex;not null"`
	Name             string     `gorm:"column:name;not null"`
	PasswordHash     string     `gorm:"column:password_hash;not null"`
	Role             string     `gorm:"column:role;not null;default:employee"`
	Department       string     `gorm:"column:department;not null"`
	ResetTokenHash   *string    `gorm:"column:reset_token_hash"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry"`
	CreatedAt        time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}
