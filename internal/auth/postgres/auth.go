package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/leave-management/internal/auth"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

// Repository implements auth.RepositoryAPI using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func toAccount(m *userDatamodel.User) *auth.Account {
	return &auth.Account{
		ID:               m.ID,
		Email:            m.Email,
		Name:             m.Name,
		Role:             m.Role,
		Department:       m.Department,
		PasswordHash:     m.PasswordHash,
		ResetTokenHash:   m.ResetTokenHash,
		ResetTokenExpiry: m.ResetTokenExpiry,
	}
}

func (r *Repository) GetByEmail(email string) (*auth.Account, error) {
	var m userDatamodel.User
	if err := r.db.Where("lower(email) = lower(?)", email).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return toAccount(&m), nil
}

func (r *Repository) GetByID(id int64) (*auth.Account, error) {
	var m userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return toAccount(&m), nil
}

func (r *Repository) Create(account *auth.Account) error {
	m := &userDatamodel.User{
		Email:        account.Email,
		Name:         account.Name,
		PasswordHash: account.PasswordHash,
		Role:         account.Role,
		Department:   account.Department,
	}
	if err := r.db.Create(m).Error; err != nil {
		return err
	}
	account.ID = m.ID
	return nil
}

// SetResetToken overwrites any pending reset for the user.
func (r *Repository) SetResetToken(userID int64, tokenHash string, expiry time.Time) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token_hash":   tokenHash,
			"reset_token_expiry": expiry,
			"updated_at":         time.Now(),
		}).Error
}

func (r *Repository) GetByResetTokenHash(tokenHash string) (*auth.Account, error) {
	var m userDatamodel.User
	if err := r.db.Where("reset_token_hash = ?", tokenHash).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return toAccount(&m), nil
}

// UpdatePasswordAndClearReset replaces the stored hash and invalidates the
// reset token in the same statement.
func (r *Repository) UpdatePasswordAndClearReset(userID int64, passwordHash string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash":      passwordHash,
			"reset_token_hash":   nil,
			"reset_token_expiry": nil,
			"updated_at":         time.Now(),
		}).Error
}
