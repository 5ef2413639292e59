package auth

import (
	"errors"
	"log/slog"
	"time"
)

// Account is the credential-side view of a user, including fields that are
// never serialized to callers.
type Account struct {
	ID               int64
	Email            string
	Name             string
	Role             string
	Department       string
	PasswordHash     string
	ResetTokenHash   *string
	ResetTokenExpiry *time.Time
}

func (a *Account) Identity() *User {
	return &User{
		ID:         a.ID,
		Email:      a.Email,
		Name:       a.Name,
		Role:       a.Role,
		Department: a.Department,
	}
}

type RepositoryAPI interface {
	GetByEmail(email string) (*Account, error)
	GetByID(id int64) (*Account, error)
	Create(account *Account) error
	SetResetToken(userID int64, tokenHash string, expiry time.Time) error
	GetByResetTokenHash(tokenHash string) (*Account, error)
	UpdatePasswordAndClearReset(userID int64, passwordHash string) error
}

type ServiceAPI interface {
	Register(dto RegisterDTO) (*User, AuthTokens, error)
	Authenticate(dto LoginDTO) (*User, AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserByID(userID int64) (*User, error)
	IssueResetToken(email string) (string, error)
	ResetPassword(dto ResetPasswordDTO) error
}

var ErrEmailTaken = errors.New("email already registered")

// Service performs authentication and credential management.
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	logger         *slog.Logger
	bcryptCost     int
	resetTokenTTL  time.Duration
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, logger *slog.Logger, bcryptCost int, resetTokenTTL time.Duration) *Service {
	if resetTokenTTL <= 0 {
		resetTokenTTL = 10 * time.Minute
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		logger:         logger,
		bcryptCost:     bcryptCost,
		resetTokenTTL:  resetTokenTTL,
	}
}

// Register creates an account with a freshly hashed password. The password
// is hashed exactly once here; no other write path re-hashes it.
func (s *Service) Register(dto RegisterDTO) (*User, AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, AuthTokens{}, err
	}

	email := NormalizedEmail(dto.Email)
	if existing, err := s.repo.GetByEmail(email); err == nil && existing != nil {
		s.logger.Warn("registration rejected: email already in use", "email", email)
		return nil, AuthTokens{}, ErrEmailTaken
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		return nil, AuthTokens{}, err
	}

	role := dto.Role
	if role == "" {
		role = "employee"
	}

	account := &Account{
		Email:        email,
		Name:         dto.Name,
		Role:         role,
		Department:   dto.Department,
		PasswordHash: hash,
	}

	if err := s.repo.Create(account); err != nil {
		s.logger.Error("failed to create account", "error", err, "email", email)
		return nil, AuthTokens{}, err
	}

	tokens, err := s.issueTokens(account)
	if err != nil {
		return nil, AuthTokens{}, err
	}

	s.logger.Info("account registered", "user_id", account.ID, "role", role)
	return account.Identity(), tokens, nil
}

// Authenticate validates credentials and returns the identity plus tokens.
// Unknown email and wrong password produce the same error.
func (s *Service) Authenticate(dto LoginDTO) (*User, AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, AuthTokens{}, err
	}

	account, err := s.repo.GetByEmail(NormalizedEmail(dto.Email))
	if err != nil {
		return nil, AuthTokens{}, ErrInvalidCredentials
	}

	if err := VerifyPassword(account.PasswordHash, dto.Password); err != nil {
		return nil, AuthTokens{}, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(account)
	if err != nil {
		return nil, AuthTokens{}, err
	}

	return account.Identity(), tokens, nil
}

// RefreshTokens validates a refresh token and returns a new pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	userID, err := claims.UserIDInt()
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}

	account, err := s.repo.GetByID(userID)
	if err != nil {
		return AuthTokens{}, ErrUserNotFound
	}

	return s.issueTokens(account)
}

// ValidateAccessToken validates an access token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GetUserByID loads the identity referenced by a verified token. Used by the
// auth middleware; a missing user means the session no longer identifies anyone.
func (s *Service) GetUserByID(userID int64) (*User, error) {
	account, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return account.Identity(), nil
}

// IssueResetToken generates a reset token for the account, persists only its
// hash plus expiry, and returns the raw token for out-of-band delivery.
// Any prior pending reset is overwritten.
func (s *Service) IssueResetToken(email string) (string, error) {
	account, err := s.repo.GetByEmail(NormalizedEmail(email))
	if err != nil {
		return "", ErrUserNotFound
	}

	raw, hash, err := GenerateResetToken()
	if err != nil {
		s.logger.Error("reset token generation failed", "error", err)
		return "", err
	}

	expiry := time.Now().Add(s.resetTokenTTL)
	if err := s.repo.SetResetToken(account.ID, hash, expiry); err != nil {
		s.logger.Error("failed to persist reset token", "error", err, "user_id", account.ID)
		return "", err
	}

	s.logger.Info("reset token issued", "user_id", account.ID)
	return raw, nil
}

// ResetPassword consumes a reset token: on success the password hash is
// replaced and both reset fields are cleared, so the token is single-use.
func (s *Service) ResetPassword(dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	account, err := s.repo.GetByResetTokenHash(HashResetToken(dto.Token))
	if err != nil {
		return ErrResetTokenInvalid
	}

	if account.ResetTokenExpiry == nil || time.Now().After(*account.ResetTokenExpiry) {
		return ErrResetTokenInvalid
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		return err
	}

	if err := s.repo.UpdatePasswordAndClearReset(account.ID, hash); err != nil {
		s.logger.Error("failed to update password", "error", err, "user_id", account.ID)
		return err
	}

	s.logger.Info("password reset completed", "user_id", account.ID)
	return nil
}

func (s *Service) issueTokens(account *Account) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(account.ID, account.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
