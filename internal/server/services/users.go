package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/cryptox"
	"github.com/dmitrijs2005/mixmini/internal/dbx"
	"github.com/dmitrijs2005/mixmini/internal/server/auth"
	"github.com/dmitrijs2005/mixmini/internal/server/config"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type credentials struct {
	Email    string `validate:"required,email,max=320"`
	Password string `validate:"required,min=8,max=128"`
}

// UserService is the authentication provider: registration, cookie login,
// current user resolution and password reset.
type UserService struct {
	db                 *sql.DB
	repomanager        repomanager.RepositoryManager
	hasher             *cryptox.PasswordHasher
	validate           *validator.Validate
	notifier           ResetNotifier
	jwtSecret          []byte
	tokenLifetime      time.Duration
	resetTokenLifetime time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, notifier ResetNotifier) *UserService {
	return &UserService{
		db:                 db,
		repomanager:        m,
		hasher:             cryptox.NewPasswordHasher(cryptox.DefaultParams()),
		validate:           validator.New(),
		notifier:           notifier,
		jwtSecret:          []byte(cfg.SecretKey),
		tokenLifetime:      cfg.TokenLifetime,
		resetTokenLifetime: cfg.ResetTokenLifetime,
	}
}

// TokenLifetime is the session lifetime, also used as the cookie Max-Age.
func (s *UserService) TokenLifetime() time.Duration {
	return s.tokenLifetime
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateCredentials maps validator failures to client-facing messages.
func (s *UserService) validateCredentials(email, password string) error {
	err := s.validate.Struct(&credentials{Email: email, Password: password})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "Email":
		return common.NewValidationError("Invalid email address")
	case fe.Tag() == "min" || fe.Tag() == "required":
		return common.NewValidationError("Password must be at least %d characters.", common.MinPasswordLength)
	default:
		return common.NewValidationError("Password is too long")
	}
}

// Register creates an active, regular user.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	return s.CreateUser(ctx, email, password, false)
}

// CreateUser validates the credentials and stores a new active user.
// A taken email yields common.ErrorAlreadyExists.
func (s *UserService) CreateUser(ctx context.Context, email, password string, superuser bool) (*models.User, error) {
	email = normalizeEmail(email)
	if err := s.validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hash,
		IsActive:       true,
		IsSuperuser:    superuser,
	}

	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns a session token. Unknown email,
// wrong password and inactive account all yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}

	if !s.hasher.Verify(password, user.HashedPassword) || !user.IsActive {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenLifetime)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// CurrentUser resolves a session token to an active user. Every failure is
// reported as common.ErrorUnauthorized.
func (s *UserService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// ForgotPassword issues a one-time reset token for an active user and passes
// it to the notifier. Unknown or inactive emails are silently ignored.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.ResetTokens(tx)
		if err := repo.DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		return repo.Create(ctx, user.ID, common.HashToken(token), s.resetTokenLifetime)
	})
	if err != nil {
		return err
	}

	return s.notifier.NotifyPasswordReset(ctx, user, token)
}

// ResetPassword sets a new password using a token from ForgotPassword.
// Unknown, expired or orphaned tokens yield common.ErrInvalidToken.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < common.MinPasswordLength {
		return common.NewValidationError("Password must be at least %d characters.", common.MinPasswordLength)
	}
	if len(password) > 128 {
		return common.NewValidationError("Password is too long")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.repomanager.ResetTokens(tx)

		rt, err := tokens.Find(ctx, common.HashToken(token))
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return err
		}
		if rt.Expires.Before(time.Now()) {
			return common.ErrInvalidToken
		}

		users := s.repomanager.Users(tx)
		user, err := users.GetByID(ctx, rt.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return err
		}
		if !user.IsActive {
			return common.ErrInvalidToken
		}

		if err := users.UpdatePassword(ctx, user.ID, hash); err != nil {
			return err
		}
		return tokens.DeleteByUser(ctx, user.ID)
	})
}
