package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/proganas/extendable-order-payment-api/internal/domain/errors"
	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	"github.com/proganas/extendable-order-payment-api/internal/domain/repository"
)

const invalidCredentials = "Invalid login credentials"

type RegisterParams struct {
	Name                 string `json:"name" validate:"required,max=255,noscript"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=6,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type LoginParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is an authenticated user together with its access token.
type Session struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

type AuthUsecase struct {
	userRepo    repository.UserRepository
	revocations repository.TokenRevocationStore
	tokens      *TokenManager
	validator   *Validator
	recorder    Recorder
	logger      *zap.Logger
}

func NewAuthUsecase(
	userRepo repository.UserRepository,
	revocations repository.TokenRevocationStore,
	tokens *TokenManager,
	validator *Validator,
	recorder Recorder,
	logger *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:    userRepo,
		revocations: revocations,
		tokens:      tokens,
		validator:   validator,
		recorder:    recorder,
		logger:      logger,
	}
}

// Register creates an account and signs it in.
func (u *AuthUsecase) Register(ctx context.Context, params RegisterParams) (*Session, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Email = normalizeEmail(params.Email)
	if err := u.validator.Struct(params); err != nil {
		return nil, err
	}

	exists, err := u.userRepo.ExistsByEmail(ctx, params.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainErrors.NewFieldValidationError("email", "The email has already been taken.")
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{Name: params.Name, Email: params.Email, PasswordHash: hash}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	u.recorder.AuthAttempt("register", true)
	u.logger.Info("User registered", zap.Int64("user_id", user.ID))
	return u.issue(user)
}

// Login exchanges credentials for a token. Unknown emails and wrong passwords
// produce the same error.
func (u *AuthUsecase) Login(ctx context.Context, params LoginParams) (*Session, error) {
	params.Email = normalizeEmail(params.Email)
	if err := u.validator.Struct(params); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByEmail(ctx, params.Email)
	if err != nil {
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
		_ = VerifyPassword(string(dummyHash), params.Password)
		u.recorder.AuthAttempt("login", false)
		return nil, domainErrors.NewUnauthenticatedError(invalidCredentials)
	}

	if err := VerifyPassword(user.PasswordHash, params.Password); err != nil {
		u.recorder.AuthAttempt("login", false)
		u.logger.Warn("Login rejected", zap.Int64("user_id", user.ID))
		return nil, domainErrors.NewUnauthenticatedError(invalidCredentials)
	}

	u.recorder.AuthAttempt("login", true)
	return u.issue(user)
}

// Authenticate resolves a bearer token to its user. Bad signatures, expired or
// revoked tokens and deleted users are all Unauthenticated.
func (u *AuthUsecase) Authenticate(ctx context.Context, token string) (*model.User, *Claims, error) {
	claims, err := u.tokens.Parse(token)
	if err != nil {
		u.logger.Debug("Token rejected", zap.Error(err))
		return nil, nil, domainErrors.NewUnauthenticatedError("Unauthenticated.")
	}

	revoked, err := u.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, domainErrors.NewUnauthenticatedError("Unauthenticated.")
	}

	userID, _ := claims.UserID()
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, nil, domainErrors.NewUnauthenticatedError("Unauthenticated.")
		}
		return nil, nil, err
	}
	return user, claims, nil
}

// CurrentUser returns the user the token belongs to.
func (u *AuthUsecase) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	user, _, err := u.Authenticate(ctx, token)
	return user, err
}

// Logout revokes the token until it would expire.
func (u *AuthUsecase) Logout(ctx context.Context, token string) error {
	_, claims, err := u.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	if err := u.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}

	u.logger.Info("User logged out", zap.String("subject", claims.Subject))
	return nil
}

func (u *AuthUsecase) issue(user *model.User) (*Session, error) {
	token, claims, err := u.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
