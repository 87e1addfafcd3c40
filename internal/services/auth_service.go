package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
	"gadgetstore/pkg/rabbitmq"
)

// AuthConfig configures token signing and password recovery.
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
	CodeTTL  time.Duration
}

// TokenClaims is what the API trusts about the caller of a request.
type TokenClaims struct {
	UserID string
	Email  string
	Role   string
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	users     repositories.UserRepository
	codes     repositories.VerificationCodeRepository
	roles     repositories.DictionaryRepository[models.Role]
	publisher EventPublisher
	jwtSecret []byte
	tokenTTL  time.Duration
	codeTTL   time.Duration
	logger    *slog.Logger

	now          func() time.Time
	generateCode func() (string, error)
}

// NewAuthService creates a new AuthService. publisher may be nil.
func NewAuthService(
	users repositories.UserRepository,
	codes repositories.VerificationCodeRepository,
	roles repositories.DictionaryRepository[models.Role],
	publisher EventPublisher,
	cfg AuthConfig,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:        users,
		codes:        codes,
		roles:        roles,
		publisher:    publisher,
		jwtSecret:    []byte(cfg.Secret),
		tokenTTL:     cfg.TokenTTL,
		codeTTL:      cfg.CodeTTL,
		logger:       logger,
		now:          time.Now,
		generateCode: randomCode,
	}
}

// Register creates a customer account with the default role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)

	if err := s.ensureFree(ctx, in.Username, email, ""); err != nil {
		return nil, err
	}

	role, err := s.roles.GetByName(ctx, models.RoleUser)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve default role")
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  in.Username,
		Email:     email,
		Password:  hashed,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		RoleID:    role.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrConflict.WithDetails("username or email already registered")
		}
		return nil, err
	}
	user.Role = role

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// ensureFree checks that username and email are not used by another account
// than exceptID.
func (s *AuthService) ensureFree(ctx context.Context, username, email, exceptID string) error {
	existing, err := s.users.GetByUsername(ctx, username)
	if err == nil && existing != nil && existing.ID != exceptID {
		return apperrors.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	existing, err = s.users.GetByEmail(ctx, email)
	if err == nil && existing != nil && existing.ID != exceptID {
		return apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}
	return nil
}

// Login authenticates a user by email and returns a signed JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	role := ""
	if user.Role != nil {
		role = user.Role.Name
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    role,
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate token")
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperrors.ErrInvalidToken.WithDetails(err.Error())
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, apperrors.ErrInvalidToken.WithDetails("missing user_id")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &TokenClaims{UserID: userID, Email: email, Role: role}, nil
}

// RequestRecovery issues a fresh recovery code for email and hands it to the
// mailer through the broker. Previous codes for the address are discarded.
func (s *AuthService) RequestRecovery(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		return err
	}

	if err := s.codes.DeleteByEmail(ctx, email); err != nil {
		return err
	}

	code, err := s.generateCode()
	if err != nil {
		return errors.Wrap(err, "failed to generate recovery code")
	}

	record := &models.VerificationCode{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.codeTTL),
	}
	if err := s.codes.Create(ctx, record); err != nil {
		return err
	}

	publish(ctx, s.publisher, s.logger, rabbitmq.RoutingMailRecoveryCode, rabbitmq.RecoveryCodeEvent{
		Email:     email,
		Code:      code,
		ExpiresAt: record.ExpiresAt,
	})
	s.logger.Info("recovery code issued", "email", email, "expires_at", record.ExpiresAt)
	return nil
}

// VerifyRecovery checks code against the latest code issued for email. A
// wrong code deletes the stored one, so the user must request a new code.
func (s *AuthService) VerifyRecovery(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	stored, err := s.codes.GetLatest(ctx, email)
	if err != nil {
		return err
	}

	if s.now().After(stored.ExpiresAt) {
		if err := s.codes.DeleteByEmail(ctx, email); err != nil {
			s.logger.Warn("failed to delete expired recovery code", "email", email, "error", err)
		}
		return apperrors.ErrCodeExpired
	}

	if subtle.ConstantTimeCompare([]byte(stored.Code), []byte(code)) != 1 {
		// One guess per code: a wrong attempt burns it.
		if err := s.codes.DeleteByEmail(ctx, email); err != nil {
			return err
		}
		s.logger.Warn("wrong recovery code, code discarded", "email", email)
		return apperrors.ErrInvalidCode
	}
	return nil
}

// ResetPassword sets a new password once the recovery code is verified.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if err := s.VerifyRecovery(ctx, email, code); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	if err := s.codes.DeleteByEmail(ctx, email); err != nil {
		return err
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// randomCode returns a uniformly distributed 6-digit code.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
