package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/logs"
	"gadgetstore/internal/models"
	"gadgetstore/internal/services"
	"gadgetstore/pkg/rabbitmq"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserRepository) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) SetRole(ctx context.Context, id, roleID string) error {
	return m.Called(ctx, id, roleID).Error(0)
}

// MockCodeRepository is a mock implementation of repositories.VerificationCodeRepository
type MockCodeRepository struct {
	mock.Mock
}

func (m *MockCodeRepository) Create(ctx context.Context, code *models.VerificationCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockCodeRepository) GetLatest(ctx context.Context, email string) (*models.VerificationCode, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationCode), args.Error(1)
}

func (m *MockCodeRepository) DeleteByEmail(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// MockRoleRepository is a mock implementation of repositories.DictionaryRepository[models.Role]
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) List(ctx context.Context) ([]models.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Role), args.Error(1)
}

func (m *MockRoleRepository) GetByID(ctx context.Context, id string) (*models.Role, error) {
	return m.role(m.Called(ctx, id))
}

func (m *MockRoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	return m.role(m.Called(ctx, name))
}

func (m *MockRoleRepository) role(args mock.Arguments) (*models.Role, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}

func (m *MockRoleRepository) Create(ctx context.Context, item *models.Role) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockRoleRepository) Update(ctx context.Context, id string, item *models.Role) error {
	return m.Called(ctx, id, item).Error(0)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

const testJWTSecret = "test_jwt_secret"

type authMocks struct {
	users     *MockUserRepository
	codes     *MockCodeRepository
	roles     *MockRoleRepository
	publisher *recordingPublisher
}

func newAuthService() (*services.AuthService, *authMocks) {
	m := &authMocks{
		users:     new(MockUserRepository),
		codes:     new(MockCodeRepository),
		roles:     new(MockRoleRepository),
		publisher: &recordingPublisher{},
	}
	svc := services.NewAuthService(m.users, m.codes, m.roles, m.publisher, services.AuthConfig{
		Secret:   testJWTSecret,
		TokenTTL: time.Hour,
		CodeTTL:  10 * time.Minute,
	}, logs.Discard())
	return svc, m
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Register(t *testing.T) {
	authService, m := newAuthService()
	userRole := &models.Role{Base: models.Base{ID: "role-user"}, Name: models.RoleUser}

	in := services.RegisterInput{Username: "testuser", Email: "Test@Example.com ", Password: "password123"}

	m.users.On("GetByUsername", mock.Anything, "testuser").Return(nil, apperrors.ErrUserNotFound).Once()
	m.users.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, apperrors.ErrUserNotFound).Once()
	m.roles.On("GetByName", mock.Anything, models.RoleUser).Return(userRole, nil).Once()
	m.users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "test@example.com" &&
			u.RoleID == "role-user" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")) == nil
	})).Return(nil).Once()

	user, err := authService.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role.Name)
	m.users.AssertExpectations(t)
	m.roles.AssertExpectations(t)

	// Username already taken
	m.users.On("GetByUsername", mock.Anything, "testuser").Return(&models.User{Base: models.Base{ID: "1"}}, nil).Once()
	_, err = authService.Register(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	// Email already registered
	m.users.On("GetByUsername", mock.Anything, "testuser").Return(nil, apperrors.ErrUserNotFound).Once()
	m.users.On("GetByEmail", mock.Anything, "test@example.com").Return(&models.User{Base: models.Base{ID: "1"}}, nil).Once()
	_, err = authService.Register(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	m.users.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	authService, m := newAuthService()
	user := &models.User{
		Base:     models.Base{ID: "user-123"},
		Username: "testuser",
		Email:    "test@example.com",
		Password: hashed(t, "password123"),
		Role:     &models.Role{Name: models.RoleAdmin},
	}

	m.users.On("GetByEmail", mock.Anything, "test@example.com").Return(user, nil).Once()
	token, loggedIn, err := authService.Login(context.Background(), "test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, models.RoleAdmin, claims["role"])

	// Wrong password
	m.users.On("GetByEmail", mock.Anything, "test@example.com").Return(user, nil).Once()
	_, _, err = authService.Login(context.Background(), "test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Unknown user gets the same answer
	m.users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrUserNotFound).Once()
	_, _, err = authService.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	m.users.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService, _ := newAuthService()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"email":   "test@example.com",
		"role":    models.RoleUser,
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	require.NoError(t, err)
	assert.Equal(t, &services.TokenClaims{UserID: "user-123", Email: "test@example.com", Role: models.RoleUser}, claims)

	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	otherSecret, _ := token.SignedString([]byte("another_secret"))
	_, err = authService.ValidateToken(otherSecret)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAuthService_RequestRecovery(t *testing.T) {
	authService, m := newAuthService()
	user := &models.User{Base: models.Base{ID: "user-123"}, Email: "test@example.com"}

	m.users.On("GetByEmail", mock.Anything, "test@example.com").Return(user, nil).Once()
	m.codes.On("DeleteByEmail", mock.Anything, "test@example.com").Return(nil).Once()

	var stored *models.VerificationCode
	m.codes.On("Create", mock.Anything, mock.AnythingOfType("*models.VerificationCode")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.VerificationCode) }).
		Return(nil).Once()

	require.NoError(t, authService.RequestRecovery(context.Background(), "test@example.com"))
	m.codes.AssertExpectations(t)

	require.NotNil(t, stored)
	assert.Regexp(t, `^\d{6}$`, stored.Code)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), stored.ExpiresAt, 5*time.Second)

	require.Len(t, m.publisher.events, 1)
	assert.Equal(t, rabbitmq.RoutingMailRecoveryCode, m.publisher.events[0].RoutingKey)
	event := m.publisher.events[0].Payload.(rabbitmq.RecoveryCodeEvent)
	assert.Equal(t, stored.Code, event.Code)

	// Unknown email
	m.users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrUserNotFound).Once()
	err := authService.RequestRecovery(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAuthService_VerifyRecovery(t *testing.T) {
	authService, m := newAuthService()
	ctx := context.Background()

	valid := &models.VerificationCode{Email: "test@example.com", Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}
	m.codes.On("GetLatest", mock.Anything, "test@example.com").Return(valid, nil).Twice()
	assert.NoError(t, authService.VerifyRecovery(ctx, "test@example.com", "123456"))
	m.codes.On("DeleteByEmail", mock.Anything, "test@example.com").Return(nil).Once()
	assert.ErrorIs(t, authService.VerifyRecovery(ctx, "test@example.com", "654321"), apperrors.ErrInvalidCode)

	expired := &models.VerificationCode{Email: "old@example.com", Code: "123456", ExpiresAt: time.Now().Add(-time.Minute)}
	m.codes.On("GetLatest", mock.Anything, "old@example.com").Return(expired, nil).Once()
	m.codes.On("DeleteByEmail", mock.Anything, "old@example.com").Return(nil).Once()
	assert.ErrorIs(t, authService.VerifyRecovery(ctx, "old@example.com", "123456"), apperrors.ErrCodeExpired)

	m.codes.On("GetLatest", mock.Anything, "none@example.com").Return(nil, apperrors.ErrInvalidCode).Once()
	assert.ErrorIs(t, authService.VerifyRecovery(ctx, "none@example.com", "123456"), apperrors.ErrInvalidCode)
	m.codes.AssertExpectations(t)
}

func TestAuthService_ResetPassword(t *testing.T) {
	authService, m := newAuthService()
	ctx := context.Background()
	user := &models.User{Base: models.Base{ID: "user-123"}, Email: "test@example.com"}
	code := &models.VerificationCode{Email: user.Email, Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}

	m.codes.On("GetLatest", mock.Anything, user.Email).Return(code, nil).Once()
	m.users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil).Once()
	m.users.On("UpdatePassword", mock.Anything, user.ID, mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password")) == nil
	})).Return(nil).Once()
	m.codes.On("DeleteByEmail", mock.Anything, user.Email).Return(nil).Once()

	require.NoError(t, authService.ResetPassword(ctx, user.Email, "123456", "new-password"))
	m.users.AssertExpectations(t)
	m.codes.AssertExpectations(t)

	m.codes.On("GetLatest", mock.Anything, user.Email).Return(code, nil).Once()
	m.codes.On("DeleteByEmail", mock.Anything, user.Email).Return(nil).Once()
	assert.ErrorIs(t, authService.ResetPassword(ctx, user.Email, "000000", "new-password"), apperrors.ErrInvalidCode)
	m.codes.AssertExpectations(t)
}
