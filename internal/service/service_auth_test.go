package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-contact-keeper/internal/adapter"
	"github.com/MKhiriev/go-contact-keeper/internal/config"
	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/MKhiriev/go-contact-keeper/internal/mock"
	"github.com/MKhiriev/go-contact-keeper/internal/store"
	"github.com/MKhiriev/go-contact-keeper/internal/utils"
	"github.com/MKhiriev/go-contact-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func testAppConfig() config.App {
	return config.App{
		Domain:          "contacts.example.com",
		JWTSecret:       "test-secret",
		TokenIssuer:     "go-contact-keeper",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
		ResetTokenTTL:   5 * time.Minute,
	}
}

// newTestAuthSvc builds an authService with gomock collaborators.
func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (AuthService, *mock.MockUserRepository, *mock.MockSessionRepository, *mock.MockMailer) {
	t.Helper()
	users := mock.NewMockUserRepository(ctrl)
	sessions := mock.NewMockSessionRepository(ctrl)
	mailer := mock.NewMockMailer(ctrl)

	svc := NewAuthService(users, sessions, mailer, testAppConfig(), logger.Nop())

	return svc, users, sessions, mailer
}

func TestAuthService_Register_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	users.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			// The stored password must be a bcrypt hash of the plaintext.
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("super-secret")))
			u.UserID = 7
			return u, nil
		})

	registered, err := svc.Register(ctx, models.RegisterRequest{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "super-secret",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), registered.UserID)
	assert.Equal(t, "alice@example.com", registered.Email)
}

func TestAuthService_Register_EmptyFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "alice@example.com"})

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	users.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{}, store.ErrEmailAlreadyExists)

	_, err := svc.Register(ctx, models.RegisterRequest{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "super-secret",
	})

	assert.ErrorIs(t, err, store.ErrEmailAlreadyExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, sessions, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("super-secret"), passwordHashCost)
	require.NoError(t, err)

	users.EXPECT().FindUserByEmail(ctx, "alice@example.com").
		Return(models.User{UserID: 7, Email: "alice@example.com", Password: string(hash)}, nil)
	sessions.EXPECT().ReplaceUserSession(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, s models.Session) (models.Session, error) {
			assert.Equal(t, int64(7), s.UserID)
			assert.NotEmpty(t, s.AccessToken)
			assert.NotEmpty(t, s.RefreshToken)
			assert.NotEqual(t, s.AccessToken, s.RefreshToken)
			assert.True(t, s.RefreshTokenValidUntil.After(s.AccessTokenValidUntil))
			s.SessionID = 42
			return s, nil
		})

	session, err := svc.Login(ctx, "alice@example.com", "super-secret")

	require.NoError(t, err)
	assert.Equal(t, int64(42), session.SessionID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("super-secret"), passwordHashCost)
	require.NoError(t, err)

	users.EXPECT().FindUserByEmail(ctx, "alice@example.com").
		Return(models.User{UserID: 7, Email: "alice@example.com", Password: string(hash)}, nil)

	_, err = svc.Login(ctx, "alice@example.com", "not-the-password")

	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	users.EXPECT().FindUserByEmail(ctx, "ghost@example.com").
		Return(models.User{}, store.ErrUserNotFound)

	_, err := svc.Login(ctx, "ghost@example.com", "whatever")

	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sessions, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	current := models.Session{
		SessionID:              42,
		UserID:                 7,
		RefreshToken:           "refresh-token",
		RefreshTokenValidUntil: time.Now().Add(time.Hour),
	}

	sessions.EXPECT().FindSessionByIDAndToken(ctx, int64(42), "refresh-token").Return(current, nil)
	sessions.EXPECT().RotateSession(ctx, int64(42), "refresh-token", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, _ string, replacement models.Session) (models.Session, error) {
			assert.Equal(t, int64(7), replacement.UserID)
			assert.NotEmpty(t, replacement.AccessToken)
			assert.NotEqual(t, "refresh-token", replacement.RefreshToken)
			replacement.SessionID = 43
			return replacement, nil
		})

	rotated, err := svc.Refresh(ctx, 42, "refresh-token")

	require.NoError(t, err)
	assert.Equal(t, int64(43), rotated.SessionID)
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sessions, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	expired := models.Session{
		SessionID:              42,
		UserID:                 7,
		RefreshToken:           "refresh-token",
		RefreshTokenValidUntil: time.Now().Add(-time.Minute),
	}

	sessions.EXPECT().FindSessionByIDAndToken(ctx, int64(42), "refresh-token").Return(expired, nil)
	// The stale row gets cleaned up.
	sessions.EXPECT().DeleteSessionByID(ctx, int64(42)).Return(nil)

	_, err := svc.Refresh(ctx, 42, "refresh-token")

	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestAuthService_Refresh_UnknownPair(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sessions, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	sessions.EXPECT().FindSessionByIDAndToken(ctx, int64(42), "stale-token").
		Return(models.Session{}, store.ErrSessionNotFound)

	_, err := svc.Refresh(ctx, 42, "stale-token")

	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sessions, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	sessions.EXPECT().DeleteSessionByID(ctx, int64(42)).Return(nil)

	require.NoError(t, svc.Logout(ctx, 42))
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sessions, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	live := models.Session{
		SessionID:             42,
		UserID:                7,
		AccessToken:           "access-token",
		AccessTokenValidUntil: time.Now().Add(10 * time.Minute),
	}

	sessions.EXPECT().FindSessionByAccessToken(ctx, "access-token").Return(live, nil)

	session, err := svc.Authenticate(ctx, "access-token")

	require.NoError(t, err)
	assert.Equal(t, int64(7), session.UserID)
}

func TestAuthService_Authenticate_ExpiredAccessToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sessions, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	stale := models.Session{
		SessionID:             42,
		UserID:                7,
		AccessToken:           "access-token",
		AccessTokenValidUntil: time.Now().Add(-time.Second),
	}

	sessions.EXPECT().FindSessionByAccessToken(ctx, "access-token").Return(stale, nil)

	_, err := svc.Authenticate(ctx, "access-token")

	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestAuthService_RequestResetEmail_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, _, mailer := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	cfg := testAppConfig()

	users.EXPECT().FindUserByEmail(ctx, "alice@example.com").
		Return(models.User{UserID: 7, Email: "alice@example.com"}, nil)
	mailer.EXPECT().SendResetEmail(ctx, "alice@example.com", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, resetLink string) error {
			prefix := "https://contacts.example.com/reset-password?token="
			require.True(t, strings.HasPrefix(resetLink, prefix), "unexpected reset link: %s", resetLink)

			// The emailed token must round-trip through our own verifier.
			parsed, err := utils.ValidateAndParseResetToken(
				strings.TrimPrefix(resetLink, prefix), cfg.JWTSecret, cfg.TokenIssuer)
			require.NoError(t, err)
			assert.Equal(t, int64(7), parsed.UserID)
			assert.Equal(t, "alice@example.com", parsed.ResetClaims.Email)
			return nil
		})

	require.NoError(t, svc.RequestResetEmail(ctx, "alice@example.com"))
}

func TestAuthService_RequestResetEmail_UnknownEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	users.EXPECT().FindUserByEmail(ctx, "ghost@example.com").
		Return(models.User{}, store.ErrUserNotFound)

	err := svc.RequestResetEmail(ctx, "ghost@example.com")

	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestAuthService_RequestResetEmail_MailerFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, _, mailer := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	users.EXPECT().FindUserByEmail(ctx, "alice@example.com").
		Return(models.User{UserID: 7, Email: "alice@example.com"}, nil)
	mailer.EXPECT().SendResetEmail(ctx, "alice@example.com", gomock.Any()).
		Return(adapter.ErrSendingEmail)

	err := svc.RequestResetEmail(ctx, "alice@example.com")

	assert.ErrorIs(t, err, adapter.ErrSendingEmail)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, sessions, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	cfg := testAppConfig()

	token, err := utils.GenerateResetToken(cfg.TokenIssuer, 7, "alice@example.com", cfg.ResetTokenTTL, cfg.JWTSecret)
	require.NoError(t, err)

	gomock.InOrder(
		users.EXPECT().FindUserByIDAndEmail(ctx, int64(7), "alice@example.com").
			Return(models.User{UserID: 7, Email: "alice@example.com"}, nil),
		users.EXPECT().UpdateUserPassword(ctx, int64(7), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ int64, passwordHash string) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("brand-new-password")))
				return nil
			}),
		sessions.EXPECT().DeleteSessionsByUser(ctx, int64(7)).Return(nil),
	)

	require.NoError(t, svc.ResetPassword(ctx, token.String(), "brand-new-password"))
}

func TestAuthService_ResetPassword_BadToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	err := svc.ResetPassword(context.Background(), "definitely-not-a-jwt", "brand-new-password")

	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)
	cfg := testAppConfig()

	expired, err := utils.GenerateResetToken(cfg.TokenIssuer, 7, "alice@example.com", -time.Minute, cfg.JWTSecret)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), expired.String(), "brand-new-password")

	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_ResetPassword_AccountGone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	cfg := testAppConfig()

	token, err := utils.GenerateResetToken(cfg.TokenIssuer, 7, "alice@example.com", cfg.ResetTokenTTL, cfg.JWTSecret)
	require.NoError(t, err)

	users.EXPECT().FindUserByIDAndEmail(ctx, int64(7), "alice@example.com").
		Return(models.User{}, store.ErrUserNotFound)

	err = svc.ResetPassword(ctx, token.String(), "brand-new-password")

	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestAuthService_Authenticate_EmptyToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Authenticate(context.Background(), "")

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_Refresh_RotationLost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sessions, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	current := models.Session{
		SessionID:              42,
		UserID:                 7,
		RefreshToken:           "refresh-token",
		RefreshTokenValidUntil: time.Now().Add(time.Hour),
	}

	// The session existed at lookup time but a concurrent refresh consumed
	// the token before our delete ran.
	sessions.EXPECT().FindSessionByIDAndToken(ctx, int64(42), "refresh-token").Return(current, nil)
	sessions.EXPECT().RotateSession(ctx, int64(42), "refresh-token", gomock.Any()).
		Return(models.Session{}, store.ErrSessionNotFound)

	_, err := svc.Refresh(ctx, 42, "refresh-token")

	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	assert.False(t, errors.Is(err, ErrSessionExpired))
}
