package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/MKhiriev/go-contact-keeper/internal/adapter"
	"github.com/MKhiriev/go-contact-keeper/internal/config"
	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/MKhiriev/go-contact-keeper/internal/store"
	"github.com/MKhiriev/go-contact-keeper/internal/utils"
	"github.com/MKhiriev/go-contact-keeper/models"
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is the bcrypt work factor applied to every stored
// password hash.
const passwordHashCost = 10

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, the opaque session
// token lifecycle, and the emailed password-reset flow. Passwords are hashed
// with bcrypt; reset tokens are short-lived HMAC-SHA256 JWTs.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// sessionRepository persists the opaque token sessions issued at login.
	sessionRepository store.SessionRepository

	// mailer delivers password-reset links.
	mailer adapter.Mailer

	// domain is the public application domain embedded into reset links.
	domain string

	// tokenSignKey is the HMAC secret used to sign and verify reset tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued reset token.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// accessTokenTTL controls how long a newly issued access token remains valid.
	accessTokenTTL time.Duration

	// refreshTokenTTL controls how long a newly issued refresh token remains valid.
	refreshTokenTTL time.Duration

	// resetTokenTTL controls how long an emailed reset token remains valid.
	resetTokenTTL time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given repositories
// and mailer, populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, sessionRepository store.SessionRepository, mailer adapter.Mailer, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		mailer:            mailer,
		domain:            cfg.Domain,
		tokenSignKey:      cfg.JWTSecret,
		tokenIssuer:       cfg.TokenIssuer,
		accessTokenTTL:    cfg.AccessTokenTTL,
		refreshTokenTTL:   cfg.RefreshTokenTTL,
		resetTokenTTL:     cfg.ResetTokenTTL,
		logger:            logger,
	}
}

// Register creates a new user account.
//
// It validates that Email, Name and Password are non-empty, hashes the
// password with bcrypt, and delegates persistence to the UserRepository.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - ErrInvalidDataProvided if any required field is empty.
//   - A wrapped storage error if the repository call fails (e.g. email already
//     registered — see store.ErrEmailAlreadyExists).
func (a *authService) Register(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if request.Email == "" || request.Name == "" || request.Password == "" {
		log.Error().Str("email", request.Email).Msg("invalid registration data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), passwordHashCost)
	if err != nil {
		log.Err(err).Str("func", "authService.Register").Msg("password hashing failed")
		return models.User{}, fmt.Errorf("%w: %w", ErrHashingPassword, err)
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, models.User{
		Email:    request.Email,
		Name:     request.Name,
		Password: string(hash),
	})
	if err != nil {
		log.Err(err).Str("email", request.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return registeredUser, nil
}

// Login authenticates an existing user and opens a fresh session.
//
// It looks up the account by email, compares the supplied password against
// the stored bcrypt hash, and replaces any previous session of the user with
// a newly minted one. A user therefore holds at most one live session.
//
// Returns the stored session or:
//   - ErrInvalidDataProvided if email or password is empty.
//   - A wrapped storage error if the lookup fails (e.g. no such account —
//     see store.ErrUserNotFound).
//   - ErrWrongPassword if the password does not match.
func (a *authService) Login(ctx context.Context, email, password string) (models.Session, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		log.Error().Str("email", email).Msg("invalid login data provided")
		return models.Session{}, ErrInvalidDataProvided
	}

	foundUser, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return models.Session{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(foundUser.Password), []byte(password)); err != nil {
		log.Error().Int64("id", foundUser.UserID).Str("email", foundUser.Email).Msg("wrong password")
		return models.Session{}, ErrWrongPassword
	}

	session, err := a.newSession(foundUser.UserID)
	if err != nil {
		log.Err(err).Str("func", "authService.Login").Msg("session token generation failed")
		return models.Session{}, fmt.Errorf("session token generation failed: %w", err)
	}

	storedSession, err := a.sessionRepository.ReplaceUserSession(ctx, session)
	if err != nil {
		log.Err(err).Int64("user_id", foundUser.UserID).Msg("session creation ended with error")
		return models.Session{}, fmt.Errorf("session creation ended with error: %w", err)
	}

	return storedSession, nil
}

// Refresh exchanges a live refresh token for a replacement session.
//
// The (sessionID, refreshToken) pair must match a stored session exactly.
// Rotation is transactional and single-use: the matched session is deleted
// and a new one inserted in its place, so a second refresh with the same
// token loses the race and fails with store.ErrSessionNotFound.
//
// Returns the replacement session or:
//   - ErrInvalidDataProvided if the token is empty or the id is not positive.
//   - A wrapped store.ErrSessionNotFound if no session matches the pair.
//   - ErrSessionExpired if the refresh token has expired; the stale session
//     is removed.
func (a *authService) Refresh(ctx context.Context, sessionID int64, refreshToken string) (models.Session, error) {
	log := logger.FromContext(ctx)

	if sessionID <= 0 || refreshToken == "" {
		log.Error().Int64("session_id", sessionID).Msg("invalid refresh data provided")
		return models.Session{}, ErrInvalidDataProvided
	}

	currentSession, err := a.sessionRepository.FindSessionByIDAndToken(ctx, sessionID, refreshToken)
	if err != nil {
		log.Err(err).Int64("session_id", sessionID).Msg("session search failed")
		return models.Session{}, fmt.Errorf("session search failed: %w", err)
	}

	if currentSession.RefreshTokenExpired(time.Now()) {
		if err = a.sessionRepository.DeleteSessionByID(ctx, currentSession.SessionID); err != nil {
			log.Err(err).Int64("session_id", sessionID).Msg("stale session removal failed")
		}
		log.Warn().Int64("session_id", sessionID).Msg("refresh token expired")
		return models.Session{}, ErrSessionExpired
	}

	replacement, err := a.newSession(currentSession.UserID)
	if err != nil {
		log.Err(err).Str("func", "authService.Refresh").Msg("session token generation failed")
		return models.Session{}, fmt.Errorf("session token generation failed: %w", err)
	}

	rotatedSession, err := a.sessionRepository.RotateSession(ctx, sessionID, refreshToken, replacement)
	if err != nil {
		log.Err(err).Int64("session_id", sessionID).Msg("session rotation ended with error")
		return models.Session{}, fmt.Errorf("session rotation ended with error: %w", err)
	}

	return rotatedSession, nil
}

// Logout terminates the session. Logging out of an already-terminated
// session succeeds.
func (a *authService) Logout(ctx context.Context, sessionID int64) error {
	log := logger.FromContext(ctx)

	if sessionID <= 0 {
		return ErrInvalidDataProvided
	}

	if err := a.sessionRepository.DeleteSessionByID(ctx, sessionID); err != nil {
		log.Err(err).Int64("session_id", sessionID).Msg("session removal ended with error")
		return fmt.Errorf("session removal ended with error: %w", err)
	}

	return nil
}

// Authenticate resolves an access token to its live session.
//
// Returns the session or:
//   - ErrInvalidDataProvided if the token is empty.
//   - A wrapped store.ErrSessionNotFound if no session carries the token.
//   - ErrSessionExpired if the access token has expired.
func (a *authService) Authenticate(ctx context.Context, accessToken string) (models.Session, error) {
	log := logger.FromContext(ctx)

	if accessToken == "" {
		return models.Session{}, ErrInvalidDataProvided
	}

	session, err := a.sessionRepository.FindSessionByAccessToken(ctx, accessToken)
	if err != nil {
		log.Err(err).Str("func", "authService.Authenticate").Msg("session search by access token failed")
		return models.Session{}, fmt.Errorf("session search by access token failed: %w", err)
	}

	if session.AccessTokenExpired(time.Now()) {
		log.Warn().Int64("session_id", session.SessionID).Msg("access token expired")
		return models.Session{}, ErrSessionExpired
	}

	return session, nil
}

// RequestResetEmail issues a password-reset token for the account registered
// under email and mails the reset link to that address.
//
// The token is a stateless signed JWT binding the user's id and email; no
// server-side record is kept. Returns:
//   - ErrInvalidDataProvided if email is empty.
//   - A wrapped store.ErrUserNotFound if no account is registered under email.
//   - A wrapped adapter.ErrSendingEmail if delivery fails.
func (a *authService) RequestResetEmail(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	if email == "" {
		return ErrInvalidDataProvided
	}

	foundUser, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return fmt.Errorf("user search by email failed: %w", err)
	}

	resetToken, err := utils.GenerateResetToken(a.tokenIssuer, foundUser.UserID, foundUser.Email, a.resetTokenTTL, a.tokenSignKey)
	if err != nil {
		log.Err(err).Int64("user_id", foundUser.UserID).Msg("reset token generation failed")
		return fmt.Errorf("reset token generation failed: %w", err)
	}

	resetLink := fmt.Sprintf("https://%s/reset-password?token=%s", a.domain, url.QueryEscape(resetToken.String()))
	if err = a.mailer.SendResetEmail(ctx, foundUser.Email, resetLink); err != nil {
		log.Err(err).Str("email", foundUser.Email).Msg("reset email delivery failed")
		return fmt.Errorf("reset email delivery failed: %w", err)
	}

	log.Info().Int64("user_id", foundUser.UserID).Msg("reset email requested")
	return nil
}

// ResetPassword redeems a reset token and overwrites the account password.
//
// The token's signature, issuer and expiry are verified, then the account is
// re-resolved by the (id, email) pair carried in the claims so that a token
// survives neither account deletion nor an email change. On success every
// session of the user is terminated.
//
// Returns:
//   - ErrInvalidDataProvided if token or password is empty.
//   - ErrTokenIsExpiredOrInvalid if the token fails verification.
//   - A wrapped store.ErrUserNotFound if the claims no longer match an account.
func (a *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := logger.FromContext(ctx)

	if token == "" || newPassword == "" {
		return ErrInvalidDataProvided
	}

	parsedToken, err := utils.ValidateAndParseResetToken(token, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Err(err).Str("func", "authService.ResetPassword").Msg("reset token rejected")
		return fmt.Errorf("%w: %w", ErrTokenIsExpiredOrInvalid, err)
	}

	foundUser, err := a.userRepository.FindUserByIDAndEmail(ctx, parsedToken.UserID, parsedToken.ResetClaims.Email)
	if err != nil {
		log.Err(err).Int64("user_id", parsedToken.UserID).Msg("user search by id and email failed")
		return fmt.Errorf("user search by id and email failed: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), passwordHashCost)
	if err != nil {
		log.Err(err).Str("func", "authService.ResetPassword").Msg("password hashing failed")
		return fmt.Errorf("%w: %w", ErrHashingPassword, err)
	}

	if err = a.userRepository.UpdateUserPassword(ctx, foundUser.UserID, string(hash)); err != nil {
		log.Err(err).Int64("user_id", foundUser.UserID).Msg("password update ended with error")
		return fmt.Errorf("password update ended with error: %w", err)
	}

	// Terminate every session so stolen credentials die with the old password.
	if err = a.sessionRepository.DeleteSessionsByUser(ctx, foundUser.UserID); err != nil {
		log.Err(err).Int64("user_id", foundUser.UserID).Msg("session cleanup after password reset failed")
		return fmt.Errorf("session cleanup after password reset failed: %w", err)
	}

	log.Info().Int64("user_id", foundUser.UserID).Msg("password reset completed")
	return nil
}

// newSession mints a session for userID with fresh opaque tokens and
// expiries computed from the configured TTLs.
func (a *authService) newSession(userID int64) (models.Session, error) {
	accessToken, err := utils.GenerateOpaqueToken()
	if err != nil {
		return models.Session{}, fmt.Errorf("error generating access token: %w", err)
	}

	refreshToken, err := utils.GenerateOpaqueToken()
	if err != nil {
		return models.Session{}, fmt.Errorf("error generating refresh token: %w", err)
	}

	now := time.Now()
	return models.Session{
		UserID:                 userID,
		AccessToken:            accessToken,
		RefreshToken:           refreshToken,
		AccessTokenValidUntil:  now.Add(a.accessTokenTTL),
		RefreshTokenValidUntil: now.Add(a.refreshTokenTTL),
	}, nil
}
