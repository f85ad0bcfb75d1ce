package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/MKhiriev/go-contact-keeper/models"
)

// sessionRepository is the PostgreSQL-backed implementation of
// [SessionRepository]. It executes all session lifecycle operations against
// the "sessions" table using the embedded [*DB] connection.
//
// Session replacement and rotation are multi-statement writes and run
// inside a transaction so that a session row is never observed in a
// half-replaced state.
type sessionRepository struct {
	*DB
	logger *logger.Logger
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		DB:     db,
		logger: logger,
	}
}

// ReplaceUserSession deletes any session owned by session.UserID and
// inserts session in the same transaction, enforcing the one-session-per-user
// invariant. Returns the stored session with its server-assigned ID.
func (r *sessionRepository) ReplaceUserSession(ctx context.Context, session models.Session) (models.Session, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.ReplaceUserSession").
			Int64("user_id", session.UserID).
			Msg("failed to begin transaction")
		return models.Session{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, deleteSessionsByUser, session.UserID); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.ReplaceUserSession").
			Int64("user_id", session.UserID).
			Msg("failed to delete previous sessions")
		return models.Session{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = tx.QueryRowContext(ctx, createSession,
		session.UserID,
		session.AccessToken,
		session.RefreshToken,
		session.AccessTokenValidUntil,
		session.RefreshTokenValidUntil,
	).Scan(&session.SessionID); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.ReplaceUserSession").
			Int64("user_id", session.UserID).
			Msg("failed to insert new session")
		return models.Session{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "sessionRepository.ReplaceUserSession").
			Int64("user_id", session.UserID).
			Msg("failed to commit transaction")
		return models.Session{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return session, nil
}

// FindSessionByAccessToken retrieves the session carrying the exact access
// token. The caller is responsible for checking token expiry.
func (r *sessionRepository) FindSessionByAccessToken(ctx context.Context, accessToken string) (models.Session, error) {
	return r.findSession(ctx, findSessionByAccessToken, accessToken)
}

// FindSessionByIDAndToken retrieves the session matching the exact
// (session id, refresh token) pair.
func (r *sessionRepository) FindSessionByIDAndToken(ctx context.Context, sessionID int64, refreshToken string) (models.Session, error) {
	return r.findSession(ctx, findSessionByIDAndToken, sessionID, refreshToken)
}

func (r *sessionRepository) findSession(ctx context.Context, query string, args ...any) (models.Session, error) {
	log := logger.FromContext(ctx)

	var session models.Session
	row := r.DB.QueryRowContext(ctx, query, args...)

	if err := row.Scan(
		&session.SessionID,
		&session.UserID,
		&session.AccessToken,
		&session.RefreshToken,
		&session.AccessTokenValidUntil,
		&session.RefreshTokenValidUntil,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}

		log.Err(err).Str("func", "sessionRepository.findSession").Msg("failed to scan session row")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return session, nil
}

// RotateSession deletes the session matching the exact (session id, refresh
// token) pair and inserts replacement in one transaction.
//
// The delete is the precondition: when the pair matches no row — because
// the token was already rotated by a concurrent refresh — the transaction
// is abandoned and [ErrSessionNotFound] is returned, so a stale refresh
// token is usable at most once.
func (r *sessionRepository) RotateSession(ctx context.Context, sessionID int64, refreshToken string, replacement models.Session) (models.Session, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.RotateSession").
			Int64("session_id", sessionID).
			Msg("failed to begin transaction")
		return models.Session{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, deleteSessionByIDAndToken, sessionID, refreshToken)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.RotateSession").
			Int64("session_id", sessionID).
			Msg("failed to delete rotated session")
		return models.Session{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warn().
			Str("func", "sessionRepository.RotateSession").
			Int64("session_id", sessionID).
			Msg("refresh token already rotated or unknown")
		return models.Session{}, ErrSessionNotFound
	}

	if err = tx.QueryRowContext(ctx, createSession,
		replacement.UserID,
		replacement.AccessToken,
		replacement.RefreshToken,
		replacement.AccessTokenValidUntil,
		replacement.RefreshTokenValidUntil,
	).Scan(&replacement.SessionID); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.RotateSession").
			Int64("user_id", replacement.UserID).
			Msg("failed to insert replacement session")
		return models.Session{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "sessionRepository.RotateSession").
			Int64("session_id", sessionID).
			Msg("failed to commit transaction")
		return models.Session{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return replacement, nil
}

// DeleteSessionByID removes the session. A zero-row delete is not an
// error: logout is idempotent.
func (r *sessionRepository) DeleteSessionByID(ctx context.Context, sessionID int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, deleteSessionByID, sessionID); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.DeleteSessionByID").
			Int64("session_id", sessionID).
			Msg("failed to delete session")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// DeleteSessionsByUser removes every session owned by userID. Used after a
// password reset to force re-login everywhere.
func (r *sessionRepository) DeleteSessionsByUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, deleteSessionsByUser, userID); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.DeleteSessionsByUser").
			Int64("user_id", userID).
			Msg("failed to delete user sessions")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}
