package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/MKhiriev/go-contact-keeper/internal/service"
	"github.com/MKhiriev/go-contact-keeper/internal/store"
	"github.com/MKhiriev/go-contact-keeper/internal/utils"
	"github.com/MKhiriev/go-contact-keeper/models"
)

// Cookie names used by the refresh flow. Login and refresh set both; the
// refresh and logout handlers fall back to them when the JSON body does not
// carry the credentials.
const (
	sessionIDCookie    = "sessionId"
	refreshTokenCookie = "refreshToken"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	registeredUser, err := h.services.AuthService.Register(ctx, request)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
		case errors.Is(err, store.ErrEmailAlreadyExists):
			log.Err(err).Msg("email already registered")
		default:
			log.Err(err).Msg("unexpected error occurred during user registration")
		}
		respondError(w, err)
		return
	}

	log.Debug().Int64("id", registeredUser.UserID).Msg("user successfully registered")
	utils.WriteJSON(w, models.Envelope{
		Status:  http.StatusCreated,
		Message: "user registered",
		Data:    registeredUser,
	}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	session, err := h.services.AuthService.Login(ctx, request.Email, request.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			respondError(w, err)
			return
		case errors.Is(err, store.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword):
			// One answer for both failure modes so the endpoint does not
			// reveal which emails are registered.
			log.Err(err).Msg("no user was found/wrong password")
			utils.WriteJSON(w, models.Envelope{
				Status:  http.StatusUnauthorized,
				Message: "invalid email/password",
			}, http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user login")
			respondError(w, err)
			return
		}
	}

	log.Debug().Int64("session_id", session.SessionID).Msg("user successfully logged in")

	h.setSessionCookies(w, session)
	utils.WriteJSON(w, models.Envelope{
		Status:  http.StatusOK,
		Message: "logged in",
		Data:    session,
	}, http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	request := h.refreshCredentials(r)
	if request.SessionID <= 0 || request.RefreshToken == "" {
		log.Error().Msg("no refresh credentials in body or cookies")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	session, err := h.services.AuthService.Refresh(ctx, request.SessionID, request.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSessionNotFound):
			log.Err(err).Msg("no session matches the refresh credentials")
		case errors.Is(err, service.ErrSessionExpired):
			log.Err(err).Msg("refresh token expired")
		default:
			log.Err(err).Msg("unexpected error occurred during session refresh")
		}
		respondError(w, err)
		return
	}

	log.Debug().Int64("session_id", session.SessionID).Msg("session rotated")

	h.setSessionCookies(w, session)
	utils.WriteJSON(w, models.Envelope{
		Status:  http.StatusOK,
		Message: "session refreshed",
		Data:    session,
	}, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	sessionID, ok := utils.GetSessionIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no session id in request context")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	if err := h.services.AuthService.Logout(ctx, sessionID); err != nil {
		log.Err(err).Msg("unexpected error occurred during logout")
		respondError(w, err)
		return
	}

	clearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requestResetEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RequestResetEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	if err := h.services.AuthService.RequestResetEmail(ctx, request.Email); err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			log.Err(err).Msg("no user registered under email")
		default:
			log.Err(err).Msg("unexpected error occurred during reset email request")
		}
		respondError(w, err)
		return
	}

	utils.WriteJSON(w, models.Envelope{
		Status:  http.StatusOK,
		Message: "reset email sent",
	}, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	if err := h.services.AuthService.ResetPassword(ctx, request.Token, request.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrTokenIsExpiredOrInvalid):
			log.Err(err).Msg("reset token rejected")
		case errors.Is(err, store.ErrUserNotFound):
			log.Err(err).Msg("reset token no longer matches an account")
		default:
			log.Err(err).Msg("unexpected error occurred during password reset")
		}
		respondError(w, err)
		return
	}

	utils.WriteJSON(w, models.Envelope{
		Status:  http.StatusOK,
		Message: "password updated",
	}, http.StatusOK)
}

// refreshCredentials assembles the refresh request from the JSON body,
// falling back per field to the cookies set by a previous login or refresh.
func (h *Handler) refreshCredentials(r *http.Request) models.RefreshRequest {
	var request models.RefreshRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&request)
	}

	if request.SessionID <= 0 {
		if cookie, err := r.Cookie(sessionIDCookie); err == nil {
			if sessionID, err := strconv.ParseInt(cookie.Value, 10, 64); err == nil {
				request.SessionID = sessionID
			}
		}
	}
	if request.RefreshToken == "" {
		if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
			request.RefreshToken = cookie.Value
		}
	}

	return request
}

// setSessionCookies stores the session id and refresh token as HttpOnly
// cookies so browser clients can refresh without keeping the token in
// script-reachable storage.
func (h *Handler) setSessionCookies(w http.ResponseWriter, session models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionIDCookie,
		Value:    strconv.FormatInt(session.SessionID, 10),
		Path:     "/",
		Expires:  session.RefreshTokenValidUntil,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    session.RefreshToken,
		Path:     "/",
		Expires:  session.RefreshTokenValidUntil,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookies(w http.ResponseWriter) {
	expired := time.Unix(0, 0)
	http.SetCookie(w, &http.Cookie{Name: sessionIDCookie, Value: "", Path: "/", Expires: expired, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, Value: "", Path: "/", Expires: expired, HttpOnly: true})
}
