package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-contact-keeper/internal/adapter"
	"github.com/MKhiriev/go-contact-keeper/internal/service"
	"github.com/MKhiriev/go-contact-keeper/internal/store"
	"github.com/MKhiriev/go-contact-keeper/internal/utils"
	"github.com/MKhiriev/go-contact-keeper/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrSessionExpired:          http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	store.ErrEmailAlreadyExists: http.StatusConflict,
	store.ErrUserNotFound:       http.StatusNotFound,
	store.ErrSessionNotFound:    http.StatusUnauthorized,
	store.ErrContactNotFound:    http.StatusNotFound,

	adapter.ErrEmptyPhotoUpload: http.StatusBadRequest,
	adapter.ErrStoringPhoto:     http.StatusBadGateway,
	adapter.ErrSendingEmail:     http.StatusBadGateway,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

// errorMessageMap overrides the message shown to the client for errors whose
// Error() text is not meant to leave the server.
var errorMessageMap = map[error]string{
	service.ErrInvalidDataProvided:     "invalid data provided",
	service.ErrSessionExpired:          "session expired",
	service.ErrTokenIsExpiredOrInvalid: "reset token is expired or invalid",
	store.ErrEmailAlreadyExists:        "email already registered",
	store.ErrUserNotFound:              "user not found",
	store.ErrSessionNotFound:           "session not found",
	store.ErrContactNotFound:           "contact not found",
	adapter.ErrEmptyPhotoUpload:        "empty photo upload",
	adapter.ErrStoringPhoto:            "photo storage unavailable",
	adapter.ErrSendingEmail:            "email delivery unavailable",
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func messageFromError(err error, status int) string {
	for target, message := range errorMessageMap {
		if errors.Is(err, target) {
			return message
		}
	}
	return http.StatusText(status)
}

// respondError classifies err and writes the enveloped error response. Raw
// dependency errors never reach the client; only mapped messages do.
func respondError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	utils.WriteJSON(w, models.Envelope{Status: status, Message: messageFromError(err, status)}, status)
}
