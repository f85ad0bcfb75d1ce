package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrSessionExpired          = errors.New("session token expired")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrHashingPassword = errors.New("error hashing password")
)
