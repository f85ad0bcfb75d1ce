package store

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrContactNotFound    = errors.New("contact not found")

	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing query")
	ErrBeginningTransaction = errors.New("error beginning transaction")
	ErrCommitingTransaction = errors.New("error commiting transaction")
	ErrScanningRow          = errors.New("error scanning row")
	ErrScanningRows         = errors.New("error scanning rows")
)
