package adapter

import "errors"

var (
	ErrEmptyPhotoUpload = errors.New("empty photo upload")
	ErrStoringPhoto     = errors.New("error storing photo")
	ErrSendingEmail     = errors.New("error sending email")
)
