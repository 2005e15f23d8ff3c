package domain

import "errors"

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrConsentRequired    = errors.New("consent required")
	ErrInvalidFileType    = errors.New("invalid file type")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)
