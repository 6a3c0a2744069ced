package authjwt

import "errors"

// Errors returned by the provider.
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidRole      = errors.New("invalid role")
)
