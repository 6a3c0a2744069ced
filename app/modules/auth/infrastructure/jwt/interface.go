package authjwt

import (
	"time"

	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
)

// Provider signs and verifies bearer tokens.
type Provider interface {
	GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*authdomain.Claims, error)
}
