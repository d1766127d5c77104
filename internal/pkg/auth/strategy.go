package auth

import "time"

// DefaultTokenTTL applies when Options leave TTL unset.
const DefaultTokenTTL = 24 * time.Hour

// Strategy names accepted by AUTH_STRATEGY.
const (
	StrategyHMAC = "hmac"
	StrategyJWT  = "jwt"
)

// Strategy issues and verifies bearer tokens for user ids.
type Strategy interface {
	IssueToken(userID int64) (string, error)
	ParseToken(token string) (int64, error)
	Name() string
}

// Options tune token issuance.
type Options struct {
	TTL time.Duration
}

func (o Options) ttl() time.Duration {
	if o.TTL <= 0 {
		return DefaultTokenTTL
	}
	return o.TTL
}
