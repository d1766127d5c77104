package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid auth token")

var tokenEncoding = base64.RawURLEncoding

// HMACStrategy implements compact "payload.signature" tokens signed with HMAC-SHA256.
// The payload is "<user id>:<unix expiry>".
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	return &HMACStrategy{secret: []byte(secret), ttl: opts.ttl(), now: time.Now}
}

// IssueToken generates signed auth token for the user.
func (s *HMACStrategy) IssueToken(userID int64) (string, error) {
	expires := s.now().Add(s.ttl).Unix()
	payload := strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(expires, 10)
	return tokenEncoding.EncodeToString([]byte(payload)) + "." + s.sign(payload), nil
}

// ParseToken validates token and returns encoded user ID.
func (s *HMACStrategy) ParseToken(token string) (int64, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return 0, ErrInvalidToken
	}
	raw, err := tokenEncoding.DecodeString(encoded)
	if err != nil {
		return 0, ErrInvalidToken
	}

	payload := string(raw)
	if !hmac.Equal([]byte(s.sign(payload)), []byte(sig)) {
		return 0, ErrInvalidToken
	}

	idPart, expPart, ok := strings.Cut(payload, ":")
	if !ok {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	expires, err := strconv.ParseInt(expPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	if !time.Unix(expires, 0).After(s.now()) {
		return 0, ErrInvalidToken
	}

	return userID, nil
}

func (s *HMACStrategy) Name() string {
	return StrategyHMAC
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return tokenEncoding.EncodeToString(mac.Sum(nil))
}
