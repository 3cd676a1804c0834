package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// TimeTokenService implements the shared-secret handshake for the internal
// card lookup. A time token is HMAC-SHA256(secret, unixSecond) hex-encoded:
// both sides derive it from the wall clock, so the token is never stored or
// transmitted ahead of time and is valid only for a moment.
//
// Verification accepts the token for the current second and the one before
// it. A strict single-second window rejects perfectly honest callers whose
// request crosses a second boundary in flight or whose clock trails ours by
// a few hundred milliseconds; one second of grace covers both while keeping
// the replay window negligible for a server-to-server call.
type TimeTokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTimeTokenService creates a TimeTokenService using the wall clock.
func NewTimeTokenService(secret string) *TimeTokenService {
	return NewTimeTokenServiceWithClock(secret, time.Now)
}

// NewTimeTokenServiceWithClock injects the clock; tests freeze and advance
// it to exercise the validity window.
func NewTimeTokenServiceWithClock(secret string, now func() time.Time) *TimeTokenService {
	return &TimeTokenService{secret: []byte(secret), now: now}
}

// Generate computes the token for the second containing t.
func (s *TimeTokenService) Generate(t time.Time) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(strconv.FormatInt(t.Unix(), 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether token matches the current or immediately
// preceding second. Comparison is constant-time.
func (s *TimeTokenService) Verify(token string) bool {
	now := s.now()
	for _, t := range [...]time.Time{now, now.Add(-time.Second)} {
		if hmac.Equal([]byte(token), []byte(s.Generate(t))) {
			return true
		}
	}
	return false
}
