package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// SessionID identifies a session and doubles as the client-held token
type SessionID string

// TrustTier is the level of access a session grants
type TrustTier int

const (
	// TierPartial sessions may only touch unprotected games
	TierPartial TrustTier = iota
	// TierFull sessions may touch all of the user's games
	TierFull
)

// String returns the wire name of the tier
func (t TrustTier) String() string {
	switch t {
	case TierFull:
		return "full"
	case TierPartial:
		return "partial"
	default:
		return fmt.Sprintf("TrustTier(%d)", int(t))
	}
}

// IsFull reports whether the tier grants access to all content
func (t TrustTier) IsFull() bool {
	return t == TierFull
}

// MarshalJSON implements json.Marshaler
func (t TrustTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (t *TrustTier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "full":
		*t = TierFull
	case "partial":
		*t = TierPartial
	default:
		return fmt.Errorf("unknown trust tier %q", s)
	}
	return nil
}

// TierFromFull maps the stored boolean flag onto a TrustTier
func TierFromFull(full bool) TrustTier {
	if full {
		return TierFull
	}
	return TierPartial
}

// AuthLevel is how the caller proved who they are
type AuthLevel string

const (
	// AuthEmail means the user only supplied an email address
	AuthEmail AuthLevel = "email"
	// AuthCode means the user completed a login code exchange
	AuthCode AuthLevel = "code"
)

// Tier returns the trust tier this auth level earns
func (a AuthLevel) Tier() TrustTier {
	if a == AuthCode {
		return TierFull
	}
	return TierPartial
}

// Session is a server-side record bound to an opaque client token
type Session struct {
	ID        SessionID
	CreatedAt time.Time
	UserID    UserID
	Tier      TrustTier
}

// SessionInfo is a resolved session together with its user
type SessionInfo struct {
	Session Session
	User    User
}
