package domain

import "time"

// RetentionTier selects which durability class a session is stored under.
type RetentionTier int

const (
	// TierEphemeral is the short-lived tier; sessions survive 8 hours.
	TierEphemeral RetentionTier = iota
	// TierPersistent is the long-lived tier; sessions survive 24 hours.
	TierPersistent
)

// Tier maximum ages. A session record older than its tier's maximum age is
// treated as expired on read.
const (
	EphemeralMaxAge  = 8 * time.Hour
	PersistentMaxAge = 24 * time.Hour
)

// MaxAge returns the maximum session age for the tier.
func (t RetentionTier) MaxAge() time.Duration {
	if t == TierPersistent {
		return PersistentMaxAge
	}
	return EphemeralMaxAge
}

func (t RetentionTier) String() string {
	if t == TierPersistent {
		return "persistent"
	}
	return "ephemeral"
}

// SessionRecord is the unit of session persistence: the user, the bearer
// token, and when the record was written. Exactly one record may be live at
// a time, in exactly one tier.
type SessionRecord struct {
	User     *User
	Token    string
	Tier     RetentionTier
	IssuedAt time.Time
}

// Expired reports whether the record has outlived its tier's maximum age.
func (r *SessionRecord) Expired(now time.Time) bool {
	return now.Sub(r.IssuedAt) >= r.Tier.MaxAge()
}
