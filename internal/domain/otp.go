package domain

import "time"

// OTPPurpose distinguishes the two passcode flows.
type OTPPurpose int

const (
	PurposeSignup OTPPurpose = iota
	PurposeSignin
)

func (p OTPPurpose) String() string {
	if p == PurposeSignin {
		return "signin"
	}
	return "signup"
}

// OTPChallenge records the most recent outstanding passcode request for an
// (email, purpose) pair. Issuing a new challenge for the same pair supersedes
// the prior one; there is no cancel, only replace.
//
// Code carries the server-echoed passcode. The backend returns the code in
// the send response instead of delivering it out of band; the client treats
// the value as opaque and never validates it locally.
type OTPChallenge struct {
	Email     string
	Purpose   OTPPurpose
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
