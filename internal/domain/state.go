package domain

// AuthPhase enumerates the authentication lifecycle phases.
type AuthPhase int

const (
	PhaseUnauthenticated AuthPhase = iota
	PhaseOTPPending
	PhaseAuthenticated
)

func (p AuthPhase) String() string {
	switch p {
	case PhaseOTPPending:
		return "otp-pending"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// AuthState is the single process-wide authentication state value. It is
// owned by the auth controller and transitioned only by its operations.
type AuthState struct {
	Phase   AuthPhase
	Purpose OTPPurpose // valid only while PhaseOTPPending
	Email   string     // valid only while PhaseOTPPending
	User    *User      // valid only while PhaseAuthenticated
}

// Unauthenticated returns the initial (and torn-down) state.
func Unauthenticated() AuthState {
	return AuthState{Phase: PhaseUnauthenticated}
}

// OTPPending returns the state entered after a passcode was requested.
func OTPPending(purpose OTPPurpose, email string) AuthState {
	return AuthState{Phase: PhaseOTPPending, Purpose: purpose, Email: email}
}

// Authenticated returns the signed-in state for the given user.
func Authenticated(user *User) AuthState {
	return AuthState{Phase: PhaseAuthenticated, User: user}
}
