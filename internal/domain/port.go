package domain

import "context"

// AuthResult carries the backend's response to a successful verification or
// federated sign-in.
type AuthResult struct {
	User    *User
	Token   string
	Message string
}

// AuthGateway is the REST surface of the notes backend consumed by the auth
// controller. Implementations classify failures into the gateway error
// taxonomy before returning.
type AuthGateway interface {
	SignUp(ctx context.Context, email, name, dob string) (*OTPChallenge, error)
	SignIn(ctx context.Context, email string) (*OTPChallenge, error)
	VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error)
	VerifySignInOTP(ctx context.Context, email, code string) (*AuthResult, error)
	CurrentUser(ctx context.Context) (*User, error)
	Logout(ctx context.Context) error
	GoogleAuth(ctx context.Context, rawCredential string) (*AuthResult, error)
}

// NotesGateway is the note CRUD surface of the backend.
type NotesGateway interface {
	Notes(ctx context.Context) ([]Note, error)
	CreateNote(ctx context.Context, title, content string) (*Note, error)
	UpdateNote(ctx context.Context, id, title, content string) (*Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// SessionStore persists the session record across one of two retention
// tiers. Save and Clear never fail: loss of persistence degrades to
// requesting a passcode again, not data loss.
type SessionStore interface {
	Save(user *User, token string, tier RetentionTier)
	Load() (*SessionRecord, error)
	Clear()
	Token() string
	ClearToken()
	PutCredential(raw string)
	Credential() string
	DropCredential()
}

// Notifier is the side channel through which operation outcomes reach the
// user interface.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// CredentialCallback receives the raw federated credential exactly as the
// identity provider produced it.
type CredentialCallback func(rawCredential string)

// IdentityProvider models the external identity library the credential
// bridge adapts. WaitReady blocks until the provider has loaded or ctx
// expires. RenderButton reports whether the provider materialized a widget
// in the designated mount point.
type IdentityProvider interface {
	WaitReady(ctx context.Context) error
	Prompt(ctx context.Context, cb CredentialCallback) error
	RenderButton(ctx context.Context, mount string, cb CredentialCallback) (bool, error)
	DisableAutoSelect()
}
