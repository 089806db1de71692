package usecase

import (
	"context"
	"log/slog"
	"time"

	"notes-auth/internal/domain"
)

// mockGateway implements domain.AuthGateway for testing.
type mockGateway struct {
	challenge    *domain.OTPChallenge
	challengeErr error
	signUpCalls  int
	signInCalls  int

	verifyResult  *domain.AuthResult
	verifyErr     error
	verifyHook    func()
	verifiedEmail string
	verifiedCode  string

	user             *domain.User
	userErr          error
	currentUserCalls int

	logoutErr error

	googleResult *domain.AuthResult
	googleErr    error
	googleRaw    string
}

func (m *mockGateway) SignUp(_ context.Context, email, _, _ string) (*domain.OTPChallenge, error) {
	m.signUpCalls++
	return m.challengeFor(email, domain.PurposeSignup)
}

func (m *mockGateway) SignIn(_ context.Context, email string) (*domain.OTPChallenge, error) {
	m.signInCalls++
	return m.challengeFor(email, domain.PurposeSignin)
}

func (m *mockGateway) challengeFor(email string, purpose domain.OTPPurpose) (*domain.OTPChallenge, error) {
	if m.challengeErr != nil {
		return nil, m.challengeErr
	}
	if m.challenge != nil {
		return m.challenge, nil
	}
	return &domain.OTPChallenge{Email: email, Purpose: purpose, Code: "482913", IssuedAt: time.Now()}, nil
}

func (m *mockGateway) VerifyOTP(_ context.Context, email, code string) (*domain.AuthResult, error) {
	return m.verify(email, code)
}

func (m *mockGateway) VerifySignInOTP(_ context.Context, email, code string) (*domain.AuthResult, error) {
	return m.verify(email, code)
}

func (m *mockGateway) verify(email, code string) (*domain.AuthResult, error) {
	m.verifiedEmail = email
	m.verifiedCode = code
	if m.verifyHook != nil {
		m.verifyHook()
	}
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.verifyResult, nil
}

func (m *mockGateway) CurrentUser(_ context.Context) (*domain.User, error) {
	m.currentUserCalls++
	if m.userErr != nil {
		return nil, m.userErr
	}
	return m.user, nil
}

func (m *mockGateway) Logout(_ context.Context) error {
	return m.logoutErr
}

func (m *mockGateway) GoogleAuth(_ context.Context, rawCredential string) (*domain.AuthResult, error) {
	m.googleRaw = rawCredential
	if m.googleErr != nil {
		return nil, m.googleErr
	}
	return m.googleResult, nil
}

// mockStore implements domain.SessionStore for testing.
type mockStore struct {
	record  *domain.SessionRecord
	token   string
	savedAt []savedSession

	cleared      bool
	tokenCleared bool
	credential   string
}

type savedSession struct {
	user  *domain.User
	token string
	tier  domain.RetentionTier
}

func (m *mockStore) Save(user *domain.User, token string, tier domain.RetentionTier) {
	m.savedAt = append(m.savedAt, savedSession{user: user, token: token, tier: tier})
}

func (m *mockStore) Load() (*domain.SessionRecord, error) {
	if m.record != nil {
		return m.record, nil
	}
	return nil, domain.ErrNoSession
}

func (m *mockStore) Clear() {
	m.cleared = true
	m.record = nil
	m.token = ""
}

func (m *mockStore) Token() string { return m.token }

func (m *mockStore) ClearToken() {
	m.tokenCleared = true
	m.token = ""
}

func (m *mockStore) PutCredential(raw string) { m.credential = raw }
func (m *mockStore) Credential() string       { return m.credential }
func (m *mockStore) DropCredential()          { m.credential = "" }

func (m *mockStore) lastSave() savedSession {
	if len(m.savedAt) == 0 {
		return savedSession{}
	}
	return m.savedAt[len(m.savedAt)-1]
}

// mockNotifier records side-channel notifications.
type mockNotifier struct {
	successes []notification
	errors    []notification
}

type notification struct {
	title   string
	message string
}

func (m *mockNotifier) Success(title, message string) {
	m.successes = append(m.successes, notification{title: title, message: message})
}

func (m *mockNotifier) Error(title, message string) {
	m.errors = append(m.errors, notification{title: title, message: message})
}

func (m *mockNotifier) lastError() notification {
	if len(m.errors) == 0 {
		return notification{}
	}
	return m.errors[len(m.errors)-1]
}

func newTestController(gw *mockGateway, store *mockStore) (*Controller, *mockNotifier) {
	notifier := &mockNotifier{}
	return NewController(gw, store, notifier, slog.Default()), notifier
}
