package credential

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"notes-auth/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	ready          bool
	prompted       bool
	renderResults  []bool
	renders        int
	autoSelectOffs int
	cb             domain.CredentialCallback
}

func (p *fakeProvider) WaitReady(ctx context.Context) error {
	if p.ready {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (p *fakeProvider) Prompt(_ context.Context, cb domain.CredentialCallback) error {
	p.prompted = true
	p.cb = cb
	return nil
}

func (p *fakeProvider) RenderButton(_ context.Context, _ string, cb domain.CredentialCallback) (bool, error) {
	p.cb = cb
	idx := p.renders
	p.renders++
	if idx >= len(p.renderResults) {
		return false, nil
	}
	return p.renderResults[idx], nil
}

func (p *fakeProvider) DisableAutoSelect() {
	p.autoSelectOffs++
}

type fakeAuthenticator struct {
	mu     sync.Mutex
	raw    string
	called bool
	err    error
}

func (a *fakeAuthenticator) FederatedSignIn(_ context.Context, rawCredential string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.called = true
	a.raw = rawCredential
	return a.err
}

type fakeCredentialStore struct {
	mu      sync.Mutex
	parked  string
	dropped bool
}

func (s *fakeCredentialStore) PutCredential(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parked = raw
}

func (s *fakeCredentialStore) DropCredential() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parked = ""
	s.dropped = true
}

func testConfig(strategy Strategy) Config {
	return Config{
		Strategy:     strategy,
		ReadyTimeout: 100 * time.Millisecond,
		RenderGrace:  10 * time.Millisecond,
	}
}

func TestBridge_Init_PromptStrategy(t *testing.T) {
	provider := &fakeProvider{ready: true}
	bridge := NewBridge(provider, &fakeAuthenticator{}, &fakeCredentialStore{}, testConfig(StrategyPrompt), slog.Default())

	err := bridge.Init(context.Background())

	require.NoError(t, err)
	assert.True(t, provider.prompted)
	assert.Equal(t, PhaseReady, bridge.Phase())
}

func TestBridge_Init_ReadinessTimeout(t *testing.T) {
	provider := &fakeProvider{ready: false}
	bridge := NewBridge(provider, &fakeAuthenticator{}, &fakeCredentialStore{}, testConfig(StrategyPrompt), slog.Default())

	err := bridge.Init(context.Background())

	assert.True(t, errors.Is(err, domain.ErrProviderNotReady))
	assert.Equal(t, PhaseFailed, bridge.Phase())
}

func TestBridge_Button_RendersFirstTry(t *testing.T) {
	provider := &fakeProvider{ready: true, renderResults: []bool{true}}
	bridge := NewBridge(provider, &fakeAuthenticator{}, &fakeCredentialStore{}, testConfig(StrategyButton), slog.Default())

	err := bridge.Init(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, provider.renders)
}

func TestBridge_Button_OneRerenderThenSuccess(t *testing.T) {
	provider := &fakeProvider{ready: true, renderResults: []bool{false, true}}
	bridge := NewBridge(provider, &fakeAuthenticator{}, &fakeCredentialStore{}, testConfig(StrategyButton), slog.Default())

	err := bridge.Init(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, provider.renders)
}

func TestBridge_Button_EmptyMountGivesUpSilently(t *testing.T) {
	provider := &fakeProvider{ready: true, renderResults: []bool{false, false}}
	bridge := NewBridge(provider, &fakeAuthenticator{}, &fakeCredentialStore{}, testConfig(StrategyButton), slog.Default())

	err := bridge.Init(context.Background())

	// Exactly one re-render, then silence; never an error.
	require.NoError(t, err)
	assert.Equal(t, 2, provider.renders)
}

func TestBridge_Credential_SuccessDropsParkedCopy(t *testing.T) {
	provider := &fakeProvider{ready: true}
	auth := &fakeAuthenticator{}
	store := &fakeCredentialStore{}
	bridge := NewBridge(provider, auth, store, testConfig(StrategyPrompt), slog.Default())
	require.NoError(t, bridge.Init(context.Background()))

	provider.cb("raw-credential")

	assert.True(t, auth.called)
	assert.Equal(t, "raw-credential", auth.raw)
	assert.True(t, store.dropped)
	assert.Empty(t, store.parked)
}

func TestBridge_Credential_FailureAlsoDropsParkedCopy(t *testing.T) {
	provider := &fakeProvider{ready: true}
	auth := &fakeAuthenticator{err: domain.ErrServerError}
	store := &fakeCredentialStore{}
	bridge := NewBridge(provider, auth, store, testConfig(StrategyPrompt), slog.Default())
	require.NoError(t, bridge.Init(context.Background()))

	provider.cb("raw-credential")

	assert.True(t, auth.called)
	assert.True(t, store.dropped)
}

func TestBridge_Credential_UndecodableStillForwarded(t *testing.T) {
	provider := &fakeProvider{ready: true}
	auth := &fakeAuthenticator{err: domain.ErrNetworkError}
	store := &fakeCredentialStore{}
	bridge := NewBridge(provider, auth, store, testConfig(StrategyPrompt), slog.Default())
	require.NoError(t, bridge.Init(context.Background()))

	provider.cb("definitely-not-a-jwt")

	// The decode failure is diagnostic only: the raw string still reaches
	// the authenticator unmodified, and the parked copy is discarded.
	assert.True(t, auth.called)
	assert.Equal(t, "definitely-not-a-jwt", auth.raw)
	assert.True(t, store.dropped)
}

func TestBridge_Teardown(t *testing.T) {
	provider := &fakeProvider{ready: true}
	bridge := NewBridge(provider, &fakeAuthenticator{}, &fakeCredentialStore{}, testConfig(StrategyPrompt), slog.Default())
	require.NoError(t, bridge.Init(context.Background()))

	bridge.Teardown()

	assert.Equal(t, 1, provider.autoSelectOffs)
	assert.Equal(t, PhaseInitializing, bridge.Phase())
}
