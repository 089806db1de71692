package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"notes-auth/internal/domain"

	"github.com/sethvargo/go-retry"
)

// Strategy selects how the identity provider is asked for a credential.
type Strategy string

const (
	// StrategyPrompt asks the provider to show its own transient prompt.
	StrategyPrompt Strategy = "prompt"
	// StrategyButton renders a persistent widget into a mount point.
	StrategyButton Strategy = "button"
)

// Phase is the bridge's observable lifecycle state.
type Phase int32

const (
	PhaseInitializing Phase = iota
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "initializing"
	}
}

// Authenticator is the federated sign-in operation the bridge forwards
// credentials to.
type Authenticator interface {
	FederatedSignIn(ctx context.Context, rawCredential string) error
}

// CredentialStore parks the raw credential until the sign-in attempt
// settles.
type CredentialStore interface {
	PutCredential(raw string)
	DropCredential()
}

// Config tunes the bridge.
type Config struct {
	Strategy     Strategy
	Mount        string
	ReadyTimeout time.Duration
	RenderGrace  time.Duration
}

func (c *Config) applyDefaults() {
	if c.Strategy == "" {
		c.Strategy = StrategyPrompt
	}
	if c.Mount == "" {
		c.Mount = "google-signin"
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = 10 * time.Second
	}
	if c.RenderGrace <= 0 {
		c.RenderGrace = 2 * time.Second
	}
}

var errEmptyMount = errors.New("provider rendered nothing into the mount point")

// Bridge adapts the identity provider's asynchronous completion into a
// single normalized credential event: park, decode for diagnostics, forward
// to the authenticator, then discard the parked copy on both outcomes.
type Bridge struct {
	provider domain.IdentityProvider
	auth     Authenticator
	store    CredentialStore
	cfg      Config
	logger   *slog.Logger
	phase    atomic.Int32
}

// NewBridge creates a bridge in the initializing phase.
func NewBridge(provider domain.IdentityProvider, auth Authenticator, store CredentialStore, cfg Config, logger *slog.Logger) *Bridge {
	cfg.applyDefaults()
	return &Bridge{
		provider: provider,
		auth:     auth,
		store:    store,
		cfg:      cfg,
		logger:   logger,
	}
}

// Phase reports the bridge's current lifecycle phase.
func (b *Bridge) Phase() Phase {
	return Phase(b.phase.Load())
}

// Init waits for the provider library to load, bounded by ReadyTimeout, then
// activates the configured strategy. Readiness resolves exactly once; a
// timeout surfaces as domain.ErrProviderNotReady rather than silent retry.
func (b *Bridge) Init(ctx context.Context) error {
	readyCtx, cancel := context.WithTimeout(ctx, b.cfg.ReadyTimeout)
	defer cancel()

	if err := b.provider.WaitReady(readyCtx); err != nil {
		b.phase.Store(int32(PhaseFailed))
		return fmt.Errorf("%w: %w", domain.ErrProviderNotReady, err)
	}
	b.phase.Store(int32(PhaseReady))

	switch b.cfg.Strategy {
	case StrategyButton:
		return b.activateButton(ctx)
	default:
		return b.provider.Prompt(ctx, b.onCredential(ctx))
	}
}

// activateButton asks the provider to render its widget. If the mount point
// stays empty past the grace period, exactly one re-render is attempted;
// after that the empty mount is accepted silently.
func (b *Bridge) activateButton(ctx context.Context) error {
	cb := b.onCredential(ctx)

	err := retry.Do(ctx, retry.WithMaxRetries(1, retry.NewConstant(b.cfg.RenderGrace)), func(ctx context.Context) error {
		rendered, err := b.provider.RenderButton(ctx, b.cfg.Mount, cb)
		if err != nil {
			return err
		}
		if !rendered {
			return retry.RetryableError(errEmptyMount)
		}
		return nil
	})
	if errors.Is(err, errEmptyMount) {
		b.logger.Debug("sign-in widget mount stayed empty after re-render", "mount", b.cfg.Mount)
		return nil
	}
	return err
}

// Teardown retires the current sign-in attempt. Auto-select is switched off
// so the next attempt starts from account selection instead of silently
// reusing the previous choice.
func (b *Bridge) Teardown() {
	b.provider.DisableAutoSelect()
	b.phase.Store(int32(PhaseInitializing))
}

// onCredential builds the single callback shape both strategies converge on.
func (b *Bridge) onCredential(ctx context.Context) domain.CredentialCallback {
	return func(raw string) {
		b.store.PutCredential(raw)

		if claims, err := Decode(raw); err != nil {
			// Diagnostic decode only; a malformed payload never blocks the
			// sign-in attempt.
			b.logger.Warn("federated credential decode failed", "error", err)
		} else {
			b.logger.Info("federated credential received",
				"issuer", claims.Issuer,
				"email", claims.Email)
		}

		err := b.auth.FederatedSignIn(ctx, raw)
		b.store.DropCredential()
		if err != nil {
			b.logger.Warn("federated sign-in failed", "error", err)
		}
	}
}
