package usecase

import (
	"log/slog"
	"sync"
	"time"

	"notes-auth/internal/domain"

	"golang.org/x/time/rate"
)

// Controller owns the process-wide authentication state and orchestrates
// every auth operation: it calls the gateway, writes through to the session
// store, and reports outcomes on the notifier side channel. It is
// constructed once at application start and passed by injection; there is
// no ambient global state.
type Controller struct {
	mu      sync.Mutex
	state   domain.AuthState
	loading bool

	gateway  domain.AuthGateway
	store    domain.SessionStore
	notifier domain.Notifier
	logger   *slog.Logger

	fence  *fence
	resend *resendLimiter
}

// Option tunes the controller at construction.
type Option func(*Controller)

// WithResendInterval sets the minimum interval between passcode requests per
// email address.
func WithResendInterval(interval time.Duration) Option {
	return func(c *Controller) {
		c.resend = newResendLimiter(rate.Every(interval), resendBurst)
	}
}

const resendBurst = 3

// NewController creates a controller in the loading state; Bootstrap settles
// it. Passcode resends are throttled per email at one request per 30 seconds
// with a small burst unless WithResendInterval overrides the interval.
func NewController(gateway domain.AuthGateway, store domain.SessionStore, notifier domain.Notifier, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		state:    domain.Unauthenticated(),
		loading:  true,
		gateway:  gateway,
		store:    store,
		notifier: notifier,
		logger:   logger,
		fence:    newFence(),
		resend:   newResendLimiter(rate.Every(30*time.Second), resendBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current authentication state.
func (c *Controller) State() domain.AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentUser returns the authenticated user, or nil.
func (c *Controller) CurrentUser() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != domain.PhaseAuthenticated {
		return nil
	}
	return c.state.User
}

// Loading reports whether Bootstrap has settled yet. Initial UI rendering is
// gated on this flag.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) setState(state domain.AuthState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}
