package usecase

import (
	"context"

	"notes-auth/internal/domain"
)

// Bootstrap restores session state on application start. A valid stored
// record is adopted without a network round-trip. Failing that, a standalone
// bearer token triggers a current-user fetch whose result is written through
// at the ephemeral tier; any failure on that path clears the token remnants.
// Bootstrap always terminates in authenticated or unauthenticated and drops
// the loading flag either way.
func (c *Controller) Bootstrap(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	if record, err := c.store.Load(); err == nil {
		c.setState(domain.Authenticated(record.User))
		c.logger.InfoContext(ctx, "session restored from storage",
			"tier", record.Tier.String(), "email", record.User.Email)
		return
	}

	token := c.store.Token()
	if token == "" {
		c.setState(domain.Unauthenticated())
		return
	}

	user, err := c.gateway.CurrentUser(ctx)
	if err != nil {
		c.store.ClearToken()
		c.setState(domain.Unauthenticated())
		c.logger.WarnContext(ctx, "stored token rejected, cleared", "error", err)
		return
	}

	c.store.Save(user, token, domain.TierEphemeral)
	c.setState(domain.Authenticated(user))
	c.logger.InfoContext(ctx, "session restored via token refetch", "email", user.Email)
}
