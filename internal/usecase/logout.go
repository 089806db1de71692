package usecase

import (
	"context"

	"notes-auth/internal/domain"
)

// Logout invalidates the server-side session, then clears the session store
// and resets the in-memory state regardless of the server outcome: a stuck
// authenticated UI is worse than a lingering server session. All in-flight
// responses are fenced off so none can resurrect the session.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.gateway.Logout(ctx)

	c.store.Clear()
	c.setState(domain.Unauthenticated())
	c.fence.bumpAll()

	if err != nil {
		c.logger.WarnContext(ctx, "server-side logout failed, local session cleared anyway", "error", err)
		c.notifyFailure(err, "Logout failed")
		return err
	}

	c.logger.InfoContext(ctx, "logged out")
	c.notifier.Success("Success!", "Logged out successfully!")
	return nil
}
