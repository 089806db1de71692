package usecase

import (
	"context"

	"notes-auth/internal/domain"

	"github.com/google/uuid"
)

// FederatedSignIn exchanges a raw identity-provider credential for a local
// session. Success persists at the persistent tier: a federated credential
// is a longer-lived trust signal than a passcode. Failure settles back to
// unauthenticated and the error is surfaced to the bridge's caller.
func (c *Controller) FederatedSignIn(ctx context.Context, rawCredential string) error {
	logger := c.logger.With("op_id", uuid.NewString())

	result, err := c.gateway.GoogleAuth(ctx, rawCredential)
	if err != nil {
		c.setState(domain.Unauthenticated())
		logger.WarnContext(ctx, "federated sign-in failed", "error", err)
		c.notifyFailure(err, "Google sign-in failed")
		return err
	}

	c.setState(domain.Authenticated(result.User))
	c.store.Save(result.User, result.Token, domain.TierPersistent)
	logger.InfoContext(ctx, "federated sign-in completed", "email", result.User.Email)
	c.notifier.Success("Success!", "Signed in with Google successfully!")
	return nil
}
