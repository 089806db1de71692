package usecase

import (
	"context"
	"fmt"

	"notes-auth/internal/domain"

	"github.com/google/uuid"
)

// ConfirmSignupOTP confirms the pending signup passcode. Success replaces
// the in-memory user, persists the session at the ephemeral tier, and moves
// to authenticated. Failure leaves the state OTP-pending so the user may
// retry or resend.
func (c *Controller) ConfirmSignupOTP(ctx context.Context, code string) error {
	return c.confirmOTP(ctx, domain.PurposeSignup, code, domain.TierEphemeral,
		"Account created successfully!", c.gateway.VerifyOTP)
}

// ConfirmSigninOTP confirms the pending sign-in passcode. The caller's
// keep-signed-in choice selects the retention tier.
func (c *Controller) ConfirmSigninOTP(ctx context.Context, code string, keepSignedIn bool) error {
	tier := domain.TierEphemeral
	if keepSignedIn {
		tier = domain.TierPersistent
	}
	return c.confirmOTP(ctx, domain.PurposeSignin, code, tier,
		"Signed in successfully!", c.gateway.VerifySignInOTP)
}

func (c *Controller) confirmOTP(ctx context.Context, purpose domain.OTPPurpose, code string, tier domain.RetentionTier, successMsg string, verify func(context.Context, string, string) (*domain.AuthResult, error)) error {
	logger := c.logger.With("op_id", uuid.NewString(), "purpose", purpose.String())

	state := c.State()
	if state.Phase != domain.PhaseOTPPending || state.Purpose != purpose {
		err := fmt.Errorf("%w: no %s verification in progress", domain.ErrRequestError, purpose)
		c.notifyFailure(err, "OTP verification failed")
		return err
	}
	email := state.Email

	key := fenceKey{email: email, purpose: purpose}
	seq := c.fence.observe(key)

	result, err := verify(ctx, email, code)
	if err != nil {
		// State stays OTP-pending; the user may retry or resend.
		logger.WarnContext(ctx, "passcode verification failed", "error", err)
		c.notifyFailure(err, "OTP verification failed")
		return err
	}

	if !c.fence.current(key, seq) {
		logger.InfoContext(ctx, "verification response superseded, not applied")
		return errSuperseded
	}

	c.setState(domain.Authenticated(result.User))
	c.store.Save(result.User, result.Token, tier)
	logger.InfoContext(ctx, "passcode verified", "email", email, "tier", tier.String())
	c.notifier.Success("Success!", successMsg)
	return nil
}
