package usecase

import (
	"context"
	"fmt"
	"strings"

	"notes-auth/internal/domain"

	"github.com/google/uuid"
)

// RequestSignupOTP asks the backend to issue a signup passcode. On success
// the state moves to OTP-pending for (signup, email) and any prior signup
// challenge for the email is superseded; the session store is untouched
// because no token exists until verification. Inputs beyond a non-empty
// email are the caller's responsibility.
func (c *Controller) RequestSignupOTP(ctx context.Context, email, name, dob string) (*domain.OTPChallenge, error) {
	return c.requestOTP(ctx, domain.PurposeSignup, email, "Sign up failed", func(ctx context.Context) (*domain.OTPChallenge, error) {
		return c.gateway.SignUp(ctx, email, name, dob)
	})
}

// RequestSigninOTP asks the backend to issue a sign-in passcode; otherwise
// identical to RequestSignupOTP.
func (c *Controller) RequestSigninOTP(ctx context.Context, email string) (*domain.OTPChallenge, error) {
	return c.requestOTP(ctx, domain.PurposeSignin, email, "Sign in failed", func(ctx context.Context) (*domain.OTPChallenge, error) {
		return c.gateway.SignIn(ctx, email)
	})
}

func (c *Controller) requestOTP(ctx context.Context, purpose domain.OTPPurpose, email, fallback string, send func(context.Context) (*domain.OTPChallenge, error)) (*domain.OTPChallenge, error) {
	logger := c.logger.With("op_id", uuid.NewString(), "purpose", purpose.String())

	if strings.TrimSpace(email) == "" {
		err := fmt.Errorf("%w: email is required", domain.ErrRequestError)
		c.notifyFailure(err, fallback)
		return nil, err
	}

	if !c.resend.allow(email) {
		err := fmt.Errorf("%w: wait before requesting another code", domain.ErrRateLimited)
		c.notifyFailure(err, fallback)
		return nil, err
	}

	key := fenceKey{email: email, purpose: purpose}
	seq := c.fence.issue(key)

	challenge, err := send(ctx)
	if err != nil {
		logger.WarnContext(ctx, "passcode request failed", "error", err)
		c.notifyFailure(err, fallback)
		return nil, err
	}

	if !c.fence.current(key, seq) {
		logger.InfoContext(ctx, "passcode response superseded, not applied")
		return nil, errSuperseded
	}

	c.setState(domain.OTPPending(purpose, email))
	logger.InfoContext(ctx, "passcode issued", "email", email)
	c.notifier.Success("Success!", "OTP sent to your email. Please check and verify.")
	return challenge, nil
}
