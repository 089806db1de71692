package usecase

import (
	"errors"

	"notes-auth/internal/domain"
)

// notifyFailure reports a failed operation on the side channel, titled by
// error class the same way the UI labels its notifications.
func (c *Controller) notifyFailure(err error, fallback string) {
	c.notifier.Error(errorTitle(err), errorDescription(err, fallback))
}

func errorTitle(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Not Found"
	case errors.Is(err, domain.ErrServerError):
		return "Server Error"
	case errors.Is(err, domain.ErrRequestError), errors.Is(err, domain.ErrRateLimited):
		return "Request Error"
	default:
		return "Error"
	}
}

func errorDescription(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
