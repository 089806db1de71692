package usecase

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewController_StartsLoadingUnauthenticated(t *testing.T) {
	c := NewController(&mockGateway{}, &mockStore{}, &mockNotifier{}, slog.Default())

	assert.True(t, c.Loading())
	assert.Nil(t, c.CurrentUser())
}

func TestNewController_WithResendInterval(t *testing.T) {
	c := NewController(&mockGateway{}, &mockStore{}, &mockNotifier{}, slog.Default(),
		WithResendInterval(time.Hour))

	// Burst allows a few immediate requests, then the hour interval blocks.
	for i := 0; i < resendBurst; i++ {
		assert.True(t, c.resend.allow("ada@example.com"), "request %d within burst", i)
	}
	assert.False(t, c.resend.allow("ada@example.com"))
}
