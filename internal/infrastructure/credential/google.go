package credential

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"notes-auth/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sethvargo/go-retry"
)

var errLibraryNotLoaded = errors.New("identity library has not signalled load")

// GoogleProvider hosts the Google Identity Services widget on a loopback
// HTTP server and relays its completion back into the process. The served
// page loads the external GIS library, reports readiness, renders the
// configured surface (prompt or button), and posts the credential back.
// Implements domain.IdentityProvider.
type GoogleProvider struct {
	clientID string
	addr     string
	echo     *echo.Echo
	logger   *slog.Logger

	mu          sync.Mutex
	cb          domain.CredentialCallback
	mode        Strategy
	mount       string
	rendered    bool
	autoSelect  bool
	libraryLoad bool
}

// NewGoogleProvider creates a provider serving on addr (e.g. 127.0.0.1:0
// style loopback address).
func NewGoogleProvider(clientID, addr string, logger *slog.Logger) *GoogleProvider {
	p := &GoogleProvider{
		clientID:   clientID,
		addr:       addr,
		logger:     logger,
		mode:       StrategyPrompt,
		autoSelect: true,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/", p.handlePage)
	e.GET("/config", p.handleConfig)
	e.POST("/ready", p.handleReady)
	e.POST("/rendered", p.handleRendered)
	e.POST("/credential", p.handleCredential)
	p.echo = e

	return p
}

// Run serves the loopback widget page until ctx is cancelled.
func (p *GoogleProvider) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := p.echo.Start(p.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return p.echo.Shutdown(shutdownCtx)
	}
}

// WaitReady blocks until the served page reports that the external library
// has loaded, polling under the caller's deadline.
func (p *GoogleProvider) WaitReady(ctx context.Context) error {
	return retry.Do(ctx, retry.NewConstant(100*time.Millisecond), func(ctx context.Context) error {
		if !p.libraryLoaded() {
			return retry.RetryableError(errLibraryNotLoaded)
		}
		return nil
	})
}

// Prompt asks the page to trigger the provider's transient prompt.
func (p *GoogleProvider) Prompt(_ context.Context, cb domain.CredentialCallback) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cb = cb
	p.mode = StrategyPrompt
	return nil
}

// RenderButton asks the page to render the persistent widget into mount and
// reports whether the page has confirmed a rendered widget yet.
func (p *GoogleProvider) RenderButton(_ context.Context, mount string, cb domain.CredentialCallback) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cb = cb
	p.mode = StrategyButton
	if p.mount != mount {
		p.mount = mount
		p.rendered = false
	}
	return p.rendered, nil
}

// DisableAutoSelect turns off the provider's automatic account selection on
// the next page load.
func (p *GoogleProvider) DisableAutoSelect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoSelect = false
}

func (p *GoogleProvider) libraryLoaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.libraryLoad
}

func (p *GoogleProvider) handlePage(c echo.Context) error {
	return c.HTML(http.StatusOK, signInPage)
}

func (p *GoogleProvider) handleConfig(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{
		"client_id":   p.clientID,
		"mode":        string(p.mode),
		"mount":       p.mount,
		"auto_select": p.autoSelect,
	})
}

func (p *GoogleProvider) handleReady(c echo.Context) error {
	p.mu.Lock()
	p.libraryLoad = true
	p.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}

func (p *GoogleProvider) handleRendered(c echo.Context) error {
	p.mu.Lock()
	p.rendered = true
	p.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}

func (p *GoogleProvider) handleCredential(c echo.Context) error {
	var body struct {
		Credential string `json:"credential"`
	}
	if err := c.Bind(&body); err != nil || body.Credential == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "credential required")
	}

	p.mu.Lock()
	cb := p.cb
	p.mu.Unlock()

	if cb == nil {
		p.logger.Warn("credential received before a strategy was activated")
		return echo.NewHTTPError(http.StatusConflict, "no active sign-in")
	}

	// The callback runs the whole federated sign-in; keep the widget page
	// responsive by settling it off the request goroutine.
	go cb(body.Credential)
	return c.NoContent(http.StatusAccepted)
}

// signInPage is the loopback widget page. It loads the GIS library, reports
// readiness, then either prompts or renders the button per /config.
const signInPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Sign in</title>
  <script src="https://accounts.google.com/gsi/client" async defer></script>
</head>
<body>
  <div id="google-signin"></div>
  <script>
    function post(path, body) {
      return fetch(path, {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: body ? JSON.stringify(body) : null,
      });
    }

    function onCredential(response) {
      post('/credential', {credential: response.credential});
    }

    async function start() {
      if (!(window.google && window.google.accounts)) {
        setTimeout(start, 100);
        return;
      }
      await post('/ready');

      const cfg = await (await fetch('/config')).json();
      google.accounts.id.initialize({
        client_id: cfg.client_id,
        callback: onCredential,
        auto_select: cfg.auto_select,
        cancel_on_tap_outside: true,
      });

      if (cfg.mode === 'button') {
        const mount = document.getElementById(cfg.mount);
        if (mount) {
          google.accounts.id.renderButton(mount, {theme: 'outline', size: 'large'});
          await post('/rendered');
        }
      } else {
        google.accounts.id.prompt();
      }
    }

    start();
  </script>
</body>
</html>`
