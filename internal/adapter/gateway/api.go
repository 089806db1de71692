package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"notes-auth/internal/domain"
)

// TokenSource supplies the bearer token attached to authenticated calls.
// An empty token means no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// APIGateway is the REST client for the notes backend. It implements
// domain.AuthGateway and domain.NotesGateway and classifies every failure
// into the domain error taxonomy before returning.
type APIGateway struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

// NewAPIGateway creates a gateway with tuned HTTP transport.
func NewAPIGateway(baseURL string, timeout time.Duration, tokens TokenSource, logger *slog.Logger) *APIGateway {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &APIGateway{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		tokens: tokens,
		logger: logger,
	}
}

// otpResponse mirrors the backend's passcode-send response. The backend
// echoes the passcode in the response body instead of delivering it out of
// band; this is an observed development-mode contract.
type otpResponse struct {
	Message   string `json:"message"`
	Email     string `json:"email"`
	ID        string `json:"_id"`
	OTP       string `json:"otp"`
	ExpiresAt string `json:"expiresAt"`
}

type verifyResponse struct {
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message"`
}

type notesResponse struct {
	Notes  []domain.Note `json:"notes"`
	UserID string        `json:"userId"`
	Count  int           `json:"count"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Health is the backend health-check response.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SignUp requests a signup passcode for a new account.
func (g *APIGateway) SignUp(ctx context.Context, email, name, dob string) (*domain.OTPChallenge, error) {
	body := map[string]string{"email": email, "name": name, "dob": dob}
	var resp otpResponse
	if err := g.do(ctx, http.MethodPost, "/api/auth/signup", body, &resp); err != nil {
		return nil, err
	}
	return resp.challenge(email, domain.PurposeSignup), nil
}

// SignIn requests a sign-in passcode for an existing account.
func (g *APIGateway) SignIn(ctx context.Context, email string) (*domain.OTPChallenge, error) {
	body := map[string]string{"email": email}
	var resp otpResponse
	if err := g.do(ctx, http.MethodPost, "/api/auth/signin", body, &resp); err != nil {
		return nil, err
	}
	return resp.challenge(email, domain.PurposeSignin), nil
}

// VerifyOTP confirms a signup passcode.
func (g *APIGateway) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	return g.verify(ctx, "/api/auth/verify-otp", email, code)
}

// VerifySignInOTP confirms a sign-in passcode.
func (g *APIGateway) VerifySignInOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	return g.verify(ctx, "/api/auth/verify-signin-otp", email, code)
}

func (g *APIGateway) verify(ctx context.Context, path, email, code string) (*domain.AuthResult, error) {
	body := map[string]string{"email": email, "otp": code}
	var resp verifyResponse
	if err := g.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: resp.User, Token: resp.Token, Message: resp.Message}, nil
}

// CurrentUser fetches the user owning the attached bearer token.
func (g *APIGateway) CurrentUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := g.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the server-side session.
func (g *APIGateway) Logout(ctx context.Context) error {
	var resp messageResponse
	return g.do(ctx, http.MethodPost, "/api/auth/logout", nil, &resp)
}

// GoogleAuth exchanges a raw federated credential for a local session.
func (g *APIGateway) GoogleAuth(ctx context.Context, rawCredential string) (*domain.AuthResult, error) {
	body := map[string]string{"token": rawCredential}
	var resp verifyResponse
	if err := g.do(ctx, http.MethodPost, "/api/auth/google", body, &resp); err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: resp.User, Token: resp.Token, Message: resp.Message}, nil
}

// HealthCheck probes the backend health endpoint.
func (g *APIGateway) HealthCheck(ctx context.Context) (*Health, error) {
	var h Health
	if err := g.do(ctx, http.MethodGet, "/api/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Notes lists the authenticated user's notes.
func (g *APIGateway) Notes(ctx context.Context) ([]domain.Note, error) {
	var resp notesResponse
	if err := g.do(ctx, http.MethodGet, "/api/notes", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notes, nil
}

// CreateNote creates a note.
func (g *APIGateway) CreateNote(ctx context.Context, title, content string) (*domain.Note, error) {
	body := map[string]string{"title": title, "content": content}
	var note domain.Note
	if err := g.do(ctx, http.MethodPost, "/api/notes", body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote replaces a note's title and content.
func (g *APIGateway) UpdateNote(ctx context.Context, id, title, content string) (*domain.Note, error) {
	body := map[string]string{"title": title, "content": content}
	var note domain.Note
	if err := g.do(ctx, http.MethodPut, "/api/notes/"+id, body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote deletes a note.
func (g *APIGateway) DeleteNote(ctx context.Context, id string) error {
	var resp messageResponse
	return g.do(ctx, http.MethodDelete, "/api/notes/"+id, nil, &resp)
}

// do executes one request against the backend. Transport failures and
// non-2xx statuses are classified into the domain taxonomy here, once, so
// callers only ever see domain errors.
func (g *APIGateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %w", domain.ErrRequestError, err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	url := g.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", domain.ErrRequestError, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if token := g.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.WarnContext(ctx, "backend request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return classify(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %w", domain.ErrServerError, err)
		}
	}
	return nil
}

func (r *otpResponse) challenge(email string, purpose domain.OTPPurpose) *domain.OTPChallenge {
	if r.Email != "" {
		email = r.Email
	}

	var expiresAt time.Time
	if r.ExpiresAt != "" {
		if parsed, err := time.Parse(time.RFC3339, r.ExpiresAt); err == nil {
			expiresAt = parsed
		}
	}

	return &domain.OTPChallenge{
		Email:     email,
		Purpose:   purpose,
		Code:      r.OTP,
		IssuedAt:  time.Now(),
		ExpiresAt: expiresAt,
	}
}
