package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notes-auth/internal/domain"

	"github.com/stretchr/testify/assert"
)

type staticTokens struct {
	token string
}

func (s *staticTokens) Token() string { return s.token }

func newTestGateway(serverURL, token string) *APIGateway {
	return NewAPIGateway(serverURL, 5*time.Second, &staticTokens{token: token}, slog.Default())
}

func TestAPIGateway_SignUp_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/signup", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "new@x.com", body["email"])
		assert.Equal(t, "A B", body["name"])
		assert.Equal(t, "2000-01-01", body["dob"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message":   "OTP sent",
			"email":     "new@x.com",
			"_id":       "pending-1",
			"otp":       "482913",
			"expiresAt": time.Now().Add(10 * time.Minute).Format(time.RFC3339),
		})
	}))
	defer server.Close()

	gw := newTestGateway(server.URL, "")
	challenge, err := gw.SignUp(context.Background(), "new@x.com", "A B", "2000-01-01")

	assert.NoError(t, err)
	assert.Equal(t, "new@x.com", challenge.Email)
	assert.Equal(t, domain.PurposeSignup, challenge.Purpose)
	assert.Equal(t, "482913", challenge.Code)
	assert.False(t, challenge.ExpiresAt.IsZero())
}

func TestAPIGateway_SignIn_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "user not found"})
	}))
	defer server.Close()

	gw := newTestGateway(server.URL, "")
	challenge, err := gw.SignIn(context.Background(), "missing@x.com")

	assert.Nil(t, challenge)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "user not found")
}

func TestAPIGateway_VerifyOTP_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/verify-otp", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "482913", body["otp"])

		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{
				"_id":   "user-1",
				"name":  "A B",
				"email": "new@x.com",
			},
			"token":   "jwt-abc",
			"message": "verified",
		})
	}))
	defer server.Close()

	gw := newTestGateway(server.URL, "")
	result, err := gw.VerifyOTP(context.Background(), "new@x.com", "482913")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", result.User.ID)
	assert.Equal(t, "jwt-abc", result.Token)
}

func TestAPIGateway_CurrentUser_BearerAttached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-abc", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"_id": "user-1", "email": "a@x.com"})
	}))
	defer server.Close()

	gw := newTestGateway(server.URL, "jwt-abc")
	user, err := gw.CurrentUser(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestAPIGateway_CurrentUser_NoTokenNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	gw := newTestGateway(server.URL, "")
	user, err := gw.CurrentUser(context.Background())

	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domain.ErrRequestError))
}

func TestAPIGateway_Logout_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gw := newTestGateway(server.URL, "jwt-abc")
	err := gw.Logout(context.Background())

	assert.True(t, errors.Is(err, domain.ErrServerError))
}

func TestAPIGateway_GoogleAuth_SendsRawCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/google", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "raw-google-credential", body["token"])

		json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]string{"_id": "user-9", "email": "g@x.com"},
			"token": "jwt-google",
		})
	}))
	defer server.Close()

	gw := newTestGateway(server.URL, "")
	result, err := gw.GoogleAuth(context.Background(), "raw-google-credential")

	assert.NoError(t, err)
	assert.Equal(t, "jwt-google", result.Token)
}

func TestAPIGateway_NetworkError(t *testing.T) {
	gw := newTestGateway("http://127.0.0.1:1", "")
	_, err := gw.SignIn(context.Background(), "a@x.com")

	assert.True(t, errors.Is(err, domain.ErrNetworkError))
}

func TestAPIGateway_Notes_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notes", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"notes": []map[string]string{
				{"_id": "n1", "title": "first", "content": "body"},
			},
			"userId": "user-1",
			"count":  1,
		})
	}))
	defer server.Close()

	gw := newTestGateway(server.URL, "jwt-abc")
	notes, err := gw.Notes(context.Background())

	assert.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.Equal(t, "first", notes[0].Title)
}
