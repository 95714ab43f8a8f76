package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamraj1643/pine/pkg/client/tokenstore"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, tokenstore.Store) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := tokenstore.NewMemStore()
	client, err := New(Config{BaseURL: srv.URL, Tokens: tokens})
	require.NoError(t, err)
	return client, tokens
}

func TestNewRequiresBaseURLAndTokens(t *testing.T) {
	_, err := New(Config{Tokens: tokenstore.NewMemStore()})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "http://localhost"})
	assert.Error(t, err)
}

func TestSignupSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/signup", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body["email"])
		assert.Equal(t, "Passw0rd!", body["re_password"])

		json.NewEncoder(w).Encode(map[string]any{
			"user_id": 7, "email": "a@b.com", "name": "Jane", "isVerified": false,
		})
	}))

	resp, err := client.Signup(context.Background(), SignupRequest{
		Email: "a@b.com", Name: "Jane", Password: "Passw0rd!", ConfirmPassword: "Passw0rd!",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.UserID)
	assert.Equal(t, int64(7), *resp.UserID)
	assert.Equal(t, "Jane", resp.Name)
	assert.False(t, resp.IsVerified)
}

func TestRejectionSurfacesDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"detail": "Email already exists"})
	}))

	_, err := client.Signup(context.Background(), SignupRequest{Email: "a@b.com"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Email already exists", apiErr.Detail)
	assert.False(t, apiErr.IsNetwork())
	assert.Equal(t, "Email already exists", apiErr.Raw["detail"])
}

func TestRejectionWithoutDetailFallsBackToStatusText(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	_, err := client.Login(context.Background(), Credentials{Email: "a@b.com"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(http.StatusTeapot), apiErr.Detail)
}

func TestTransportFailureNormalizesToNetworkError(t *testing.T) {
	tokens := tokenstore.NewMemStore()
	client, err := New(Config{BaseURL: "http://127.0.0.1:1", Tokens: tokens})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), Credentials{Email: "a@b.com"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, NetworkErrorDetail, apiErr.Detail)
	assert.True(t, apiErr.IsNetwork())
	assert.Equal(t, 0, apiErr.StatusCode)
}

func TestLoginDecodesIDVariantsAndNullToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": 9, "name": "Jane", "isOtpVerified": false, "token": nil,
		})
	}))

	resp, err := client.Login(context.Background(), Credentials{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	require.NotNil(t, resp.UserID)
	assert.Equal(t, int64(9), *resp.UserID)
	assert.Equal(t, "a@b.com", resp.Email, "missing email falls back to the submitted credentials")
	assert.Empty(t, resp.Token)
	assert.False(t, resp.IsOtpVerified)
}

func TestVerifyCodeForcesVerified(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify-otp", r.URL.Path)

		// The payload reports false; a 2xx still means the code was accepted.
		json.NewEncoder(w).Encode(map[string]any{
			"user_id": 9, "name": "Jane", "email": "a@b.com",
			"isOtpVerified": false, "token": "tok",
		})
	}))

	resp, err := client.VerifyCode(context.Background(), OtpChallenge{Email: "a@b.com", Code: "482913"})
	require.NoError(t, err)
	assert.True(t, resp.IsOtpVerified)
	assert.Equal(t, "tok", resp.Token)
}

func TestValidateSessionAttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/auth/validate", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"message": "token is valid",
			"user": map[string]any{
				"id": 9, "name": "Jane", "email": "a@b.com",
				"isVerified": true, "isStaff": true,
			},
		})
	}))

	require.NoError(t, tokens.Set("tok"))

	resp, err := client.ValidateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.True(t, resp.IsActivated)
	assert.True(t, resp.IsStaff)
	assert.False(t, resp.IsSuperUser)
}

func TestValidateSessionWithoutTokenStillCalls(t *testing.T) {
	var gotAuth string
	called := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"detail": "invalid or expired token"})
	}))

	_, err := client.ValidateSession(context.Background())
	require.Error(t, err)
	assert.True(t, called, "the call is issued even without a stored token")
	assert.Empty(t, gotAuth)
}

func TestLogoutSwallowsEveryOutcome(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/logout/", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	client.Logout(context.Background())

	offline, err := New(Config{BaseURL: "http://127.0.0.1:1", Tokens: tokenstore.NewMemStore()})
	require.NoError(t, err)
	offline.Logout(context.Background())
}

func TestUpdateProfile(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/auth/update-profile", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]string{"name": body["name"]})
	}))

	require.NoError(t, tokens.Set("tok"))

	name, err := client.UpdateProfile(context.Background(), "Janet", "")
	require.NoError(t, err)
	assert.Equal(t, "Janet", name)
}

func TestMalformedSuccessBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))

	_, err := client.Login(context.Background(), Credentials{Email: "a@b.com"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "malformed response body", apiErr.Detail)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
}
