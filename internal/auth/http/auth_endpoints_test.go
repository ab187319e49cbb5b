package http_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daykeephq/daykeep/pkg/authsdk"
)

func requireAPIError(t *testing.T, err error, status int, code string) *authsdk.APIError {
	t.Helper()
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, status, apiErr.StatusCode)
	assert.Equal(t, code, apiErr.Code)
	return apiErr
}

func TestSignupLoginVerify(t *testing.T) {
	srv, _ := newTestServer(t, false)
	client := authsdk.NewClient(srv.URL)
	ctx := context.Background()

	signedUp, err := client.Signup(ctx, "Alice@Example.com", "a strong password")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", signedUp.User.Email)
	require.NotEmpty(t, signedUp.Token)

	verified, err := client.VerifyToken(ctx, signedUp.Token)
	require.NoError(t, err)
	assert.True(t, verified.Valid)
	assert.Equal(t, signedUp.User.ID, verified.UserID)

	loggedIn, err := client.Login(ctx, "alice@example.com", "a strong password")
	require.NoError(t, err)
	assert.Equal(t, signedUp.User.ID, loggedIn.User.ID)

	t.Run("duplicate signup conflicts", func(t *testing.T) {
		_, err := client.Signup(ctx, "ALICE@example.com", "another password")
		requireAPIError(t, err, http.StatusConflict, authsdk.ErrorCodeConflict)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := client.Login(ctx, "alice@example.com", "not the password")
		apiErr := requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized)

		// Unknown email yields the byte-identical error.
		_, err = client.Login(ctx, "nobody@example.com", "whatever")
		other := requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized)
		assert.Equal(t, apiErr.Message, other.Message)
	})

	t.Run("garbage token verifies false", func(t *testing.T) {
		verified, err := client.VerifyToken(ctx, "not-a-token")
		require.NoError(t, err)
		assert.False(t, verified.Valid)
	})
}

func TestSignupValidation(t *testing.T) {
	srv, _ := newTestServer(t, false)
	client := authsdk.NewClient(srv.URL)
	ctx := context.Background()

	t.Run("bad email", func(t *testing.T) {
		_, err := client.Signup(ctx, "not-an-email", "a strong password")
		requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeValidation)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := client.Signup(ctx, "bob@example.com", "short")
		requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeValidation)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/v1/auth/signup", "application/json",
			strings.NewReader(`{"email": "bob@example.com",`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteAccount(t *testing.T) {
	srv, _ := newTestServer(t, false)
	client := authsdk.NewClient(srv.URL)
	ctx := context.Background()

	signedUp, err := client.Signup(ctx, "carol@example.com", "a strong password")
	require.NoError(t, err)

	t.Run("without token", func(t *testing.T) {
		err := client.DeleteAccount(ctx, "")
		var apiErr *authsdk.APIError
		if errors.As(err, &apiErr) {
			assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		} else {
			require.Error(t, err)
		}
	})

	require.NoError(t, client.DeleteAccount(ctx, signedUp.Token))

	// The token no longer verifies once the account is gone.
	verified, err := client.VerifyToken(ctx, signedUp.Token)
	require.NoError(t, err)
	assert.False(t, verified.Valid)

	_, err = client.Login(ctx, "carol@example.com", "a strong password")
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized)
}

func TestLoginRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, false)

	// All requests share one forwarded IP so they land in one bucket.
	send := func() int {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/auth/login",
			strings.NewReader(`{"email":"rl@example.com","password":"irrelevant"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "198.51.100.7")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusUnauthorized, send())
	}
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, false)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
