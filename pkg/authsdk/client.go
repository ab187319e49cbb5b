package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the auth service. The mobile app's
// auth context uses it to sign up, log in and run the reset flow, holding
// on to the returned token itself.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a sane default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Signup(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/signup",
		SignupRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login",
		LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyToken(ctx context.Context, token string) (*VerifyTokenResponse, error) {
	var out VerifyTokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/verify",
		VerifyTokenRequest{Token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.BaseURL+"/v1/auth/account", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) (*ResetRequestResponse, error) {
	var out ResetRequestResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/password-reset/request",
		ResetRequestRequest{Email: email}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyResetCode(ctx context.Context, email, code string) (*ResetVerifyResponse, error) {
	var out ResetVerifyResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/password-reset/verify",
		ResetVerifyRequest{Email: email, Code: code}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) (*ResetCompleteResponse, error) {
	var out ResetCompleteResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/password-reset/complete",
		ResetCompleteRequest{Email: email, Code: code, NewPassword: newPassword}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var apiErr APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Code == "" {
		return fmt.Errorf("authsdk: unexpected status %d", resp.StatusCode)
	}
	apiErr.StatusCode = resp.StatusCode
	return &apiErr
}
