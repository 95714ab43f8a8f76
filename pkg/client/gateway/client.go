// Package gateway provides the HTTP client for the Pine identity service.
// Every operation issues one JSON request and normalizes failures into the
// uniform APIError rejection shape.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/satyamraj1643/pine/pkg/client/tokenstore"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the identity service root, e.g. "https://api.pinejournal.app".
	BaseURL string
	// Tokens supplies the bearer token for authenticated calls.
	Tokens tokenstore.Store
	// HTTPClient is optional; the default carries no timeout because a hung
	// call is settled by the caller's context, not by the transport.
	HTTPClient *http.Client
}

// Client is the identity service gateway.
type Client struct {
	baseURL    string
	tokens     tokenstore.Store
	httpClient *http.Client
}

// New creates a new identity gateway client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("Tokens store is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		tokens:     cfg.Tokens,
		httpClient: httpClient,
	}, nil
}

// SignupRequest carries the account creation fields. Ephemeral, never stored.
type SignupRequest struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"re_password"`
	ProfilePicture  string `json:"profile_picture,omitempty"`
	Phone           string `json:"phone,omitempty"`
}

// Credentials carries a login attempt. Ephemeral, never stored.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OtpChallenge carries a one-time-code verification attempt.
type OtpChallenge struct {
	Email string `json:"email"`
	Code  string `json:"otp"`
}

// SignupResponse is the success shape of POST /signup.
type SignupResponse struct {
	UserID     *int64
	Email      string
	Name       string
	IsVerified bool
}

// AuthResponse is the success shape shared by POST /login and POST /verify-otp.
type AuthResponse struct {
	UserID        *int64
	Name          string
	Email         string
	IsOtpVerified bool
	Token         string
}

// ValidateResponse is the success shape of GET /auth/validate.
type ValidateResponse struct {
	UserID      *int64
	Name        string
	Email       string
	IsActivated bool
	IsSuperUser bool
	IsStaff     bool
}

// identityPayload tolerates the id field variants the service emits.
type identityPayload struct {
	UserID        *int64  `json:"user_id"`
	ID            *int64  `json:"id"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	IsVerified    bool    `json:"isVerified"`
	IsOtpVerified bool    `json:"isOtpVerified"`
	IsSuperuser   bool    `json:"isSuperuser"`
	IsStaff       bool    `json:"isStaff"`
	Token         *string `json:"token"`
}

func (p *identityPayload) id() *int64 {
	if p.UserID != nil {
		return p.UserID
	}
	return p.ID
}

// Signup registers a new account. Success never authenticates: the account
// stays unverified until the emailed code is confirmed.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	var payload identityPayload
	if apiErr := c.do(ctx, http.MethodPost, "/signup", req, false, &payload); apiErr != nil {
		return nil, apiErr
	}

	return &SignupResponse{
		UserID:     payload.id(),
		Email:      payload.Email,
		Name:       payload.Name,
		IsVerified: payload.IsVerified,
	}, nil
}

// Login exchanges credentials for identity fields and, when the account is
// verified, a bearer token. An unverified account still logs in: the response
// carries isOtpVerified=false and the caller routes into the verify-code flow.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var payload identityPayload
	if apiErr := c.do(ctx, http.MethodPost, "/login", creds, false, &payload); apiErr != nil {
		return nil, apiErr
	}

	resp := &AuthResponse{
		UserID:        payload.id(),
		Name:          payload.Name,
		Email:         payload.Email,
		IsOtpVerified: payload.IsOtpVerified,
	}
	if resp.Email == "" {
		resp.Email = creds.Email
	}
	if payload.Token != nil {
		resp.Token = *payload.Token
	}
	return resp, nil
}

// VerifyCode submits the emailed one-time code. Any 2xx response means the
// code was accepted; the payload's own verified flag is not authoritative.
func (c *Client) VerifyCode(ctx context.Context, challenge OtpChallenge) (*AuthResponse, error) {
	var payload identityPayload
	if apiErr := c.do(ctx, http.MethodPost, "/verify-otp", challenge, false, &payload); apiErr != nil {
		return nil, apiErr
	}

	resp := &AuthResponse{
		UserID:        payload.id(),
		Name:          payload.Name,
		Email:         payload.Email,
		IsOtpVerified: true, // 2xx is defined to mean "code accepted"
	}
	if resp.Email == "" {
		resp.Email = challenge.Email
	}
	if payload.Token != nil {
		resp.Token = *payload.Token
	}
	return resp, nil
}

// ValidateSession checks whether the stored token still names a live session.
// The call is issued even without a stored token; the server's rejection then
// settles the client into its anonymous shape.
func (c *Client) ValidateSession(ctx context.Context) (*ValidateResponse, error) {
	var envelope struct {
		User identityPayload `json:"user"`
	}
	if apiErr := c.do(ctx, http.MethodGet, "/auth/validate", nil, true, &envelope); apiErr != nil {
		return nil, apiErr
	}

	return &ValidateResponse{
		UserID:      envelope.User.id(),
		Name:        envelope.User.Name,
		Email:       envelope.User.Email,
		IsActivated: envelope.User.IsVerified,
		IsSuperUser: envelope.User.IsSuperuser,
		IsStaff:     envelope.User.IsStaff,
	}, nil
}

// Logout notifies the server that the session ended. Best effort: every
// outcome - success, rejection, transport failure - is swallowed.
func (c *Client) Logout(ctx context.Context) {
	_ = c.do(ctx, http.MethodPost, "/auth/logout/", struct{}{}, true, nil)
}

// UpdateProfile changes the display name and optionally the profile picture.
func (c *Client) UpdateProfile(ctx context.Context, name, profilePicture string) (string, error) {
	body := map[string]string{"name": name}
	if profilePicture != "" {
		body["profile_picture"] = profilePicture
	}

	var payload struct {
		Name string `json:"name"`
	}
	if apiErr := c.do(ctx, http.MethodPatch, "/auth/update-profile", body, true, &payload); apiErr != nil {
		return "", apiErr
	}
	return payload.Name, nil
}

// do issues one JSON request and decodes the response into out (when non-nil).
// Non-2xx responses are parsed into the {detail} rejection shape; transport
// failures normalize to the literal "Network Error" detail.
func (c *Client) do(ctx context.Context, method, path string, body any, auth bool, out any) *APIError {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Detail: fmt.Sprintf("failed to encode request: %v", err)}
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return networkError()
	}
	req.Header.Set("Content-Type", "application/json")

	if auth {
		if token, ok := c.tokens.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw := map[string]any{}
		_ = json.NewDecoder(resp.Body).Decode(&raw)

		detail, _ := raw["detail"].(string)
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: detail, Raw: raw}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Detail: "malformed response body"}
		}
	}
	return nil
}
