package session

import (
	"context"
	"io"
	"log/slog"

	"github.com/satyamraj1643/pine/pkg/client/gateway"
	"github.com/satyamraj1643/pine/pkg/client/tokenstore"
)

// Controller drives the identity lifecycle: it dispatches the pending event,
// performs the gateway call, persists or clears the bearer token, and settles
// the store with the fulfilled or rejected event. Callers read outcomes from
// the store or from the returned values; both always agree.
type Controller struct {
	store  *Store
	gw     *gateway.Client
	tokens tokenstore.Store
	logger *slog.Logger
}

// NewController wires the lifecycle controller. A nil logger disables logging.
func NewController(store *Store, gw *gateway.Client, tokens tokenstore.Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{store: store, gw: gw, tokens: tokens, logger: logger}
}

// Store exposes the session store for subscriptions and reads.
func (c *Controller) Store() *Store {
	return c.store
}

// Signup registers a new account. Success seeds identity fields but never
// authenticates; the account waits for its emailed code.
func (c *Controller) Signup(ctx context.Context, req gateway.SignupRequest) (*gateway.SignupResponse, error) {
	c.store.Dispatch(SignupPending{})

	resp, err := c.gw.Signup(ctx, req)
	if err != nil {
		c.logger.Warn("Signup rejected", "email", req.Email, "error", err)
		c.store.Dispatch(SignupRejected{})
		return nil, err
	}

	c.logger.Info("Signup accepted", "email", resp.Email)
	c.store.Dispatch(SignupFulfilled{
		UserID: derefID(resp.UserID),
		Email:  resp.Email,
		Name:   resp.Name,
	})
	return resp, nil
}

// Login authenticates with credentials. The returned token is written to the
// token store before the state settles, whether or not the account is
// verified: an unverified login still holds a token so the verify-code call
// can be attributed to it.
func (c *Controller) Login(ctx context.Context, creds gateway.Credentials) (*gateway.AuthResponse, error) {
	c.store.Dispatch(LoginPending{})

	resp, err := c.gw.Login(ctx, creds)
	if err != nil {
		c.logger.Warn("Login rejected", "email", creds.Email, "error", err)
		c.store.Dispatch(LoginRejected{})
		return nil, err
	}

	if resp.Token != "" {
		if err := c.tokens.Set(resp.Token); err != nil {
			c.logger.Error("Failed to persist token after login", "error", err)
		}
	}

	c.logger.Info("Login accepted", "email", resp.Email, "verified", resp.IsOtpVerified)
	c.store.Dispatch(LoginFulfilled{
		UserID:        derefID(resp.UserID),
		Name:          resp.Name,
		Email:         resp.Email,
		Token:         resp.Token,
		IsOtpVerified: resp.IsOtpVerified,
	})
	return resp, nil
}

// VerifyCode submits the emailed one-time code. Acceptance converges through
// the same identity transition login uses, with the verified gate open.
func (c *Controller) VerifyCode(ctx context.Context, challenge gateway.OtpChallenge) (*gateway.AuthResponse, error) {
	c.store.Dispatch(VerifyPending{})

	resp, err := c.gw.VerifyCode(ctx, challenge)
	if err != nil {
		c.logger.Warn("Code verification rejected", "email", challenge.Email, "error", err)
		c.store.Dispatch(VerifyRejected{})
		return nil, err
	}

	if resp.Token != "" {
		if err := c.tokens.Set(resp.Token); err != nil {
			c.logger.Error("Failed to persist token after verification", "error", err)
		}
	}

	c.logger.Info("Code verification accepted", "email", resp.Email)
	c.store.Dispatch(VerifyFulfilled{
		UserID: derefID(resp.UserID),
		Name:   resp.Name,
		Email:  resp.Email,
		Token:  resp.Token,
	})
	return resp, nil
}

// Validate checks the stored token against the server. Rejection demotes the
// session flags but never clears the stored token; only logout does that.
func (c *Controller) Validate(ctx context.Context) (*gateway.ValidateResponse, error) {
	c.store.Dispatch(ValidatePending{})

	resp, err := c.gw.ValidateSession(ctx)
	if err != nil {
		c.logger.Debug("Session validation rejected", "error", err)
		c.store.Dispatch(ValidateRejected{})
		return nil, err
	}

	c.store.Dispatch(ValidateFulfilled{
		UserID:      derefID(resp.UserID),
		Name:        resp.Name,
		Email:       resp.Email,
		IsActivated: resp.IsActivated,
		IsSuperUser: resp.IsSuperUser,
		IsStaff:     resp.IsStaff,
	})
	return resp, nil
}

// Logout ends the session. The token store is cleared before the network call
// settles, so no failure mode can leave a half-authenticated client behind;
// the server notification is best effort and both outcomes reset the state.
func (c *Controller) Logout(ctx context.Context) {
	c.store.Dispatch(LogoutPending{})

	if err := c.tokens.Clear(); err != nil {
		c.logger.Error("Failed to clear stored token", "error", err)
	}

	c.gw.Logout(ctx)

	c.logger.Info("Logged out")
	c.store.Dispatch(LogoutSettled{})
}

// UpdateProfile changes the display name and optionally the profile picture.
// Only the confirmed name is merged back into the session state.
func (c *Controller) UpdateProfile(ctx context.Context, name, profilePicture string) (string, error) {
	confirmed, err := c.gw.UpdateProfile(ctx, name, profilePicture)
	if err != nil {
		c.logger.Warn("Profile update rejected", "error", err)
		return "", err
	}

	c.store.Dispatch(ProfileUpdated{Name: confirmed})
	return confirmed, nil
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
