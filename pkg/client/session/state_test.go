package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceSignupLifecycle(t *testing.T) {
	state := reduce(State{}, SignupPending{})
	assert.True(t, state.IsSigningUp)

	state = reduce(state, SignupFulfilled{UserID: 7, Email: "a@b.com", Name: "Jane"})
	assert.False(t, state.IsSigningUp)
	assert.Equal(t, int64(7), state.UserID)
	assert.Equal(t, "a@b.com", state.Email)
	assert.Equal(t, "Jane", state.Name)
	assert.False(t, state.IsActivated, "signup never authenticates")
	assert.False(t, state.IsLoggedIn)
	assert.Empty(t, state.Token)
}

func TestReduceSignupRejectedClearsFlagOnly(t *testing.T) {
	prior := State{Email: "kept@b.com", IsSigningUp: true}
	state := reduce(prior, SignupRejected{})
	assert.False(t, state.IsSigningUp)
	assert.Equal(t, "kept@b.com", state.Email, "unrelated fields pass through")
}

func TestReduceLoginFulfilledVerified(t *testing.T) {
	state := reduce(State{}, LoginPending{})
	assert.True(t, state.IsLoggingIn)

	state = reduce(state, LoginFulfilled{
		UserID: 3, Name: "Jane", Email: "a@b.com", Token: "tok", IsOtpVerified: true,
	})
	assert.False(t, state.IsLoggingIn)
	assert.True(t, state.IsLoggedIn)
	assert.True(t, state.IsValidated)
	assert.True(t, state.IsOtpVerified)
	assert.Equal(t, "tok", state.Token)
}

func TestReduceLoginFulfilledUnverifiedKeepsToken(t *testing.T) {
	state := reduce(State{}, LoginFulfilled{
		UserID: 3, Name: "Jane", Email: "a@b.com", Token: "tok", IsOtpVerified: false,
	})

	// Half-authenticated: token present, verified gate still down.
	assert.Equal(t, "tok", state.Token)
	assert.True(t, state.IsLoggedIn)
	assert.True(t, state.IsValidated)
	assert.False(t, state.IsOtpVerified)
}

func TestReduceLoginRejectedDemotesValidation(t *testing.T) {
	prior := State{IsLoggingIn: true, IsValidating: true, IsValidated: true, Token: "tok"}
	state := reduce(prior, LoginRejected{})

	assert.False(t, state.IsLoggingIn)
	assert.False(t, state.IsValidating)
	assert.False(t, state.IsValidated)
	assert.Equal(t, "tok", state.Token, "rejected login does not discard the token field")
}

func TestReduceVerifyFulfilledForcesVerified(t *testing.T) {
	state := reduce(State{IsOtpVerifying: true}, VerifyFulfilled{
		UserID: 3, Name: "Jane", Email: "a@b.com", Token: "tok",
	})

	assert.False(t, state.IsOtpVerifying)
	assert.True(t, state.IsOtpVerified)
	assert.True(t, state.IsLoggedIn, "verify converges through the login transition")
	assert.True(t, state.IsValidated)
	assert.Equal(t, "tok", state.Token)
}

func TestReduceVerifyRejectedResetsGate(t *testing.T) {
	prior := State{IsOtpVerifying: true, IsOtpVerified: true}
	state := reduce(prior, VerifyRejected{})

	assert.False(t, state.IsOtpVerifying)
	assert.False(t, state.IsOtpVerified)
}

func TestReduceValidateFulfilledCopiesActivatedIntoVerified(t *testing.T) {
	state := reduce(State{IsValidating: true}, ValidateFulfilled{
		UserID: 3, Name: "Jane", Email: "a@b.com",
		IsActivated: true, IsSuperUser: true,
	})

	assert.False(t, state.IsValidating)
	assert.True(t, state.IsValidated)
	assert.True(t, state.IsActivated)
	assert.True(t, state.IsOtpVerified, "verified mirrors the server's activated flag")
	assert.True(t, state.IsSuperUser)
	assert.False(t, state.IsStaff)
}

func TestReduceValidateFulfilledUnactivatedClosesGate(t *testing.T) {
	prior := State{IsValidating: true, IsOtpVerified: true}
	state := reduce(prior, ValidateFulfilled{UserID: 3, IsActivated: false})

	assert.False(t, state.IsOtpVerified)
}

func TestReduceValidateRejectedNeverLeavesFlagUp(t *testing.T) {
	prior := State{IsValidating: true, IsValidated: true, Token: "tok"}
	state := reduce(prior, ValidateRejected{})

	assert.False(t, state.IsValidating)
	assert.False(t, state.IsValidated)
	assert.Equal(t, "tok", state.Token, "validation failure does not touch the token field")
}

func TestReduceLogoutResetsToAnonymous(t *testing.T) {
	prior := State{
		UserID: 3, Name: "Jane", Email: "a@b.com", Token: "tok",
		IsActivated: true, IsOtpVerified: true, IsValidated: true,
		IsLoggedIn: true, IsSuperUser: true, IsStaff: true,
		IsLoggingOut: true,
	}

	state := reduce(prior, LogoutSettled{})
	assert.Equal(t, State{}, state)
}

func TestReduceProfileUpdatedMergesNameOnly(t *testing.T) {
	prior := State{UserID: 3, Name: "Jane", Email: "a@b.com", IsLoggedIn: true}
	state := reduce(prior, ProfileUpdated{Name: "Janet"})

	assert.Equal(t, "Janet", state.Name)
	assert.Equal(t, "a@b.com", state.Email)
	assert.True(t, state.IsLoggedIn)
}

func TestReduceEveryPendingHasASettlingEvent(t *testing.T) {
	cases := []struct {
		pending Event
		settle  []Event
	}{
		{SignupPending{}, []Event{SignupFulfilled{}, SignupRejected{}}},
		{LoginPending{}, []Event{LoginFulfilled{}, LoginRejected{}}},
		{VerifyPending{}, []Event{VerifyFulfilled{}, VerifyRejected{}}},
		{ValidatePending{}, []Event{ValidateFulfilled{}, ValidateRejected{}}},
		{LogoutPending{}, []Event{LogoutSettled{}}},
	}

	for _, tc := range cases {
		for _, settle := range tc.settle {
			state := reduce(State{}, tc.pending)
			state = reduce(state, settle)
			assert.False(t, state.IsSigningUp, "%T then %T", tc.pending, settle)
			assert.False(t, state.IsLoggingIn, "%T then %T", tc.pending, settle)
			assert.False(t, state.IsOtpVerifying, "%T then %T", tc.pending, settle)
			assert.False(t, state.IsValidating, "%T then %T", tc.pending, settle)
			assert.False(t, state.IsLoggingOut, "%T then %T", tc.pending, settle)
		}
	}
}
