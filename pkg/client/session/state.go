// Package session holds the process-wide record of authentication flags and
// identity fields, mutated only by reducing gateway results, and the
// controller that drives the identity lifecycle against the remote service.
package session

// State is the single source of truth for session flags and identity fields.
// The zero value is the anonymous shape the process boots with and the shape
// logout resets to.
type State struct {
	UserID int64  // 0 when anonymous
	Name   string // "" when unknown
	Email  string // "" when unknown
	Token  string // mirrors the token store; "" when absent

	// IsActivated is the server-declared "account verified" flag, refreshed
	// on validate. IsOtpVerified is the client-side gate; the two are kept
	// equal at the conclusion of validate and verify-code but may diverge
	// right after login until verify-code runs.
	IsActivated   bool
	IsOtpVerified bool

	// IsValidated means a successful session check or login has completed.
	IsValidated bool
	IsLoggedIn  bool
	IsSuperUser bool
	IsStaff     bool

	// Transient operation flags, each true only while its operation is in flight.
	IsValidating   bool
	IsSigningUp    bool
	IsLoggingIn    bool
	IsOtpVerifying bool
	IsLoggingOut   bool
}

// Event is a pending/fulfilled/rejected notification from a gateway operation.
type Event interface{ isSessionEvent() }

type (
	// SignupPending marks the signup request as in flight.
	SignupPending struct{}
	// SignupFulfilled seeds identity fields; signup never authenticates.
	SignupFulfilled struct {
		UserID int64
		Email  string
		Name   string
	}
	// SignupRejected clears the transient flag; the caller surfaces the payload.
	SignupRejected struct{}

	// LoginPending marks the login request as in flight.
	LoginPending struct{}
	// LoginFulfilled applies the identity-setting transition. The token is
	// carried even when IsOtpVerified is false: a logged-in-but-unverified
	// user keeps a token so the verify-code call can be attributed.
	LoginFulfilled struct {
		UserID        int64
		Name          string
		Email         string
		Token         string
		IsOtpVerified bool
	}
	// LoginRejected clears the transient flag and demotes validation.
	LoginRejected struct{}

	// VerifyPending marks the verify-code request as in flight.
	VerifyPending struct{}
	// VerifyFulfilled converges through the same identity-setting transition
	// login uses. A 2xx response is defined to mean "code accepted", so the
	// reducer forces IsOtpVerified true regardless of the payload.
	VerifyFulfilled struct {
		UserID int64
		Name   string
		Email  string
		Token  string
	}
	// VerifyRejected resets the verified gate.
	VerifyRejected struct{}

	// ValidatePending marks the session check as in flight.
	ValidatePending struct{}
	// ValidateFulfilled refreshes identity fields from the server's view.
	ValidateFulfilled struct {
		UserID      int64
		Name        string
		Email       string
		IsActivated bool
		IsSuperUser bool
		IsStaff     bool
	}
	// ValidateRejected demotes validation without touching the stored token.
	ValidateRejected struct{}

	// LogoutPending marks the logout request as in flight.
	LogoutPending struct{}
	// LogoutSettled resets to the anonymous shape. Success and failure both
	// converge here; a failed logout notification changes nothing.
	LogoutSettled struct{}

	// ProfileUpdated merges the new display name only.
	ProfileUpdated struct{ Name string }
)

func (SignupPending) isSessionEvent()     {}
func (SignupFulfilled) isSessionEvent()   {}
func (SignupRejected) isSessionEvent()    {}
func (LoginPending) isSessionEvent()      {}
func (LoginFulfilled) isSessionEvent()    {}
func (LoginRejected) isSessionEvent()     {}
func (VerifyPending) isSessionEvent()     {}
func (VerifyFulfilled) isSessionEvent()   {}
func (VerifyRejected) isSessionEvent()    {}
func (ValidatePending) isSessionEvent()   {}
func (ValidateFulfilled) isSessionEvent() {}
func (ValidateRejected) isSessionEvent()  {}
func (LogoutPending) isSessionEvent()     {}
func (LogoutSettled) isSessionEvent()     {}
func (ProfileUpdated) isSessionEvent()    {}

// reduce is the pure transition function. Untouched fields pass through
// unchanged; every pending flag is cleared by its matching settlement, so no
// operation can leave the session permanently "in progress".
func reduce(state State, event Event) State {
	switch e := event.(type) {
	case SignupPending:
		state.IsSigningUp = true

	case SignupFulfilled:
		state.IsSigningUp = false
		state.IsActivated = false
		state.UserID = e.UserID
		state.Email = e.Email
		state.Name = e.Name

	case SignupRejected:
		state.IsSigningUp = false

	case LoginPending:
		state.IsLoggingIn = true

	case LoginFulfilled:
		state.IsLoggingIn = false
		state.IsOtpVerified = e.IsOtpVerified
		state = applyIdentity(state, e.UserID, e.Name, e.Email, e.Token)

	case LoginRejected:
		state.IsLoggingIn = false
		state.IsValidating = false
		state.IsValidated = false

	case VerifyPending:
		state.IsOtpVerifying = true

	case VerifyFulfilled:
		state.IsOtpVerifying = false
		state.IsOtpVerified = true
		state = applyIdentity(state, e.UserID, e.Name, e.Email, e.Token)

	case VerifyRejected:
		state.IsOtpVerifying = false
		state.IsOtpVerified = false

	case ValidatePending:
		state.IsValidating = true

	case ValidateFulfilled:
		state.IsValidating = false
		state.IsValidated = true
		state.UserID = e.UserID
		state.Name = e.Name
		state.Email = e.Email
		state.IsActivated = e.IsActivated
		state.IsOtpVerified = e.IsActivated
		state.IsSuperUser = e.IsSuperUser
		state.IsStaff = e.IsStaff

	case ValidateRejected:
		state.IsValidating = false
		state.IsValidated = false

	case LogoutPending:
		state.IsLoggingOut = true

	case LogoutSettled:
		state = State{}

	case ProfileUpdated:
		state.Name = e.Name
	}

	return state
}

// applyIdentity is the single convergence point through which every
// successful authentication path sets identity state. A future provider
// plugs into this same transition.
func applyIdentity(state State, userID int64, name, email, token string) State {
	state.UserID = userID
	state.Name = name
	state.Email = email
	state.Token = token
	state.IsLoggedIn = true
	state.IsValidated = true
	return state
}
