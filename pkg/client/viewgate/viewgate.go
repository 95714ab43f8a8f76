// Package viewgate selects the single top-level surface to render from
// device class and session flags, and owns the routing rules inside each
// surface. Decide is pure; callers re-evaluate it on every session change.
package viewgate

import "strings"

// Target is the top-level render surface. Exactly one is active at a time.
type Target int

const (
	// MobileBlocked overrides everything else; the app does not run on phones.
	MobileBlocked Target = iota
	// Loading is shown while the boot-time session check is in flight. It is
	// the de facto initial surface, since validation starts immediately.
	Loading
	// OtpRequired forces the verify-code flow for a logged-in-but-unverified
	// session, regardless of how the user got there.
	OtpRequired
	// Authenticated is the full journaling app.
	Authenticated
	// Guest shows the marketing, login and signup surfaces.
	Guest
)

func (t Target) String() string {
	switch t {
	case MobileBlocked:
		return "mobile-blocked"
	case Loading:
		return "loading"
	case OtpRequired:
		return "otp-required"
	case Authenticated:
		return "authenticated"
	case Guest:
		return "guest"
	}
	return "unknown"
}

// Input is the decision record: device class plus the session flags the gate
// reads. Snapshot it from the session store at evaluation time.
type Input struct {
	IsMobile      bool
	IsValidating  bool
	IsLoggedIn    bool
	IsOtpVerified bool
	IsValidated   bool
}

// Decide maps the input to a render target. The conditions are evaluated
// top to bottom and the first match wins, so a mobile device is blocked even
// mid-validation. The verify-code surface is only for sessions that hold a
// login but not a verified code; an anonymous session falls through to
// Guest, never to the code prompt.
func Decide(in Input) Target {
	switch {
	case in.IsMobile:
		return MobileBlocked
	case in.IsValidating:
		return Loading
	case in.IsLoggedIn && !in.IsOtpVerified:
		return OtpRequired
	case in.IsOtpVerified && in.IsValidated:
		return Authenticated
	default:
		return Guest
	}
}

// aliases maps retired paths from the old router onto their current homes.
var aliases = map[string]string{
	"/my-entries":        "/notes",
	"/entry-view":        "/notes/view",
	"/create-entry":      "/notes/new",
	"/chapters":          "/notebooks",
	"/chapter-view":      "/notebooks/view",
	"/create-chapter":    "/notebooks/new",
	"/collections":       "/tags",
	"/create-collection": "/tags/new",
	"/verifyOtp":         "/verify-otp",
}

// authenticatedPaths is the route set inside the full app surface.
var authenticatedPaths = map[string]bool{
	"/":               true,
	"/notes":          true,
	"/notes/view":     true,
	"/notes/new":      true,
	"/notebooks":      true,
	"/notebooks/view": true,
	"/notebooks/new":  true,
	"/tags":           true,
	"/tags/new":       true,
	"/statistics":     true,
	"/backup":         true,
	"/settings":       true,
	"/archives":       true,
	"/mood":           true,
}

// guestPaths is the route set outside a session.
var guestPaths = map[string]bool{
	"/":           true,
	"/signup":     true,
	"/login":      true,
	"/verify-otp": true,
}

// Resolve normalizes a requested path for the given target and reports
// whether the caller should redirect. Legacy aliases rewrite to their current
// paths. Inside OtpRequired every path collapses onto the verify-code
// surface; a guest on an unknown path lands on login; an authenticated user
// on an unknown path keeps it and gets the in-place not-found surface.
func Resolve(target Target, path string) (string, bool) {
	requested := normalize(path)

	canonical := requested
	if alias, ok := aliases[canonical]; ok {
		canonical = alias
	}

	resolved := resolveCanonical(target, canonical)
	return resolved, resolved != requested
}

func resolveCanonical(target Target, path string) string {
	switch target {
	case MobileBlocked, Loading:
		// Single blocking surface; the path is irrelevant and preserved so
		// navigation resumes where it left off once the surface lifts.
		return path
	case OtpRequired:
		return "/verify-otp"
	case Authenticated:
		return path
	default:
		if guestPaths[path] {
			return path
		}
		return "/login"
	}
}

// Known reports whether the resolved path names a real surface inside the
// target. An authenticated user on an unknown path is not redirected, so the
// caller uses this to pick the in-place not-found surface instead.
func Known(target Target, path string) bool {
	path = normalize(path)
	if alias, ok := aliases[path]; ok {
		path = alias
	}

	switch target {
	case Authenticated:
		return authenticatedPaths[path]
	case Guest:
		return guestPaths[path]
	case OtpRequired:
		return path == "/verify-otp"
	default:
		return true
	}
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
