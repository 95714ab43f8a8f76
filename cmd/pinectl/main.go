// Command pinectl drives the Pine identity service from the terminal: signup,
// code verification, login, session validation, profile updates and logout,
// using the same client stack the app embeds.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/satyamraj1643/pine/pkg/client/gateway"
	"github.com/satyamraj1643/pine/pkg/client/session"
	"github.com/satyamraj1643/pine/pkg/client/tokenstore"
	"github.com/satyamraj1643/pine/pkg/client/viewgate"
)

const defaultServer = "http://localhost:8080"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("no command given")
	}

	server := os.Getenv("PINE_SERVER")
	if server == "" {
		server = defaultServer
	}

	tokens, err := tokenstore.NewFileStore("")
	if err != nil {
		return err
	}

	gw, err := gateway.New(gateway.Config{BaseURL: server, Tokens: tokens})
	if err != nil {
		return err
	}

	var logger *slog.Logger
	if os.Getenv("PINE_DEBUG") != "" {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	ctl := session.NewController(session.NewStore(), gw, tokens, logger)
	ctx := context.Background()

	switch cmd, rest := args[0], args[1:]; cmd {
	case "signup":
		return cmdSignup(ctx, ctl, rest)
	case "verify":
		return cmdVerify(ctx, ctl, rest)
	case "login":
		return cmdLogin(ctx, ctl, rest)
	case "validate":
		return cmdValidate(ctx, ctl)
	case "status":
		return cmdStatus(ctx, ctl)
	case "update-profile":
		return cmdUpdateProfile(ctx, ctl, rest)
	case "logout":
		ctl.Logout(ctx)
		fmt.Println("logged out")
		return nil
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdSignup(ctx context.Context, ctl *session.Controller, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name")
	password := fs.String("password", "", "password (min 8 characters)")
	phone := fs.String("phone", "", "phone number (optional)")
	fs.Parse(args)

	if *email == "" || *name == "" || *password == "" {
		return fmt.Errorf("signup requires -email, -name and -password")
	}

	resp, err := ctl.Signup(ctx, gateway.SignupRequest{
		Email:           *email,
		Name:            *name,
		Password:        *password,
		ConfirmPassword: *password,
		Phone:           *phone,
	})
	if err != nil {
		return err
	}

	fmt.Printf("account created for %s; check %s for the verification code\n", resp.Name, resp.Email)
	fmt.Println("run: pinectl verify -email", resp.Email, "-code <6 digits>")
	return nil
}

func cmdVerify(ctx context.Context, ctl *session.Controller, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	code := fs.String("code", "", "6-digit verification code")
	fs.Parse(args)

	if *email == "" || *code == "" {
		return fmt.Errorf("verify requires -email and -code")
	}

	resp, err := ctl.VerifyCode(ctx, gateway.OtpChallenge{Email: *email, Code: *code})
	if err != nil {
		return err
	}

	fmt.Printf("verified; logged in as %s <%s>\n", resp.Name, resp.Email)
	return nil
}

func cmdLogin(ctx context.Context, ctl *session.Controller, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}

	resp, err := ctl.Login(ctx, gateway.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}

	if !resp.IsOtpVerified {
		fmt.Println("account not verified; a fresh code was emailed")
		fmt.Println("run: pinectl verify -email", resp.Email, "-code <6 digits>")
		return nil
	}

	fmt.Printf("logged in as %s <%s>\n", resp.Name, resp.Email)
	return nil
}

func cmdValidate(ctx context.Context, ctl *session.Controller) error {
	resp, err := ctl.Validate(ctx)
	if err != nil {
		fmt.Println("session invalid:", err)
		return nil
	}

	fmt.Printf("session valid for %s <%s>\n", resp.Name, resp.Email)
	return nil
}

func cmdStatus(ctx context.Context, ctl *session.Controller) error {
	ctl.Validate(ctx)

	state := ctl.Store().Current()
	target := viewgate.Decide(viewgate.Input{
		IsValidating:  state.IsValidating,
		IsLoggedIn:    state.IsLoggedIn,
		IsOtpVerified: state.IsOtpVerified,
		IsValidated:   state.IsValidated,
	})

	fmt.Println("surface:      ", target)
	fmt.Println("logged in:    ", state.IsLoggedIn)
	fmt.Println("verified:     ", state.IsOtpVerified)
	fmt.Println("validated:    ", state.IsValidated)
	if state.Email != "" {
		fmt.Printf("identity:      %s <%s>\n", state.Name, state.Email)
	}
	return nil
}

func cmdUpdateProfile(ctx context.Context, ctl *session.Controller, args []string) error {
	fs := flag.NewFlagSet("update-profile", flag.ExitOnError)
	name := fs.String("name", "", "new display name")
	fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("update-profile requires -name")
	}

	confirmed, err := ctl.UpdateProfile(ctx, *name, "")
	if err != nil {
		return err
	}

	fmt.Println("profile updated; name is now", confirmed)
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: pinectl <command> [flags]

commands:
  signup          -email -name -password [-phone]
  verify          -email -code
  login           -email -password
  validate        check the stored session against the server
  status          show session flags and the selected surface
  update-profile  -name
  logout          end the session and drop the stored token

environment:
  PINE_SERVER     identity service base URL (default http://localhost:8080)
  PINE_DEBUG      any value enables debug logging`)
}
