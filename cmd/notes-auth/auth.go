package main

import (
	"bufio"
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"notes-auth/internal/domain"
	"notes-auth/internal/infrastructure/credential"
)

var validate = validator.New()

type signupInput struct {
	Email string `validate:"required,email"`
	Name  string `validate:"required"`
	DOB   string `validate:"required,datetime=2006-01-02"`
}

type signinInput struct {
	Email string `validate:"required,email"`
}

// NewSignupCmd creates the signup subcommand: request a passcode for a new
// account, then verify the code read from stdin.
func NewSignupCmd(a *app) *cobra.Command {
	var email, name, dob string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account with an email passcode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := signupInput{Email: email, Name: name, DOB: dob}
			if err := validate.Struct(in); err != nil {
				return fmt.Errorf("invalid input: %w", err)
			}

			challenge, err := a.controller.RequestSignupOTP(cmd.Context(), in.Email, in.Name, in.DOB)
			if err != nil {
				return err
			}
			printChallenge(cmd, challenge)

			code, err := readCode(cmd)
			if err != nil {
				return err
			}
			return a.controller.ConfirmSignupOTP(cmd.Context(), code)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email address")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&dob, "dob", "", "date of birth (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("dob")

	return cmd
}

// NewSigninCmd creates the signin subcommand. With --keep the session is
// stored on the long retention tier and survives reboots.
func NewSigninCmd(a *app) *cobra.Command {
	var email string
	var keep bool

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with an email passcode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := signinInput{Email: email}
			if err := validate.Struct(in); err != nil {
				return fmt.Errorf("invalid input: %w", err)
			}

			challenge, err := a.controller.RequestSigninOTP(cmd.Context(), in.Email)
			if err != nil {
				return err
			}
			printChallenge(cmd, challenge)

			code, err := readCode(cmd)
			if err != nil {
				return err
			}
			return a.controller.ConfirmSigninOTP(cmd.Context(), code, keep)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email address")
	cmd.Flags().BoolVar(&keep, "keep", false, "keep the session across reboots")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// NewGoogleCmd creates the google subcommand: serve the sign-in page on the
// loopback address and wait for the identity provider to deliver a
// credential.
func NewGoogleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "google",
		Short: "Sign in with Google",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.GoogleClientID == "" {
				return fmt.Errorf("GOOGLE_CLIENT_ID is not configured")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			provider := credential.NewGoogleProvider(a.cfg.GoogleClientID, a.cfg.CallbackAddr, a.logger)
			bridge := credential.NewBridge(provider, a.controller, a.store, credential.Config{
				Strategy:     credential.Strategy(a.cfg.GoogleSignInMode),
				ReadyTimeout: a.cfg.ProviderReadyTimeout,
			}, a.logger)
			defer bridge.Teardown()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return provider.Run(ctx)
			})
			g.Go(func() error {
				if err := bridge.Init(ctx); err != nil {
					return err
				}
				cmd.Printf("Open http://%s in a browser to finish signing in\n", a.cfg.CallbackAddr)

				ticker := time.NewTicker(200 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-ticker.C:
						if a.controller.State().Phase == domain.PhaseAuthenticated {
							cancel()
							return nil
						}
					}
				}
			})

			if err := g.Wait(); err != nil && ctx.Err() == nil {
				return err
			}
			if a.controller.State().Phase != domain.PhaseAuthenticated {
				return fmt.Errorf("google sign-in did not complete")
			}
			return nil
		},
	}
}

// NewLogoutCmd creates the logout subcommand.
func NewLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.controller.Logout(cmd.Context())
		},
	}
}

// NewWhoamiCmd creates the whoami subcommand.
func NewWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user := a.controller.CurrentUser()
			if user == nil {
				return fmt.Errorf("not signed in")
			}
			cmd.Printf("%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}

func printChallenge(cmd *cobra.Command, challenge *domain.OTPChallenge) {
	// The backend echoes the passcode in its development configuration.
	if challenge != nil && challenge.Code != "" {
		cmd.Printf("Passcode (dev echo): %s\n", challenge.Code)
	}
}

func readCode(cmd *cobra.Command) (string, error) {
	cmd.Print("Enter passcode: ")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no passcode entered")
	}
	code := strings.TrimSpace(scanner.Text())
	if code == "" {
		return "", fmt.Errorf("no passcode entered")
	}
	return code, nil
}
