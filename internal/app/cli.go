package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
)

var version = "0.1.0"

var (
	flagConfig string
	flagDebug  bool
)

// NewRootCmd creates the root cobra command. Running it without a
// subcommand starts the TUI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "lms",
		Short:        "Terminal client for the library management service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return Run(ctx, Options{ConfigPath: flagConfig, Debug: flagDebug})
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "override config path (optional)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write a debug log")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newVersionCmd(),
	)
	return root
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the credential for later runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, sess, err := wire(flagConfig)
			if err != nil {
				return err
			}

			username, password, err := promptCredentials(cmd)
			if err != nil {
				return err
			}

			if err := sess.Login(cmd.Context(), username, password); err != nil {
				if api.IsUnauthorized(err) {
					return fmt.Errorf("invalid username or password")
				}
				return err
			}
			if snap := sess.Snapshot(); snap.User != nil {
				cmd.Printf("Logged in as %s\n", snap.User.DisplayName())
			}
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, sess, err := wire(flagConfig)
			if err != nil {
				return err
			}
			sess.Logout()
			cmd.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, sess, err := wire(flagConfig)
			if err != nil {
				return err
			}
			if err := sess.Rehydrate(cmd.Context()); err != nil {
				return fmt.Errorf("stored credential is no longer valid")
			}
			snap := sess.Snapshot()
			if !snap.Authenticated || snap.User == nil {
				cmd.Println("Not logged in")
				return nil
			}
			cmd.Printf("%s (%s)\n", snap.User.DisplayName(), snap.User.UserType)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("lms %s\n", version)
		},
	}
}

// promptCredentials reads a username from stdin and the password without
// echo.
func promptCredentials(cmd *cobra.Command) (string, string, error) {
	cmd.Print("Username: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	username, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("read username: %w", err)
	}
	username = strings.TrimSpace(username)

	cmd.Print("Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return username, string(raw), nil
}
