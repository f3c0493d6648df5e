package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tb453/shopadmin/internal/adapter"
	"github.com/tb453/shopadmin/internal/domain"
)

const loginTimeout = 30 * time.Second

// newRootCmd creates the shopadmin command tree. Running it without a
// subcommand starts the terminal UI.
func newRootCmd(ver string) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "shopadmin",
		Short:         "Terminal administration client for the shop backend",
		Long:          "shopadmin: manage products, sales, and accounts from the terminal",
		Version:       ver,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return runTUI(a)
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.config/shopadmin/config.yaml)")

	cmd.AddCommand(
		newLoginCmd(&configPath),
		newLogoutCmd(&configPath),
		newServerCmd(&configPath),
		newCacheCmd(&configPath),
		newVersionCmd(ver),
	)
	return cmd
}

func newVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shopadmin %s\n", ver)
		},
	}
}

func newLoginCmd(configPath *string) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if email == "" {
				email, err = promptLine(cmd.InOrStdin(), cmd.OutOrStdout(), "Email: ")
				if err != nil {
					return err
				}
			}
			password, err := promptPassword(cmd.OutOrStdout(), "Password: ")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
			defer cancel()

			sess, err := a.sessions.Login(ctx, email, password)
			if err != nil {
				return errors.New(domain.UserMessage(err, "login failed"))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Signed in as %s (%s)\n", sess.Name, sess.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when omitted)")
	return cmd
}

func newLogoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
			defer cancel()

			err = a.sessions.Logout(ctx)
			switch {
			case errors.Is(err, domain.ErrNoSession):
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			case err != nil:
				// The local session is gone either way
				fmt.Fprintf(cmd.OutOrStdout(), "Signed out locally (%s)\n", domain.UserMessage(err, "backend logout failed"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out")
			return nil
		},
	}
}

func newServerCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "server <url>",
		Short: "Save the backend URL to the config file (--config or the default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL := strings.TrimRight(strings.TrimSpace(args[0]), "/")
			u, err := url.Parse(serverURL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("invalid server URL %q", args[0])
			}
			if err := adapter.SaveServerURL(*configPath, serverURL); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Server set to %s\n", serverURL)
			return nil
		},
	}
}

func newCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete cached products, sales, and the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				cfg *adapter.Config
				err error
			)
			if *configPath != "" {
				cfg, err = adapter.LoadConfigFile(*configPath)
			} else {
				cfg, err = adapter.LoadConfig()
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := adapter.ClearCache(cfg.Cache.Dir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Cache cleared")
			return nil
		},
	})
	return cmd
}

func promptLine(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// promptPassword reads a password without echo. It needs a terminal on stdin.
func promptPassword(out io.Writer, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password prompt requires a terminal")
	}
	fmt.Fprint(out, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}
