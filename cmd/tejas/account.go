package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tejas/internal/model"
)

var accountEmail string

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account to save results",
		Args:  cobra.NoArgs,
		RunE:  runRegisterCmd,
	}
	cmd.Flags().StringVar(&accountEmail, "email", "", "account email (prompted when empty)")
	return cmd
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE:  runLoginCmd,
	}
	cmd.Flags().StringVar(&accountEmail, "email", "", "account email (prompted when empty)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE:  runLogoutCmd,
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE:  runWhoamiCmd,
	}
}

func runRegisterCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p := newPrompter(cmd)
	email, err := p.email()
	if err != nil {
		return err
	}
	password, err := p.password("Password: ")
	if err != nil {
		return err
	}
	confirm, err := p.password("Confirm password: ")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := a.auth.Register(ctx, email, password, confirm); err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			return fmt.Errorf("an account with this email already exists")
		}
		return err
	}
	user, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Registered and signed in as %s\n", user.Email)
	return err
}

func runLoginCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p := newPrompter(cmd)
	email, err := p.email()
	if err != nil {
		return err
	}
	password, err := p.password("Password: ")
	if err != nil {
		return err
	}
	user, err := a.auth.SignIn(cmd.Context(), email, password)
	if err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			return fmt.Errorf("invalid email or password")
		}
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.Email)
	return err
}

func runLogoutCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.auth.SignOut(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return err
}

func runWhoamiCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.currentUser(cmd.Context())
	if err != nil {
		return err
	}
	profile, err := a.store.GetProfile(cmd.Context(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\nJoined %s  Tests %d  Best %d WPM  Avg accuracy %d%%\n",
		profile.User.Email,
		profile.User.JoinedAt.Local().Format("2006-01-02"),
		profile.Tests,
		profile.BestWPM,
		profile.AverageAccuracy,
	)
	return err
}

// prompter reads account details, hiding passwords when stdin is a terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	tty bool
}

func newPrompter(cmd *cobra.Command) *prompter {
	stdin := cmd.InOrStdin()
	return &prompter{
		in:  bufio.NewReader(stdin),
		out: cmd.ErrOrStderr(),
		tty: stdin == io.Reader(os.Stdin) && term.IsTerminal(int(os.Stdin.Fd())),
	}
}

func (p *prompter) email() (string, error) {
	if email := strings.TrimSpace(accountEmail); email != "" {
		return email, nil
	}
	if _, err := fmt.Fprint(p.out, "Email: "); err != nil {
		return "", err
	}
	return readLine(p.in)
}

func (p *prompter) password(label string) (string, error) {
	if _, err := fmt.Fprint(p.out, label); err != nil {
		return "", err
	}
	if !p.tty {
		return readLine(p.in)
	}
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
