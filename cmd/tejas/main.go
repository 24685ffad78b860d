// Package main provides the CLI entrypoint for tejas.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/tejas/internal/auth"
	"github.com/verte-zerg/tejas/internal/clock"
	"github.com/verte-zerg/tejas/internal/config"
	"github.com/verte-zerg/tejas/internal/engine"
	"github.com/verte-zerg/tejas/internal/logging"
	"github.com/verte-zerg/tejas/internal/model"
	"github.com/verte-zerg/tejas/internal/store"
	"github.com/verte-zerg/tejas/internal/tui"
	"github.com/verte-zerg/tejas/internal/wordlist"
)

var (
	practiceDuration int
	practiceWordlist string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tejas",
		Short:         "Terminal typing test. Where speed meets focus.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceDuration, "duration", config.DefaultDuration, "test duration in seconds (15, 30, 60, 120 or any positive value)")
	rootCmd.Flags().StringVar(&practiceWordlist, "wordlist", "", "path to a word list, one word per line (default: built-in)")

	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app bundles the resolved settings and the services commands share.
type app struct {
	settings config.Settings
	log      *zap.Logger
	store    *store.Store
	auth     *auth.Service
}

func openApp() (*app, error) {
	settings, err := config.Load(config.DefaultConfigPath(), config.DefaultEnvPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.NewOrNop(settings.LogPath, settings.LogLevel)

	st, err := store.Open(settings.DBPath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	secret, err := auth.ResolveSecret(settings.JWTSecret, settings.SecretPath)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	svc, err := auth.NewService(st, auth.Options{
		Secret:   secret,
		TokenTTL: settings.TokenTTL,
		Tokens:   &auth.TokenFile{Path: settings.TokenPath},
		Logger:   logger,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &app{settings: settings, log: logger, store: st, auth: svc}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	_ = a.log.Sync()
}

// currentUser returns the signed-in user or an error telling how to sign in.
func (a *app) currentUser(ctx context.Context) (model.User, error) {
	user := a.auth.Current(ctx)
	if user == nil {
		return model.User{}, errors.New("not signed in (run: tejas login)")
	}
	return *user, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	applyIntSetting(cmd, "duration", &practiceDuration, a.settings.Duration)
	applyStringSetting(cmd, "wordlist", &practiceWordlist, a.settings.Wordlist)
	cfg := model.Config{DurationSeconds: practiceDuration, WordListPath: practiceWordlist}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	words, err := wordlist.Load(cfg.WordListPath, a.settings.Lang)
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}

	ctx := context.Background()
	user := a.auth.Current(ctx)
	bestWPM := 0
	if user != nil {
		if profile, err := a.store.GetProfile(ctx, user.ID); err == nil {
			bestWPM = profile.BestWPM
		} else {
			a.log.Warn("failed to load profile", zap.Error(err))
		}
	}

	sender := &tui.Sender{}
	eng, err := engine.New(engine.Options{
		Words:           words,
		DurationSeconds: cfg.DurationSeconds,
		Scheduler:       clock.Real{},
		Dispatch:        sender.Dispatch,
		Logger:          a.log,
	})
	if err != nil {
		return err
	}
	m := tui.NewModel(tui.Options{
		Engine:  eng,
		Saver:   a.store,
		User:    user,
		BestWPM: bestWPM,
		Logger:  a.log,
	})
	if err := tui.Run(m, sender); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func validateConfig(cfg model.Config) error {
	if cfg.DurationSeconds <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	return nil
}

func applyStringSetting(cmd *cobra.Command, name string, target *string, value string) {
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntSetting(cmd *cobra.Command, name string, target *int, value int) {
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
