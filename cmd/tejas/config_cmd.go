package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tejas/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logErrln("Created", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tejas configuration
# Uncomment a value to enable it. Environment variables (TEJAS_*) override
# these values, and CLI flags override both.

[test]
# duration = %d           # Test duration in seconds
# wordlist = ""           # Word list path, one word per line (default: built-in)
# lang = %q               # Filter for custom word lists

[auth]
# secret = ""             # Token signing secret (default: generated at %s)
# token-ttl = %q          # How long a login lasts

[log]
# level = %q              # debug, info, warn or error
# path = %q
`,
		config.DefaultDuration,
		config.DefaultLang,
		config.DefaultSecretPath(),
		config.DefaultTokenTTL.String(),
		config.DefaultLogLevel,
		config.DefaultLogPath(),
	)
}
