package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tejas/internal/config"
	"github.com/verte-zerg/tejas/internal/model"
	"github.com/verte-zerg/tejas/internal/store"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, key := range []string{"TEJAS_DURATION", "TEJAS_WORDLIST", "TEJAS_LANG", "TEJAS_DB_PATH", "TEJAS_JWT_SECRET", "TEJAS_TOKEN_TTL", "TEJAS_LOG_LEVEL", "TEJAS_LOG_PATH"} {
		t.Setenv(key, "")
	}
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	accountEmail = ""
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAccountFlow(t *testing.T) {
	isolateHome(t)

	_, err := execute(t, "", "whoami")
	require.ErrorContains(t, err, "not signed in")

	out, err := execute(t, "password1\npassword1\n", "register", "--email", "ada@example.com")
	require.NoError(t, err)
	require.Contains(t, out, "Registered and signed in as ada@example.com")

	out, err = execute(t, "", "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "ada@example.com")
	require.Contains(t, out, "Tests 0")

	out, err = execute(t, "", "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Signed out")

	_, err = execute(t, "", "whoami")
	require.ErrorContains(t, err, "not signed in")

	_, err = execute(t, "ada@example.com\nwrong-password\n", "login")
	require.ErrorContains(t, err, "invalid email or password")

	out, err = execute(t, "ada@example.com\npassword1\n", "login")
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as ada@example.com")
}

func TestRegisterRejectsDuplicateAndMismatch(t *testing.T) {
	isolateHome(t)

	_, err := execute(t, "password1\npassword2\n", "register", "--email", "ada@example.com")
	require.ErrorContains(t, err, "passwords do not match")

	_, err = execute(t, "password1\npassword1\n", "register", "--email", "ada@example.com")
	require.NoError(t, err)
	_, err = execute(t, "password1\npassword1\n", "register", "--email", "ada@example.com")
	require.ErrorContains(t, err, "already exists")
}

func TestHistoryFormats(t *testing.T) {
	isolateHome(t)
	_, err := execute(t, "password1\npassword1\n", "register", "--email", "ada@example.com")
	require.NoError(t, err)

	st, err := store.Open(config.DefaultDBPath())
	require.NoError(t, err)
	user, err := st.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	for i, mode := range []int{15, 30, 15} {
		_, err := st.SaveResult(context.Background(), user.ID, model.Result{
			WPM:             70 + i,
			Accuracy:        96,
			DurationSeconds: mode,
			ElapsedSeconds:  mode,
			Timeline:        []model.TimelinePoint{{Second: 1, WPM: 70, RawWPM: 72}},
			CompletedAt:     time.Date(2026, 4, 1, 12, i, 0, 0, time.UTC),
		}, time.Date(2026, 4, 1, 12, i, 0, 0, time.UTC))
		require.NoError(t, err)
	}
	require.NoError(t, st.Close())

	out, err := execute(t, "", "history", "--format", "json", "--duration", "15")
	require.NoError(t, err)
	var decoded []model.Result
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, 70, decoded[0].WPM)
	require.Equal(t, 72, decoded[1].WPM)
	require.Len(t, decoded[0].Timeline, 1)

	out, err = execute(t, "", "history", "--format", "yaml", "--last", "1")
	require.NoError(t, err)
	var fromYAML []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	require.Len(t, fromYAML, 1)
	require.Equal(t, 72, fromYAML[0]["wpm"])

	out, err = execute(t, "", "history")
	require.NoError(t, err)
	require.Contains(t, out, "Mode")
	require.Contains(t, out, "Tests: 3")

	_, err = execute(t, "", "history", "--format", "xml")
	require.ErrorContains(t, err, "unknown --format")
}

func TestHistoryEmptyJSON(t *testing.T) {
	isolateHome(t)
	_, err := execute(t, "password1\npassword1\n", "register", "--email", "ada@example.com")
	require.NoError(t, err)

	out, err := execute(t, "", "history", "--format", "json")
	require.NoError(t, err)
	require.Equal(t, "[]\n", out)
}

func TestParseHistoryFilter(t *testing.T) {
	filter, err := parseHistoryFilter(30, "2026-01-02", 5)
	require.NoError(t, err)
	require.Equal(t, 30, filter.DurationSeconds)
	require.Equal(t, 5, filter.Last)
	require.Equal(t, "2026-01-02", filter.Since.Format("2006-01-02"))

	_, err = parseHistoryFilter(0, "yesterday", 0)
	require.Error(t, err)
	_, err = parseHistoryFilter(-1, "", 0)
	require.Error(t, err)
	_, err = parseHistoryFilter(0, "", -3)
	require.Error(t, err)
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	isolateHome(t)
	var cfg config.FileConfig
	_, err := toml.Decode(defaultConfigTemplate(), &cfg)
	require.NoError(t, err)

	uncommented := strings.NewReplacer("# duration", "duration", "# level", "level").Replace(defaultConfigTemplate())
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(uncommented), 0o644))
	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultDuration, *loaded.Test.Duration)
	require.Equal(t, config.DefaultLogLevel, *loaded.Log.Level)
}

func TestValidateConfig(t *testing.T) {
	require.Error(t, validateConfig(model.Config{DurationSeconds: 0}))
	require.NoError(t, validateConfig(model.Config{DurationSeconds: 15}))
}
