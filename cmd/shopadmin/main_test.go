package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tb453/shopadmin/internal/adapter"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd("1.2.3")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := strings.Join([]string{
		"server:",
		"  url: http://127.0.0.1:1",
		"cache:",
		"  dir: " + filepath.Join(dir, "cache"),
		"logging:",
		"  file: " + filepath.Join(dir, "shopadmin.log"),
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd("1.2.3")
	assert.Equal(t, "shopadmin", root.Use)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"login", "logout", "server", "cache", "version"})
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "shopadmin 1.2.3\n", out)
}

func TestServerCommand_RejectsInvalidURL(t *testing.T) {
	_, err := execute(t, "server", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server URL")
}

func TestServerCommand_WritesGivenConfig(t *testing.T) {
	path := writeConfig(t)
	out, err := execute(t, "--config", path, "server", "https://toko.example.com/")
	require.NoError(t, err)
	assert.Contains(t, out, "Server set to https://toko.example.com")

	cfg, err := adapter.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://toko.example.com", cfg.Server.URL)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "cache"), cfg.Cache.Dir, "other settings kept")
}

func TestLogoutCommand_NoSession(t *testing.T) {
	out, err := execute(t, "--config", writeConfig(t), "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")
}

func TestCacheClearCommand(t *testing.T) {
	path := writeConfig(t)
	cacheDir := filepath.Join(filepath.Dir(path), "cache")
	require.NoError(t, os.MkdirAll(cacheDir, 0o755))

	out, err := execute(t, "--config", path, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared")
	assert.NoDirExists(t, cacheDir)
}

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer
	got, err := promptLine(strings.NewReader("  admin@toko.id \n"), &out, "Email: ")
	require.NoError(t, err)
	assert.Equal(t, "admin@toko.id", got)
	assert.Equal(t, "Email: ", out.String())

	got, err = promptLine(strings.NewReader("kasir@toko.id"), &out, "Email: ")
	require.NoError(t, err, "input without a trailing newline is accepted")
	assert.Equal(t, "kasir@toko.id", got)

	_, err = promptLine(strings.NewReader(""), &out, "Email: ")
	assert.Error(t, err)
}
