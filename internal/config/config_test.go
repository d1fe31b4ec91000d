package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Nil(t, cfg.Server.BaseURL)
	require.Nil(t, cfg.Share.ComposeURL)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigSections(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9000"
base-url = "https://cards.example/"
log-level = "debug"

[share]
compose-url = "https://compose.example/new"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", *cfg.Server.Addr)
	require.Equal(t, "https://cards.example/", *cfg.Server.BaseURL)
	require.Equal(t, "debug", *cfg.Server.LogLevel)
	require.Equal(t, "https://compose.example/new", *cfg.Share.ComposeURL)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[server]\nport = 9000\n")
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "server.port")
}

func TestLoadConfigRejectsBadSyntax(t *testing.T) {
	path := writeConfig(t, "[server\n")
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "failed to decode config")
}

func TestDefaultConfigPathUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	require.Equal(t, filepath.Join("/tmp/xdg", "typecard", "config.toml"), DefaultConfigPath())
}

func TestNormalizeBaseURL(t *testing.T) {
	good := map[string]string{
		"https://cards.example":       "https://cards.example",
		"https://cards.example/":      "https://cards.example",
		" http://localhost:8080// ":   "http://localhost:8080",
		"https://cards.example/frame": "https://cards.example/frame",
	}
	for in, want := range good {
		got, err := NormalizeBaseURL(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	for _, in := range []string{
		"cards.example",
		"ftp://cards.example",
		"https://",
		"/relative/path",
		"https://cards.example/?x=1",
		"https://cards.example/#top",
		"http://[::1",
	} {
		_, err := NormalizeBaseURL(in)
		require.Error(t, err, in)
	}
}

func TestResolveBaseURLPrecedence(t *testing.T) {
	fromFile := "https://file.example/"
	file := FileConfig{Server: ServerConfig{BaseURL: &fromFile}}

	t.Setenv(BaseURLEnv, "https://env.example")
	got, err := ResolveBaseURL("https://flag.example", file)
	require.NoError(t, err)
	require.Equal(t, "https://flag.example", got)

	got, err = ResolveBaseURL("", file)
	require.NoError(t, err)
	require.Equal(t, "https://env.example", got)

	t.Setenv(BaseURLEnv, "")
	got, err = ResolveBaseURL("", file)
	require.NoError(t, err)
	require.Equal(t, "https://file.example", got)
}

func TestResolveBaseURLMissing(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	_, err := ResolveBaseURL("", FileConfig{})
	require.True(t, errors.Is(err, ErrMissingBaseURL))
}

func TestResolveBaseURLInvalidIsNotSkipped(t *testing.T) {
	t.Setenv(BaseURLEnv, "https://env.example")
	_, err := ResolveBaseURL("not a url", FileConfig{})
	require.Error(t, err)
}
