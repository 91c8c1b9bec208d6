package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	toml := `
title = "Folio"

[db]
engine = "sqlite"
path = "` + filepath.ToSlash(filepath.Join(dir, "folio.db")) + `"

[webserver]
port = 8080
url = "http://localhost:8080"

[admin]
initialPassword = "hunter2"

[images]
root = "` + filepath.ToSlash(filepath.Join(dir, "uploads")) + `"

[log]
logLevel = "error"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(toml), 0o600))

	return dir
}

func TestConfigShow(t *testing.T) {
	dir := writeConfig(t)

	out, err := run(t, "config", "show", "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"Title": "Folio"`)
	assert.Contains(t, out, `"InitialPassword": "*****"`)
	assert.NotContains(t, out, "hunter2")
}

func TestUserAddAndSeed(t *testing.T) {
	dir := writeConfig(t)

	out, err := run(t, "user", "add", "--config", dir, "--username", "editor", "--password", "pw", "--totp")
	require.NoError(t, err)
	assert.Contains(t, out, "user editor created")
	assert.Contains(t, out, "otpauth://totp/")

	fixtures := filepath.Join(dir, "fixtures.yaml")
	require.NoError(t, os.WriteFile(fixtures, []byte("settings:\n  site_title: Folio\n"), 0o600))

	out, err = run(t, "seed", "--config", dir, "--file", fixtures)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 0 items and 1 settings")
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "config", "show", "--config", t.TempDir())
	require.Error(t, err)
}
