package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/notify"
	"github.com/samandr77/healthportal/internal/sandbox"
	"github.com/samandr77/healthportal/pkg/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	s := sandbox.New(sandbox.Options{})
	s.Seed()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return config.Config{
		APIURL:          ts.URL,
		SessionFile:     filepath.Join(t.TempDir(), "session.json"),
		BulkConcurrency: 2,
		Documents: config.DocumentsConfig{
			OfficeViewerURL: "https://viewer.test/?src=",
			StorageProvider: "cloudinary",
		},
	}
}

func newTestApp(t *testing.T, cfg config.Config, stdin string) (*app, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	a, err := newApp(cfg, slog.Default(), strings.NewReader(stdin), &out)
	require.NoError(t, err)
	t.Cleanup(a.close)

	return a, &out
}

// execute runs one CLI invocation the way main does, hooks included.
func execute(ctx context.Context, a *app, args ...string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetErr(io.Discard)

	return root.ExecuteContext(ctx)
}

func TestApp_PatientSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig(t)

	a, out := newTestApp(t, cfg, "")

	err := execute(ctx, a, "login", "--id", "patient@example.com", "--password", sandbox.DefaultPassword)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Signed in as Pat Doe")

	// a later invocation picks the session up from disk
	b, out := newTestApp(t, cfg, "")

	require.NoError(t, execute(ctx, b, "whoami"))
	require.Contains(t, out.String(), `"userId": "u-patient"`)

	out.Reset()
	require.NoError(t, execute(ctx, b, "menu"))
	require.Contains(t, out.String(), "my-documents")
	require.NotContains(t, out.String(), "Administration")

	out.Reset()
	require.NoError(t, execute(ctx, b, "docs", "list", "--status", "Approved"))
	require.Contains(t, out.String(), "d-3")
	require.NotContains(t, out.String(), "d-1")

	path := filepath.Join(t.TempDir(), "knee.png")
	require.NoError(t, os.WriteFile(path, []byte("png bytes"), 0o600))

	out.Reset()
	require.NoError(t, execute(ctx, b, "docs", "upload", "--file", path, "--name", "Knee", "--type", "Scan", "--doctor", "u-doctor"))
	require.Contains(t, out.String(), "Uploaded Knee")

	var uploaded entity.Document

	for _, d := range b.docs.Documents() {
		if d.Name == "Knee" {
			uploaded = d
		}
	}

	require.Equal(t, "u-patient", uploaded.PatientID)

	dir := t.TempDir()
	require.NoError(t, execute(ctx, b, "docs", "download", "--id", uploaded.ID, "--out", dir))

	content, err := os.ReadFile(filepath.Join(dir, "knee.png"))
	require.NoError(t, err)
	require.Equal(t, "png bytes", string(content))

	// patients cannot delete
	err = execute(ctx, b, "docs", "delete", "--id", "d-1")
	require.ErrorIs(t, err, entity.ErrForbidden)

	require.NoError(t, execute(ctx, b, "logout"))

	_, err = os.Stat(cfg.SessionFile)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestApp_LoginWithOTPPrompt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, out := newTestApp(t, testConfig(t), sandbox.DefaultOTPCode+"\n")

	err := execute(ctx, a, "login", "--id", "admin@example.com", "--password", sandbox.DefaultPassword)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Verification code: ")
	require.Contains(t, out.String(), "Signed in as Admin")

	out.Reset()
	require.NoError(t, execute(ctx, a, "switch-role", "--role", "r-doctor"))
	require.Contains(t, out.String(), "Active role is now sys_doctor")
	require.Equal(t, entity.RoleDoctor, a.store.Snapshot().ActiveRole.Name)
}

func TestApp_LoginRejected(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t, testConfig(t), "")

	err := execute(context.Background(), a, "login", "--id", "patient@example.com", "--password", "wrong-password")
	require.ErrorIs(t, err, entity.ErrAuth)
	require.Equal(t, "Invalid email or password", notify.FromError(err).Message)
	require.Empty(t, a.store.AccessToken())
}

func TestApp_DocsRequireSession(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t, testConfig(t), "")

	err := execute(context.Background(), a, "docs", "list")
	require.ErrorIs(t, err, entity.ErrNotAuthenticated)
}

func TestApp_FailedLoginKeepsSavedSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig(t)

	a, _ := newTestApp(t, cfg, "")
	require.NoError(t, execute(ctx, a, "login", "--id", "patient@example.com", "--password", sandbox.DefaultPassword))

	b, _ := newTestApp(t, cfg, "")
	err := execute(ctx, b, "login", "--id", "patient@example.com", "--password", "wrong-password")
	require.ErrorIs(t, err, entity.ErrAuth)

	_, err = os.Stat(cfg.SessionFile)
	require.NoError(t, err)

	c, out := newTestApp(t, cfg, "")
	require.NoError(t, execute(ctx, c, "whoami"))
	require.Contains(t, out.String(), `"userId": "u-patient"`)
}

func TestApp_UsageErrors(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t, testConfig(t), "")

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown command", args: []string{"nope"}},
		{name: "unknown docs command", args: []string{"docs", "nope"}},
		{name: "unknown flag", args: []string{"docs", "list", "--bogus"}},
		{name: "positional argument", args: []string{"whoami", "extra"}},
	}

	for _, tt := range tests {
		require.Error(t, execute(context.Background(), a, tt.args...), tt.name)
	}

	// usage errors stop before the session hooks run
	_, err := os.Stat(a.cfg.SessionFile)
	require.ErrorIs(t, err, os.ErrNotExist)
}
