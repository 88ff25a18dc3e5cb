package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localrivet/pagesummary"
	"github.com/localrivet/pagesummary/internal/logger"
	"github.com/localrivet/pagesummary/internal/settings"
	"github.com/localrivet/pagesummary/internal/settingsstore"
	"github.com/localrivet/pagesummary/internal/summarizer/providers"
)

// testCLI runs commands against one in-memory settings store.
type testCLI struct {
	t     *testing.T
	store *settingsstore.MemoryStore
	stub  *providers.StubAdapter
}

func newTestCLI(t *testing.T, summary string) *testCLI {
	t.Helper()
	store := settingsstore.NewMemoryStore(nil)
	require.NoError(t, store.Initialize(""))
	return &testCLI{
		t:     t,
		store: store,
		stub:  providers.NewStubAdapter(settings.ProviderOpenAI, summary, nil),
	}
}

// nopCloseStore keeps the shared store open across commands.
type nopCloseStore struct {
	*settingsstore.MemoryStore
}

func (nopCloseStore) Close() error { return nil }

func (c *testCLI) run(args ...string) (string, error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	a.openService = func(context.Context) (*pagesummary.Service, error) {
		registry := providers.NewEmptyRegistry()
		registry.Register(c.stub)
		return pagesummary.NewService(pagesummary.ServiceOptions{
			Config:    pagesummary.DefaultConfig(),
			Logger:    logger.Discard(),
			Store:     nopCloseStore{c.store},
			Providers: registry,
		})
	}

	root := newRootCmd(a)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSettingsSetShowAndUse(t *testing.T) {
	cli := newTestCLI(t, "")

	out, err := cli.run("settings", "set", "openai", "--api-key", "sk-secret-9876")
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Saved OpenAI settings")

	out, err = cli.run("settings", "use", "Gemini")
	require.NoError(t, err)
	assert.Contains(t, out, "Active provider is now Gemini")

	out, err = cli.run("settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "****9876")
	assert.NotContains(t, out, "sk-secret")
	assert.Contains(t, out, settings.DefaultGeminiModel)
	assert.Contains(t, out, "(not set)")

	stored, err := cli.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.ProviderGemini, stored.APIType)
	assert.Equal(t, "sk-secret-9876", stored.OpenAI.APIKey)
}

func TestSettingsRejectsUnknownProvider(t *testing.T) {
	cli := newTestCLI(t, "")

	_, err := cli.run("settings", "use", "claude")
	assert.ErrorIs(t, err, settings.ErrUnknownProvider)

	_, err = cli.run("settings", "set", "claude", "--model", "x")
	assert.ErrorIs(t, err, settings.ErrUnknownProvider)
}

func TestSummarizeFile(t *testing.T) {
	cli := newTestCLI(t, "**Point** one and two")
	_, err := cli.run("settings", "set", "openai", "--api-key", "sk-test")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "page.txt")
	require.NoError(t, os.WriteFile(path, []byte("Readable article text."), 0o600))

	out, err := cli.run("summarize", "--file", path, "--source-url", "https://example.com/a", "--style", "bullets")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "**Point** one and two\n"), out)
	assert.Contains(t, out, "4 words · OpenAI "+settings.DefaultOpenAIModel)

	req, ok := cli.stub.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "Readable article text.", req.Content)
	assert.Equal(t, "https://example.com/a", req.SourceURL)
	assert.Contains(t, req.Instruction, "bullet points")
}

func TestSummarizeReportsMissingCredential(t *testing.T) {
	cli := newTestCLI(t, "unused")
	path := filepath.Join(t.TempDir(), "page.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0o600))

	_, err := cli.run("summarize", "--file", path)
	require.Error(t, err)
	assert.Equal(t, "OpenAI API key is not set.", err.Error())
	assert.Zero(t, cli.stub.Calls())
}

func TestSummarizeArguments(t *testing.T) {
	cli := newTestCLI(t, "unused")

	_, err := cli.run("summarize")
	assert.EqualError(t, err, "either a url or --file is required")

	_, err = cli.run("summarize", "https://example.com", "--file", "x.txt")
	assert.EqualError(t, err, "a url and --file cannot be used together")
}

func TestConfigInit(t *testing.T) {
	cli := newTestCLI(t, "")
	path := filepath.Join(t.TempDir(), "pagesummary.json")

	out, err := cli.run("config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sqlite_path"`)

	_, err = cli.run("config", "init", path)
	assert.Error(t, err, "existing files are not overwritten without --force")
}

func TestSummarizeRejectsUnknownStyle(t *testing.T) {
	cli := newTestCLI(t, "ok")
	path := filepath.Join(t.TempDir(), "page.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0o600))

	_, err := cli.run("summarize", "--file", path, "--style", "haiku")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concise, detailed, bullets, investor")
	assert.Zero(t, cli.stub.Calls())
}

func TestParseStyle(t *testing.T) {
	style, err := parseStyle(" Bullets ")
	require.NoError(t, err)
	assert.Equal(t, "bullets", string(style))

	_, err = parseStyle("")
	assert.Error(t, err)
}

func TestHealthWithMetrics(t *testing.T) {
	cli := newTestCLI(t, "")

	out, err := cli.run("health")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "unhealthy"`)
	assert.NotContains(t, out, "Metrics Report:")

	out, err = cli.run("health", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "Metrics Report:")
	assert.Contains(t, out, "settings.load_time")
}
