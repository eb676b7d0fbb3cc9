package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/entrhq/broca/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Keep session logs out of the real home directory.
	home, err := os.MkdirTemp("", "broca-cli-home-*")
	if err != nil {
		panic(err)
	}
	os.Setenv("HOME", home)
	os.Unsetenv(config.EnvRoot)
	os.Unsetenv(config.EnvMemoryDir)
	code := m.Run()
	os.RemoveAll(home)
	os.Exit(code)
}

// run executes the CLI against root and returns stdout.
func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	cmd := newRootCmd(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--root", root}, args...))
	err := a.execute(cmd)
	return out.String(), err
}

func mustRun(t *testing.T, root string, args ...string) string {
	t.Helper()
	out, err := run(t, root, args...)
	require.NoError(t, err, "broca %s", strings.Join(args, " "))
	return out
}

func newRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	mustRun(t, root, "init")
	return root
}

func TestInit(t *testing.T) {
	root := t.TempDir()

	out := mustRun(t, root, "init")
	assert.Contains(t, out, "Initialized broca in "+root)
	assert.FileExists(t, filepath.Join(root, config.FileName))
	assert.DirExists(t, filepath.Join(root, "memory", "knowledge"))
	assert.DirExists(t, filepath.Join(root, "memory", "journal"))

	out = mustRun(t, root, "init")
	assert.Contains(t, out, "already exists")
}

func TestCommandsNeedAnAgentRoot(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"memory", "stats"})
	err := a.execute(cmd)
	if err == nil {
		t.Skip("a broca.yaml exists above the temp directory")
	}
	assert.ErrorIs(t, err, config.ErrNoRoot)
	assert.Contains(t, err.Error(), "broca init")
}

func TestRememberRecallShow(t *testing.T) {
	root := newRoot(t)

	out := mustRun(t, root, "memory", "remember", "-t", "decision", "--tags", "python, web",
		"Use Flask", "Lightweight", "Python", "web", "framework")
	assert.Contains(t, out, "Stored: ")
	assert.Contains(t, out, "_use-flask.md")
	mustRun(t, root, "memory", "remember", "Deploy target", "Kubernetes cluster")

	out = mustRun(t, root, "memory", "recall", "python")
	assert.Contains(t, out, "Use Flask")
	assert.NotContains(t, out, "Deploy target")

	out = mustRun(t, root, "memory", "show", "use-flask")
	assert.Contains(t, out, "# Use Flask")
	assert.Contains(t, out, "Lightweight Python web framework")
	assert.NotContains(t, out, "confidence:")

	out = mustRun(t, root, "memory", "show", "--color", "*use-flask")
	assert.Contains(t, out, "\x1b[")

	out = mustRun(t, root, "memory", "search-tag", "WEB")
	assert.Contains(t, out, "Use Flask")

	out = mustRun(t, root, "memory", "search", "kubernetes")
	assert.Contains(t, out, "Deploy target")

	out = mustRun(t, root, "memory", "recent", "-n", "1")
	assert.Contains(t, out, "Recent (1)")

	_, err := run(t, root, "memory", "show", "no-such-entry")
	assert.Error(t, err)
}

func TestRememberRejectsUnknownType(t *testing.T) {
	root := newRoot(t)
	_, err := run(t, root, "memory", "remember", "-t", "rumor", "Title", "body")
	assert.Error(t, err)
}

func TestSupersedeRelateGraph(t *testing.T) {
	root := newRoot(t)
	mustRun(t, root, "memory", "remember", "-t", "decision", "Use Flask", "old choice")
	mustRun(t, root, "memory", "remember", "-t", "decision", "Use FastAPI", "new choice")

	out := mustRun(t, root, "memory", "relate", "-t", "extends", "use-fastapi", "use-flask")
	assert.Contains(t, out, "--[extends]-->")

	out = mustRun(t, root, "memory", "supersede", "use-flask", "use-fastapi")
	assert.Contains(t, out, "Marked as superseded")

	out = mustRun(t, root, "memory", "latest", "use-flask")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "_use-fastapi"), out)

	out = mustRun(t, root, "memory", "graph")
	assert.Contains(t, out, "extends")
	assert.Contains(t, out, "superseded_by")

	out = mustRun(t, root, "memory", "update-confidence", "use-fastapi", "0.95")
	assert.Contains(t, out, "Updated confidence to 0.95")

	_, err := run(t, root, "memory", "update-confidence", "use-fastapi", "high")
	assert.Error(t, err)
	_, err = run(t, root, "memory", "update-confidence", "use-fastapi", "2")
	assert.Error(t, err)

	out = mustRun(t, root, "memory", "stats")
	assert.Contains(t, out, "knowledge  2 (1 superseded)")
}

func TestJournalAndLog(t *testing.T) {
	root := newRoot(t)

	out := mustRun(t, root, "log")
	assert.Contains(t, out, "journal is empty")

	out = mustRun(t, root, "memory", "journal", "Set", "up", "CI")
	assert.Contains(t, out, "Journal entry: ")

	out = mustRun(t, root, "log", "-n", "5")
	assert.Contains(t, out, "Set up CI")
}

func TestStateAndIndex(t *testing.T) {
	root := newRoot(t)

	out := mustRun(t, root, "state")
	assert.Contains(t, out, "No state recorded")

	require.NoError(t, os.WriteFile(filepath.Join(root, "memory", "state.md"), []byte("# State\nworking on CI\n"), 0o600))
	out = mustRun(t, root, "state")
	assert.Equal(t, "# State\nworking on CI\n", out)

	mustRun(t, root, "memory", "remember", "A", "b")
	out = mustRun(t, root, "memory", "index")
	assert.Contains(t, out, "Indexed 1 entries.")
	assert.FileExists(t, filepath.Join(root, "memory", "index.yml"))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitTags(" a, ,b,"))
	assert.Nil(t, splitTags(""))
}

func TestSessionLogClosedWhenCommandFails(t *testing.T) {
	root := newRoot(t)

	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--root", root, "memory", "show", "no-such-entry"})
	require.Error(t, a.execute(cmd))

	require.NotNil(t, a.logger)
	f, ok := a.logger.Writer().(*os.File)
	require.True(t, ok)
	require.NotEmpty(t, a.logger.LogPath())
	_, err := f.WriteString("late line\n")
	assert.ErrorIs(t, err, os.ErrClosed)
}
