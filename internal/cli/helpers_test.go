package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/evgen/internal/testutil"
)

// result holds the outcome of one command execution.
type result struct {
	stdout string
	stderr string
	err    error
}

func (r result) code() int {
	return GetExitCode(r.err)
}

// execute runs ev-cli with exactly args.
func execute(t *testing.T, args ...string) result {
	t.Helper()
	opts := &RootOptions{
		UUIDs: testutil.NewSequenceUUIDGenerator(),
		Clock: testutil.NewSteppingClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Second),
	}
	cmd := newRootCommand(opts)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

// run runs ev-cli against tr with formatting and color disabled.
func run(t *testing.T, tr *testutil.Tree, args ...string) result {
	t.Helper()
	base := []string{
		"--everest-dir", tr.EverestDir,
		"--framework-dir", tr.FrameworkDir,
		"--disable-clang-format",
		"--color", "off",
	}
	return execute(t, append(base, args...)...)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func moduleFile(tr *testutil.Tree, rel string) string {
	return filepath.Join(tr.EverestDir, "modules", "Sample", filepath.FromSlash(rel))
}

func generatedFile(tr *testutil.Tree, rel string) string {
	return filepath.Join(tr.EverestDir, "build", "generated", filepath.FromSlash(rel))
}
