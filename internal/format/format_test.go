package format

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/evgen/internal/artifact"
)

// fakeBinary writes an executable shell script standing in for clang-format.
func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	p := filepath.Join(t.TempDir(), "clang-format")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+script), 0o755))
	return p
}

type upper struct{}

func (upper) Format(_ context.Context, _ string, content []byte) ([]byte, error) {
	return bytes.ToUpper(content), nil
}

type broken struct{}

func (broken) Format(context.Context, string, []byte) ([]byte, error) {
	return nil, errors.New("boom")
}

func plan() []artifact.Artifact {
	return []artifact.Artifact{
		{Category: "cmakelists", Path: "/m/CMakeLists.txt", Display: "CMakeLists.txt", Content: []byte("cmake")},
		{Category: "module.hpp", Path: "/m/Sample.hpp", Display: "Sample.hpp", Content: []byte("header")},
		{Category: "module.cpp", Path: "/m/Sample.cpp", Display: "Sample.cpp", Content: []byte("source")},
	}
}

func TestApplies(t *testing.T) {
	assert.True(t, Applies("a/b.hpp"))
	assert.True(t, Applies("a/b.CPP"))
	assert.True(t, Applies("b.h"))
	assert.False(t, Applies("CMakeLists.txt"))
	assert.False(t, Applies("mod_deps.cmake"))
}

func TestApplyFormatsOnlyCppFiles(t *testing.T) {
	in := plan()

	out, failures := Apply(context.Background(), upper{}, in, nil)
	assert.Empty(t, failures)

	assert.Equal(t, "cmake", string(out[0].Content))
	assert.False(t, out[0].Formatted)
	assert.Equal(t, "HEADER", string(out[1].Content))
	assert.True(t, out[1].Formatted)
	assert.Equal(t, "SOURCE", string(out[2].Content))

	assert.Equal(t, "header", string(in[1].Content), "input plan is not modified")
}

func TestApplyNilFormatter(t *testing.T) {
	out, failures := Apply(context.Background(), nil, plan(), nil)
	assert.Empty(t, failures)
	for _, a := range out {
		assert.False(t, a.Formatted)
	}
}

func TestApplyFallsBackOnFailure(t *testing.T) {
	var logs bytes.Buffer

	out, failures := Apply(context.Background(), broken{}, plan(), log.New(&logs))

	require.Len(t, failures, 2)
	assert.Equal(t, "Sample.hpp", failures[0].File)
	assert.ErrorContains(t, failures[0], "boom")
	assert.Equal(t, "header", string(out[1].Content))
	assert.False(t, out[1].Formatted)
	assert.Contains(t, logs.String(), "formatter failed")
	assert.Contains(t, logs.String(), "Sample.hpp")
}

func TestClangFormatRunsBinary(t *testing.T) {
	bin := fakeBinary(t, `tr a-z A-Z`)
	styleDir := t.TempDir()

	got, err := NewClangFormat(bin, styleDir).Format(context.Background(), "/m/main/fooImpl.hpp", []byte("int x;\n"))
	require.NoError(t, err)
	assert.Equal(t, "INT X;\n", string(got))
}

func TestClangFormatPassesStyleArguments(t *testing.T) {
	bin := fakeBinary(t, `cat >/dev/null; printf '%s\n' "$@"; pwd`)
	styleDir := t.TempDir()

	got, err := NewClangFormat(bin, styleDir).Format(context.Background(), "/m/main/fooImpl.hpp", []byte("x"))
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(styleDir)
	require.NoError(t, err)
	assert.Contains(t, string(got), "--style=file\n")
	assert.Contains(t, string(got), "--assume-filename="+filepath.Join(styleDir, "fooImpl.hpp"))
	assert.Contains(t, string(got), resolved)
}

func TestClangFormatFailure(t *testing.T) {
	bin := fakeBinary(t, `echo "bad style" >&2; exit 3`)

	_, err := NewClangFormat(bin, t.TempDir()).Format(context.Background(), "a.cpp", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad style")
}

func TestClangFormatMissingBinary(t *testing.T) {
	f := NewClangFormat(filepath.Join(t.TempDir(), "nope"), t.TempDir())

	out, failures := Apply(context.Background(), f, plan(), nil)
	require.Len(t, failures, 2)
	assert.Equal(t, "source", string(out[2].Content))
}

func TestNewClangFormatDefaultBinary(t *testing.T) {
	assert.Equal(t, DefaultBinary, NewClangFormat("", ".").Binary)
}
