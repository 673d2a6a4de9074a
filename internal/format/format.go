package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/roach88/evgen/internal/artifact"
)

// DefaultBinary is the clang-format executable looked up on PATH.
const DefaultBinary = "clang-format"

// Extensions lists the file extensions that are formatted.
var Extensions = []string{".hpp", ".cpp", ".h", ".cc", ".hh", ".cxx"}

// Formatter formats the content of one file.
type Formatter interface {
	Format(ctx context.Context, path string, content []byte) ([]byte, error)
}

// Failure reports a formatter run that did not succeed.
type Failure struct {
	File string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("formatting %s: %v", f.File, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// ClangFormat pipes content through clang-format using the .clang-format
// file found in StyleDir.
type ClangFormat struct {
	Binary   string
	StyleDir string
}

// NewClangFormat creates a formatter. An empty binary selects DefaultBinary.
func NewClangFormat(binary, styleDir string) *ClangFormat {
	if binary == "" {
		binary = DefaultBinary
	}
	return &ClangFormat{Binary: binary, StyleDir: styleDir}
}

// Format implements Formatter.
func (c *ClangFormat) Format(ctx context.Context, path string, content []byte) ([]byte, error) {
	// clang-format looks for .clang-format upwards from the assumed file,
	// so the assumed file is placed in the style directory.
	assumed := filepath.Join(c.StyleDir, filepath.Base(path))
	cmd := exec.CommandContext(ctx, c.Binary, "--style=file", "--assume-filename="+assumed)
	cmd.Dir = c.StyleDir
	cmd.Stdin = bytes.NewReader(content)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	if stdout.Len() == 0 && len(content) > 0 {
		return nil, errors.New("formatter produced no output")
	}
	return stdout.Bytes(), nil
}

// Applies reports whether files with this path are formatted.
func Applies(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Apply formats every C/C++ artifact with f and returns the resulting plan.
// A nil f leaves every artifact unformatted. Formatter failures are logged
// and returned; the affected artifact keeps its rendered content.
func Apply(ctx context.Context, f Formatter, arts []artifact.Artifact, logger *log.Logger) ([]artifact.Artifact, []*Failure) {
	out := make([]artifact.Artifact, len(arts))
	copy(out, arts)
	if f == nil {
		return out, nil
	}

	var failures []*Failure
	for i, a := range out {
		if !Applies(a.Path) {
			continue
		}
		formatted, err := f.Format(ctx, a.Path, a.Content)
		if err != nil {
			failure := &Failure{File: a.Display, Err: err}
			failures = append(failures, failure)
			if logger != nil {
				logger.Warn("formatter failed, keeping unformatted content", "file", a.Display, "err", err)
			}
			continue
		}
		out[i].Content = formatted
		out[i].Formatted = true
	}
	return out, failures
}
