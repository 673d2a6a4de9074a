package reconcile

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/roach88/evgen/internal/artifact"
)

// Unified returns a unified diff from old to new for the file display.
// When exists is false the diff is taken against /dev/null.
func Unified(display string, old, new []byte, exists bool) (string, error) {
	from := "a/" + display
	if !exists {
		from = "/dev/null"
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        lines(old),
		B:        lines(new),
		FromFile: from,
		ToFile:   "b/" + display,
		Context:  3,
	})
}

// lines splits content into newline terminated lines.
func lines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	out := strings.SplitAfter(string(content), "\n")
	if out[len(out)-1] == "" {
		out = out[:len(out)-1]
	} else {
		out[len(out)-1] += "\n"
	}
	return out
}

// colorize paints diff lines: headers bold, hunks cyan, removals red,
// additions green.
func colorize(diff string, enabled bool) string {
	header := color.New(color.Bold)
	hunk := color.New(color.FgCyan)
	del := color.New(color.FgRed)
	add := color.New(color.FgGreen)
	for _, c := range []*color.Color{header, hunk, del, add} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		var painted string
		switch {
		case strings.HasPrefix(text, "---"), strings.HasPrefix(text, "+++"):
			painted = header.Sprint(text)
		case strings.HasPrefix(text, "@@"):
			painted = hunk.Sprint(text)
		case strings.HasPrefix(text, "-"):
			painted = del.Sprint(text)
		case strings.HasPrefix(text, "+"):
			painted = add.Sprint(text)
		default:
			painted = text
		}
		b.WriteString(painted)
		b.WriteByte('\n')
	}
	return b.String()
}

func (e *Engine) printDiff(a artifact.Artifact, existing []byte, exists bool) error {
	if exists && bytes.Equal(existing, a.Content) {
		return nil
	}
	diff, err := Unified(a.Display, existing, a.Content, exists)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	if _, err := fmt.Fprint(e.diff, colorize(diff, e.color)); err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	return nil
}
