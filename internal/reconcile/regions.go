package reconcile

import (
	"regexp"
	"strings"
)

// A marked region is the lines between two lines carrying the same
// "ev@<uuid>:v1" marker. Update carries region bodies over into the new
// content, and they are left out of ledger fingerprints.
var markerRE = regexp.MustCompile(`ev@([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}):v1`)

// MergeRegions returns next with the body of every marked region that also
// appears in prev replaced by prev's body. Regions only in prev are dropped.
func MergeRegions(prev, next []byte) []byte {
	bodies := regionBodies(splitLines(prev))
	if len(bodies) == 0 {
		return next
	}
	merged := rewriteRegions(splitLines(next), func(id string, body []string) []string {
		if kept, ok := bodies[id]; ok {
			return kept
		}
		return body
	})
	return []byte(strings.Join(merged, ""))
}

// StripRegions returns content with every marked region body removed.
// Marker lines are kept.
func StripRegions(content []byte) []byte {
	stripped := rewriteRegions(splitLines(content), func(string, []string) []string { return nil })
	return []byte(strings.Join(stripped, ""))
}

// splitLines splits content after each newline and keeps every byte, so
// joining the result gives content back.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	out := strings.SplitAfter(string(content), "\n")
	if out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func marker(line string) string {
	m := markerRE.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// regionBodies returns the body of each closed region by marker id.
// The first region with an id wins.
func regionBodies(lines []string) map[string][]string {
	out := make(map[string][]string)
	open := ""
	var body []string
	for _, l := range lines {
		id := marker(l)
		switch {
		case open == "" && id != "":
			open, body = id, []string{}
		case open != "" && id == open:
			if _, seen := out[open]; !seen {
				out[open] = body
			}
			open = ""
		case open != "":
			body = append(body, l)
		}
	}
	return out
}

// rewriteRegions replaces each closed region body with fill(id, body).
// An unterminated region is kept as is.
func rewriteRegions(lines []string, fill func(id string, body []string) []string) []string {
	out := make([]string, 0, len(lines))
	open := ""
	var body []string
	for _, l := range lines {
		id := marker(l)
		switch {
		case open == "" && id != "":
			open, body = id, nil
			out = append(out, l)
		case open != "" && id == open:
			out = append(out, fill(open, body)...)
			out = append(out, l)
			open = ""
		case open != "":
			body = append(body, l)
		default:
			out = append(out, l)
		}
	}
	if open != "" {
		out = append(out, body...)
	}
	return out
}
