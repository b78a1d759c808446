// Package subtitle converts structured caption files (SRT, VTT) to plain
// text. Auto-generated captions repeat lines across cue boundaries, so
// consecutive duplicates are collapsed.
package subtitle

import (
	"regexp"
	"strings"
)

var (
	// headerRe matches the WEBVTT file header line.
	headerRe = regexp.MustCompile(`^WEBVTT\b`)

	// metadataRe matches VTT metadata lines (Kind:, Language:, NOTE, STYLE).
	metadataRe = regexp.MustCompile(`^(Kind|Language|NOTE|STYLE|REGION)\b`)

	// timingRe matches SRT and VTT cue timing lines like
	// "00:00:01,234 --> 00:00:03,456" (SRT) or "00:01.234 --> 00:03.456" (VTT).
	timingRe = regexp.MustCompile(`^(\d{2}:)?\d{2}:\d{2}[.,]\d{3}\s*-->\s*(\d{2}:)?\d{2}:\d{2}[.,]\d{3}`)

	// cueIndexRe matches standalone numeric cue indices.
	cueIndexRe = regexp.MustCompile(`^\d+$`)

	// tagRe matches inline markup tags (<c>, <i>, <00:00:01.000>, {\an8}).
	tagRe = regexp.MustCompile(`<[^>]*>|\{\\?[^}]*\}`)
)

// ToText strips structural lines and inline markup from caption content and
// returns readable plain text with one caption line per input cue line.
func ToText(raw string) string {
	var out []string
	prev := ""

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")

		if headerRe.MatchString(line) || metadataRe.MatchString(line) || timingRe.MatchString(line) {
			continue
		}
		if cueIndexRe.MatchString(strings.TrimSpace(line)) {
			continue
		}

		line = strings.TrimSpace(tagRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		if line == prev {
			continue
		}

		out = append(out, line)
		prev = line
	}

	return strings.Join(out, "\n")
}
