// SPDX-License-Identifier: MPL-2.0

package preview

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
)

// maxHeadingLevel is the deepest Markdown heading; deeper Org levels are clamped.
const maxHeadingLevel = 6

var (
	headlinePattern  = regexp.MustCompile(`^(\*+)\s+(.*)$`)
	timestampPattern = regexp.MustCompile(`<\d{4}-\d{2}-\d{2}[^>]*>`)
)

type (
	// Options configures Render.
	Options struct {
		// Style is a glamour style name: "auto", "dark", "light" or "notty".
		Style string
		// Width is the word wrap width (0 for no wrap).
		Width int
	}

	// Summary counts the Org structures found in script output.
	Summary struct {
		Headlines  int
		Timestamps int
		// Levels[i] is the number of headlines at depth i+1.
		Levels []int
	}
)

// ToMarkdown converts the Org subset the calendar script emits into
// Markdown: headlines become headings, and lines holding active timestamps
// or timestamp ranges become inline code. Everything else passes through.
func ToMarkdown(org string) string {
	lines := strings.Split(strings.ReplaceAll(org, "\r\n", "\n"), "\n")
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if m := headlinePattern.FindStringSubmatch(line); m != nil {
			level := min(len(m[1]), maxHeadingLevel)
			b.WriteString(strings.Repeat("#", level))
			b.WriteByte(' ')
			b.WriteString(strings.TrimSpace(m[2]))
			b.WriteByte('\n')
			continue
		}
		trimmed := strings.TrimSpace(line)
		if isTimestampLine(trimmed) {
			b.WriteString("`" + trimmed + "`\n")
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

// isTimestampLine reports whether s is one or more timestamps joined by "-"
// or "--", with nothing else on the line.
func isTimestampLine(s string) bool {
	if !timestampPattern.MatchString(s) {
		return false
	}
	return strings.Trim(timestampPattern.ReplaceAllString(s, ""), "-") == ""
}

// Summarize counts headlines per level and timestamps in org.
func Summarize(org string) Summary {
	var s Summary
	for line := range strings.Lines(org) {
		if m := headlinePattern.FindStringSubmatch(strings.TrimRight(line, "\r\n")); m != nil {
			depth := len(m[1])
			for len(s.Levels) < depth {
				s.Levels = append(s.Levels, 0)
			}
			s.Levels[depth-1]++
			s.Headlines++
		}
		s.Timestamps += len(timestampPattern.FindAllString(line, -1))
	}
	return s
}

// Render converts org to Markdown and renders it for the terminal.
func Render(org string, opts Options) (string, error) {
	var rendererOpts []glamour.TermRendererOption
	switch opts.Style {
	case "", "auto":
		rendererOpts = append(rendererOpts, glamour.WithAutoStyle())
	default:
		rendererOpts = append(rendererOpts, glamour.WithStandardStyle(opts.Style))
	}
	if opts.Width > 0 {
		rendererOpts = append(rendererOpts, glamour.WithWordWrap(opts.Width))
	}

	renderer, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return "", err
	}
	return renderer.Render(ToMarkdown(org))
}
