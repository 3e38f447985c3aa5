package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"thinky/config"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// renderMarkdown turns a bot reply into terminal text wrapped to width.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	start := time.Now()

	// [text](url) becomes a bare url so terminals can link it
	content = mdLinkRegex.ReplaceAllString(content, "$2")

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width-4, 0)
	rendered := string(gomarkdown.Render(p.Parse([]byte(content)), r))

	rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")
	rendered = colorURLs(rendered)
	rendered = strings.TrimRight(rendered, "\n")

	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] markdown rendered in %v - %d chars", time.Since(start), len(content))
	}
	return rendered
}

func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = urlRegex.ReplaceAllString(line, "\x1b[31m$1\x1b[0m")
	}
	return strings.Join(lines, "\n")
}

// formatUserMessage draws the viewer's message behind a green bar.
func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		b.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	b.WriteString("\n")
	return b.String()
}

// wordWrapWithIndent wraps text to maxWidth, indenting continuation lines
// to line up after prefix.
func wordWrapWithIndent(text, prefix string, maxWidth int) string {
	prefixLen := len(stripANSI(prefix))
	available := maxWidth - prefixLen
	if available <= 0 {
		return prefix + text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return prefix
	}

	var result, line strings.Builder
	indent := strings.Repeat(" ", prefixLen)
	first := true
	flush := func() {
		if first {
			result.WriteString(prefix)
			first = false
		} else {
			result.WriteString(indent)
		}
		result.WriteString(line.String())
		result.WriteString("\n")
		line.Reset()
	}

	for _, word := range words {
		n := line.Len()
		if n > 0 {
			n++
		}
		if n+len(word) > available && line.Len() > 0 {
			flush()
		}
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		flush()
	}
	return result.String()
}

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
