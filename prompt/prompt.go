// Package prompt turns an ordered list of files into a single LLM prompt in
// one of the supported wire formats.
package prompt

import (
	"regexp"
	"strconv"
	"strings"
)

// FileContent is a file as it travels through a prompt: a relative,
// slash-separated path and its raw text.
type FileContent struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// OutputFormat selects the prompt wire format.
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatXML      OutputFormat = "xml"
	FormatJSON     OutputFormat = "json"
)

// Formats lists every supported format.
var Formats = []OutputFormat{FormatMarkdown, FormatXML, FormatJSON}

// Valid reports whether f is one of the supported formats.
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatMarkdown, FormatXML, FormatJSON:
		return true
	}
	return false
}

// ParseOutputFormat normalizes s into a format. Unknown values fall back to
// markdown and report ok=false.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	f := OutputFormat(strings.TrimSpace(strings.ToLower(s)))
	switch f {
	case FormatXML, FormatJSON, FormatMarkdown:
		return f, true
	case "md":
		return FormatMarkdown, true
	}
	return FormatMarkdown, false
}

// NormalizePath converts backslashes to forward slashes. It is the only
// transform applied to emitted paths.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

var lineBreak = regexp.MustCompile(`\r?\n`)

// AddLineNumbers prefixes every line with its 1-based index and ": ".
func AddLineNumbers(content string) string {
	lines := lineBreak.Split(content, -1)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		b.WriteString(line)
	}
	return b.String()
}
