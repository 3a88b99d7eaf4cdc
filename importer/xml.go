package importer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agusx1211/promptpack/prompt"
)

// Only the double-quoted path attribute form is recognized.
var documentRe = regexp.MustCompile(`(?s)<document\s+path="([^"]+)"\s*>(.*?)</document>`)

// ParseXML extracts every <document path="..."> element. Bodies are
// entity-decoded and dedented.
func ParseXML(text string) []prompt.FileContent {
	var files []prompt.FileContent
	for _, m := range documentRe.FindAllStringSubmatch(text, -1) {
		body := trimLeadingBlankLines(m[2])
		body = strings.TrimRightFunc(body, isSpace)
		body = Dedent(decodeEntities(body))
		files = append(files, prompt.FileContent{
			Path:    prompt.NormalizePath(decodeEntities(m[1])),
			Content: body,
		})
	}
	return files
}

// trimLeadingBlankLines drops the leading whitespace run up to and including
// its last newline, so the first content line keeps its indentation.
func trimLeadingBlankLines(s string) string {
	ws := len(s) - len(strings.TrimLeftFunc(s, isSpace))
	if i := strings.LastIndexByte(s[:ws], '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// isSpace matches the characters a JavaScript \s class would.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// decodeEntities decodes the five predefined XML entities. &amp; goes last
// so "&amp;lt;" becomes "&lt;" rather than "<".
func decodeEntities(s string) string {
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&apos;", "'")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&lt;", "<")
	return strings.ReplaceAll(s, "&amp;", "&")
}
