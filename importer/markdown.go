package importer

import (
	"regexp"
	"strings"

	"github.com/agusx1211/promptpack/prompt"
)

var (
	lineBreak  = regexp.MustCompile(`\r?\n`)
	fileLineRe = regexp.MustCompile(`^\s*(?:[-*]\s*)?File:\s+(.+)$`)
)

const fence = "```"

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), fence)
}

// ParseMarkdown scans for "File: <path>" lines, optionally bulleted, each
// followed by a fenced code block. A header with no fence after it emits
// nothing and scanning continues; stray "File:" mentions in prose are common.
func ParseMarkdown(text string) []prompt.FileContent {
	lines := lineBreak.Split(text, -1)
	var files []prompt.FileContent

	i := 0
	for i < len(lines) {
		m := fileLineRe.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}
		path := strings.TrimSpace(m[1])

		i++
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
		if i >= len(lines) || !isFence(lines[i]) {
			continue
		}
		i++ // opening fence; its language tag is ignored

		start := i
		for i < len(lines) && !isFence(lines[i]) {
			i++
		}
		content := strings.Join(lines[start:i], "\n")
		if i < len(lines) {
			i++ // closing fence
		}
		if path == "" {
			continue
		}

		files = append(files, prompt.FileContent{
			Path:    prompt.NormalizePath(path),
			Content: content,
		})
	}
	return files
}
