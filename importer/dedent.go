package importer

import "strings"

// Dedent removes the indentation shared by all non-blank lines. Blank lines
// become empty. Text with no common indentation is returned unchanged, which
// makes Dedent idempotent.
func Dedent(text string) string {
	lines := lineBreak.Split(text, -1)

	minIndent := -1
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return text
	}

	for i, line := range lines {
		if isBlank(line) {
			lines[i] = ""
			continue
		}
		lines[i] = line[minIndent:]
	}
	return strings.Join(lines, "\n")
}

func isBlank(line string) bool {
	return strings.TrimFunc(line, isSpace) == ""
}
