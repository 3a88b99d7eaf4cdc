package main

import (
	"fmt"
	"io"
	"os"
)

// importSource finds the text to import: a named file, piped stdin, or the
// clipboard, in that order.
type importSource struct {
	stdin     io.Reader
	piped     bool
	clipboard func() (string, error)
}

func newImportSource() importSource {
	piped := false
	if stat, err := os.Stdin.Stat(); err == nil {
		piped = (stat.Mode() & os.ModeCharDevice) == 0
	}
	return importSource{stdin: os.Stdin, piped: piped, clipboard: readClipboard}
}

// read returns the content and a label naming where it came from.
func (s importSource) read(file string) (string, string, error) {
	switch {
	case file == "-" || (file == "" && s.piped):
		content, err := io.ReadAll(s.stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), "stdin", nil
	case file != "":
		content, err := os.ReadFile(file)
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(content), file, nil
	}

	content, err := s.clipboard()
	if err != nil {
		return "", "", err
	}
	return content, "clipboard", nil
}
