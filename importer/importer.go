// Package importer recovers files from a model's reply. The reply may be in
// any of the prompt formats and may be wrapped in prose or code fences.
package importer

import (
	"strings"

	"github.com/agusx1211/promptpack/prompt"
)

// Stage extracts files from text in one format. It returns nil when the text
// does not look like that format.
type Stage struct {
	Format prompt.OutputFormat
	Parse  func(text string) []prompt.FileContent
}

// Stages is the detection order used by ParseAuto. XML is the least ambiguous
// signature and Markdown the most permissive, so Markdown runs last.
var Stages = []Stage{
	{Format: prompt.FormatXML, Parse: ParseXML},
	{Format: prompt.FormatJSON, Parse: ParseJSON},
	{Format: prompt.FormatMarkdown, Parse: ParseMarkdown},
}

// ParseAuto returns the files of the first stage that finds any. It never
// fails; text with no recognizable files yields nil.
func ParseAuto(text string) []prompt.FileContent {
	files, _ := Detect(text)
	return files
}

// Detect is ParseAuto that also reports which format matched.
func Detect(text string) ([]prompt.FileContent, prompt.OutputFormat) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ""
	}
	for _, s := range Stages {
		if files := s.Parse(trimmed); len(files) > 0 {
			return files, s.Format
		}
	}
	return nil, ""
}

// Parse runs only the stage for format. Unknown formats parse as Markdown.
func Parse(text string, format prompt.OutputFormat) []prompt.FileContent {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	switch format {
	case prompt.FormatXML:
		return ParseXML(trimmed)
	case prompt.FormatJSON:
		return ParseJSON(trimmed)
	default:
		return ParseMarkdown(trimmed)
	}
}
