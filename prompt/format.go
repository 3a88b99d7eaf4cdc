package prompt

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Options controls how Format assembles a prompt.
type Options struct {
	Format      OutputFormat
	LineNumbers bool
	Header      string
	Footer      string
	// Tree adds the tree summary. XML output has no slot for it.
	Tree bool
}

// FormatPrompt is Format with positional options.
func FormatPrompt(files []FileContent, format OutputFormat, includeLineNumbers bool, header, footer string, includeTree bool) string {
	return Format(files, Options{
		Format:      format,
		LineNumbers: includeLineNumbers,
		Header:      header,
		Footer:      footer,
		Tree:        includeTree,
	})
}

// Format renders files, in order, as header + body + footer.
func Format(files []FileContent, opts Options) string {
	var body string
	switch opts.Format {
	case FormatXML:
		body = formatXML(files, opts.LineNumbers)
	case FormatJSON:
		body = formatJSON(files, opts.LineNumbers, opts.Tree)
	default:
		body = formatMarkdown(files, opts.LineNumbers, opts.Tree)
	}

	var b strings.Builder
	if h := strings.TrimSpace(opts.Header); h != "" {
		b.WriteString(h)
		b.WriteString("\n\n")
	}
	b.WriteString(body)
	if f := strings.TrimSpace(opts.Footer); f != "" {
		b.WriteString("\n\n")
		b.WriteString(f)
	}
	return b.String()
}

func fileBody(f FileContent, lineNumbers bool) string {
	if lineNumbers {
		return AddLineNumbers(f.Content)
	}
	return f.Content
}

func formatMarkdown(files []FileContent, lineNumbers, tree bool) string {
	parts := make([]string, 0, len(files)+5)

	if tree && len(files) > 0 {
		if summary := TreeSummary(files); strings.TrimSpace(summary) != "" {
			parts = append(parts, "Project tree:", "```text", summary, "```", "")
		}
	}

	for _, f := range files {
		parts = append(parts, "File: "+NormalizePath(f.Path)+"\n\n"+
			"```"+LanguageForPath(f.Path)+"\n"+fileBody(f, lineNumbers)+"\n```")
	}

	return strings.Join(parts, "\n\n")
}

var (
	xmlTextEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	xmlAttrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func formatXML(files []FileContent, lineNumbers bool) string {
	lines := []string{"<documents>"}
	for _, f := range files {
		escaped := xmlTextEscaper.Replace(fileBody(f, lineNumbers))
		lines = append(lines,
			`  <document path="`+xmlAttrEscaper.Replace(NormalizePath(f.Path))+`">`,
			"    "+strings.ReplaceAll(escaped, "\n", "\n    "),
			"  </document>",
		)
	}
	lines = append(lines, "</documents>")
	return strings.Join(lines, "\n")
}

type jsonPayload struct {
	Documents []FileContent `json:"documents"`
	Tree      *string       `json:"tree,omitempty"`
}

func formatJSON(files []FileContent, lineNumbers, tree bool) string {
	payload := jsonPayload{Documents: make([]FileContent, 0, len(files))}
	for _, f := range files {
		payload.Documents = append(payload.Documents, FileContent{
			Path:    NormalizePath(f.Path),
			Content: fileBody(f, lineNumbers),
		})
	}
	if tree && len(files) > 0 {
		summary := TreeSummary(files)
		payload.Tree = &summary
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Strings and slices of strings always encode.
	_ = enc.Encode(payload)
	return strings.TrimSuffix(buf.String(), "\n")
}
