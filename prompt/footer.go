package prompt

// StandardFooterNote asks the model to answer in the same shape the prompt
// was written in, so the reply can be imported back.
func StandardFooterNote(format OutputFormat) string {
	switch format {
	case FormatXML:
		return `When you change files, reply with the complete new content of each changed file inside <documents>, one <document path="relative/path"> element per file, escaping &, < and > in the content.`
	case FormatJSON:
		return `When you change files, reply with a single JSON object {"documents": [{"path": "relative/path", "content": "..."}]} holding the complete new content of each changed file.`
	default:
		return "When you change files, reply with the complete new content of each changed file as a line `File: relative/path` followed by one fenced code block."
	}
}

// WithStandardFooter appends the standard note to footer.
func WithStandardFooter(footer string, format OutputFormat) string {
	note := StandardFooterNote(format)
	if footer == "" {
		return note
	}
	return footer + "\n\n" + note
}
