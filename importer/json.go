package importer

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/agusx1211/promptpack/prompt"
)

// jsonFenceRe matches the first fenced block tagged json, javascript or js,
// or untagged.
var jsonFenceRe = regexp.MustCompile("(?is)```(?:json|javascript|js)?\\s*(.*?)```")

// ParseJSON looks for a {"documents": [...]} object in the fenced block, the
// whole text, or the outermost braces, in that order. The first candidate
// that yields at least one valid document wins.
func ParseJSON(text string) []prompt.FileContent {
	for _, candidate := range jsonCandidates(strings.TrimSpace(text)) {
		if files := decodeDocuments(candidate); len(files) > 0 {
			return files
		}
	}
	return nil
}

func jsonCandidates(text string) []string {
	candidates := make([]string, 0, 3)
	if m := jsonFenceRe.FindStringSubmatch(text); m != nil && m[1] != "" {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	candidates = append(candidates, text)
	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first >= 0 && last > first {
		candidates = append(candidates, strings.TrimSpace(text[first:last+1]))
	}
	return candidates
}

// decodeDocuments returns the valid entries of candidate's documents array.
// Entries without a non-empty string path and a string content are dropped.
func decodeDocuments(candidate string) []prompt.FileContent {
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &root); err != nil {
		return nil
	}
	raw, ok := root["documents"]
	if !ok {
		return nil
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil
	}

	var files []prompt.FileContent
	for _, d := range docs {
		var entry map[string]any
		if err := json.Unmarshal(d, &entry); err != nil {
			continue
		}
		path, _ := entry["path"].(string)
		content, ok := entry["content"].(string)
		if path == "" || !ok {
			continue
		}
		files = append(files, prompt.FileContent{
			Path:    prompt.NormalizePath(path),
			Content: content,
		})
	}
	return files
}
