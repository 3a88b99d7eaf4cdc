package prompt

import "strings"

// languageSuffixes is checked in order; the first matching suffix wins.
var languageSuffixes = []struct {
	suffix string
	lang   string
}{
	{".ts", "ts"},
	{".tsx", "tsx"},
	{".js", "js"},
	{".jsx", "jsx"},
	{".py", "py"},
	{".java", "java"},
	{".cs", "cs"},
	{".cpp", "cpp"},
	{".cc", "cpp"},
	{".cxx", "cpp"},
	{".go", "go"},
	{".rs", "rust"},
	{".json", "json"},
	{".md", "md"},
	{".html", "html"},
	{".htm", "html"},
	{".css", "css"},
}

// LanguageForPath returns the fence language tag for a file path, or "" when
// the extension is not known.
func LanguageForPath(path string) string {
	lower := strings.ToLower(path)
	for _, l := range languageSuffixes {
		if strings.HasSuffix(lower, l.suffix) {
			return l.lang
		}
	}
	return ""
}
