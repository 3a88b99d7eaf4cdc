package prompt

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatMarkdown(t *testing.T) {
	files := []FileContent{
		{Path: `src\main.ts`, Content: "console.log(1)"},
		{Path: "README", Content: "hello"},
	}
	got := FormatPrompt(files, FormatMarkdown, false, "", "", false)
	want := "File: src/main.ts\n\n```ts\nconsole.log(1)\n```\n\nFile: README\n\n```\nhello\n```"
	if got != want {
		t.Fatalf("unexpected markdown:\n%q\nwant\n%q", got, want)
	}
}

func TestFormatMarkdownWithTree(t *testing.T) {
	files := []FileContent{{Path: "a/b.go", Content: "package b"}}
	got := FormatPrompt(files, FormatMarkdown, false, "", "", true)
	want := "Project tree:\n\n```text\n\n+ a\n  - b.go\n\n```\n\n\n\nFile: a/b.go\n\n```go\npackage b\n```"
	if got != want {
		t.Fatalf("unexpected markdown:\n%q\nwant\n%q", got, want)
	}
}

func TestFormatHeaderFooter(t *testing.T) {
	files := []FileContent{{Path: "x.py", Content: "print(1)"}}
	got := FormatPrompt(files, FormatMarkdown, false, "  Review this.  \n", "\n Thanks ", false)
	if !strings.HasPrefix(got, "Review this.\n\nFile: x.py") {
		t.Fatalf("header not trimmed and separated: %q", got)
	}
	if !strings.HasSuffix(got, "```\n\nThanks") {
		t.Fatalf("footer not trimmed and separated: %q", got)
	}

	bare := FormatPrompt(files, FormatMarkdown, false, "   ", "\n", false)
	if !strings.HasPrefix(bare, "File: ") || !strings.HasSuffix(bare, "```") {
		t.Fatalf("blank header/footer should be omitted: %q", bare)
	}
}

func TestFormatLineNumbers(t *testing.T) {
	files := []FileContent{
		{Path: "a.txt", Content: "one\r\ntwo"},
		{Path: "b.txt", Content: "three"},
	}
	got := FormatPrompt(files, FormatMarkdown, true, "", "", false)
	if !strings.Contains(got, "```\n1: one\n2: two\n```") {
		t.Fatalf("expected numbered lines for a.txt: %q", got)
	}
	if !strings.Contains(got, "```\n1: three\n```") {
		t.Fatalf("numbering should restart per file: %q", got)
	}
}

func TestFormatXML(t *testing.T) {
	files := []FileContent{{Path: `dir\a"b.ts`, Content: "if (a < b && c > d) {\n  go()\n}"}}
	got := FormatPrompt(files, FormatXML, false, "", "", true)
	want := "<documents>\n" +
		"  <document path=\"dir/a&quot;b.ts\">\n" +
		"    if (a &lt; b &amp;&amp; c &gt; d) {\n" +
		"      go()\n" +
		"    }\n" +
		"  </document>\n" +
		"</documents>"
	if got != want {
		t.Fatalf("unexpected xml:\n%s\nwant\n%s", got, want)
	}
}

func TestFormatXMLEmpty(t *testing.T) {
	if got := FormatPrompt(nil, FormatXML, false, "", "", false); got != "<documents>\n</documents>" {
		t.Fatalf("unexpected empty xml: %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	files := []FileContent{
		{Path: `a\b.go`, Content: "x < y && z"},
		{Path: "c.md", Content: "# hi"},
	}
	got := FormatPrompt(files, FormatJSON, false, "", "", true)
	if !strings.HasPrefix(got, "{\n  \"documents\": [\n    {\n      \"path\": \"a/b.go\",") {
		t.Fatalf("expected 2-space indented json: %q", got)
	}
	if !strings.Contains(got, `"content": "x < y && z"`) {
		t.Fatalf("html characters must not be escaped: %q", got)
	}

	var decoded struct {
		Documents []FileContent `json:"documents"`
		Tree      *string       `json:"tree"`
	}
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(decoded.Documents) != 2 || decoded.Documents[1].Path != "c.md" {
		t.Fatalf("unexpected documents: %+v", decoded.Documents)
	}
	if decoded.Tree == nil || *decoded.Tree != "+ a\n  - b.go\n- c.md" {
		t.Fatalf("unexpected tree: %v", decoded.Tree)
	}

	noTree := FormatPrompt(files, FormatJSON, false, "", "", false)
	if strings.Contains(noTree, `"tree"`) {
		t.Fatalf("tree key should be absent: %q", noTree)
	}
	empty := FormatPrompt(nil, FormatJSON, false, "", "", true)
	if empty != "{\n  \"documents\": []\n}" {
		t.Fatalf("unexpected empty json: %q", empty)
	}
}

func TestFormatUnknownFallsBackToMarkdown(t *testing.T) {
	files := []FileContent{{Path: "a.go", Content: "x"}}
	got := FormatPrompt(files, OutputFormat("yaml"), false, "", "", false)
	if got != FormatPrompt(files, FormatMarkdown, false, "", "", false) {
		t.Fatalf("unknown format should render markdown: %q", got)
	}
}

func TestParseOutputFormat(t *testing.T) {
	cases := map[string]OutputFormat{
		"xml":      FormatXML,
		" JSON ":   FormatJSON,
		"markdown": FormatMarkdown,
		"md":       FormatMarkdown,
	}
	for in, want := range cases {
		got, ok := ParseOutputFormat(in)
		if !ok || got != want {
			t.Fatalf("ParseOutputFormat(%q) = %q, %v", in, got, ok)
		}
	}
	if got, ok := ParseOutputFormat("toml"); ok || got != FormatMarkdown {
		t.Fatalf("unknown format should fall back to markdown, got %q %v", got, ok)
	}
}

func TestLanguageForPath(t *testing.T) {
	cases := map[string]string{
		"a.ts":        "ts",
		"A.TSX":       "tsx",
		"lib.rs":      "rust",
		"x.cc":        "cpp",
		"index.htm":   "html",
		"Makefile":    "",
		"archive.tar": "",
	}
	for in, want := range cases {
		if got := LanguageForPath(in); got != want {
			t.Fatalf("LanguageForPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStandardFooter(t *testing.T) {
	got := WithStandardFooter("Be brief.", FormatJSON)
	if !strings.HasPrefix(got, "Be brief.\n\n") || !strings.Contains(got, `"documents"`) {
		t.Fatalf("unexpected footer: %q", got)
	}
	if WithStandardFooter("", FormatXML) != StandardFooterNote(FormatXML) {
		t.Fatalf("empty footer should yield only the note")
	}
}
