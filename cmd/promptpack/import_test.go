package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agusx1211/promptpack/importer"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const xmlReply = `Here you go:
<documents>
  <document path="src/app.ts">
    export const answer = 42
  </document>
  <document path="../outside.txt">
    nope
  </document>
</documents>`

func readFileString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestRunImportApplies(t *testing.T) {
	root := t.TempDir()
	var out bytes.Buffer
	opts := importOptions{root: root}
	if err := runImport(xmlReply, opts, nil, &out, quietLogger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readFileString(t, filepath.Join(root, "src", "app.ts")); got != "export const answer = 42" {
		t.Fatalf("unexpected content: %q", got)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "outside.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected escaping path to be skipped")
	}
	text := out.String()
	for _, want := range []string{"create    src/app.ts", "skip      ../outside.txt (outside root)", "Imported 1 file(s) (1 created, 0 modified)."} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestRunImportDryRunWithDiff(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(target, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	reply := "File: notes.txt\n\n```\none\nthree\n```"
	var out bytes.Buffer
	opts := importOptions{root: root, dryRun: true, diff: true}
	if err := runImport(reply, opts, nil, &out, quietLogger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readFileString(t, target); got != "one\ntwo\n" {
		t.Fatalf("dry run modified the file: %q", got)
	}
	text := out.String()
	for _, want := range []string{"modify    notes.txt", "      one\n", "    - two\n", "    + three\n", "Dry run: 1 file(s) would be written."} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestRunImportConfirmation(t *testing.T) {
	root := t.TempDir()
	reply := `{"documents": [{"path": "a.txt", "content": "a"}]}`

	var out bytes.Buffer
	declined := terminalConfirm(strings.NewReader("n\n"), io.Discard)
	if err := runImport(reply, importOptions{root: root, confirm: true}, declined, &out, quietLogger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Aborted.") {
		t.Fatalf("expected abort, got:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(root, "a.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected nothing written after declining")
	}

	var prompted bytes.Buffer
	accepted := terminalConfirm(strings.NewReader("YES\n"), &prompted)
	if err := runImport(reply, importOptions{root: root, confirm: true}, accepted, io.Discard, quietLogger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prompted.String() != "Write 1 file(s)? [y/N] " {
		t.Fatalf("unexpected prompt: %q", prompted.String())
	}
	if got := readFileString(t, filepath.Join(root, "a.txt")); got != "a" {
		t.Fatalf("unexpected content: %q", got)
	}

	refuse := func(int) (bool, error) { return false, errors.New("no terminal") }
	out.Reset()
	if err := runImport(reply, importOptions{root: root, confirm: true}, refuse, &out, quietLogger); err != nil {
		t.Fatalf("unchanged files should not need confirmation: %v", err)
	}
	if !strings.Contains(out.String(), "unchanged a.txt") || !strings.Contains(out.String(), "Nothing to write.") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunImportForcedFormat(t *testing.T) {
	root := t.TempDir()
	err := runImport(xmlReply, importOptions{root: root, format: "json"}, nil, io.Discard, quietLogger)
	if !errors.Is(err, importer.ErrNothingToImport) {
		t.Fatalf("expected ErrNothingToImport when forcing json on xml, got %v", err)
	}
	if err := runImport(xmlReply, importOptions{root: root, format: "yaml"}, nil, io.Discard, quietLogger); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if err := runImport("  \n", importOptions{root: root}, nil, io.Discard, quietLogger); !errors.Is(err, importer.ErrNothingToImport) {
		t.Fatalf("expected ErrNothingToImport for blank input, got %v", err)
	}
}

func TestImportSourceRead(t *testing.T) {
	file := filepath.Join(t.TempDir(), "reply.md")
	if err := os.WriteFile(file, []byte("from file"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	clip := func() (string, error) { return "from clipboard", nil }

	cases := []struct {
		name      string
		src       importSource
		file      string
		wantText  string
		wantLabel string
	}{
		{"named file", importSource{stdin: strings.NewReader("stdin"), piped: true, clipboard: clip}, file, "from file", file},
		{"piped stdin", importSource{stdin: strings.NewReader("from stdin"), piped: true, clipboard: clip}, "", "from stdin", "stdin"},
		{"dash forces stdin", importSource{stdin: strings.NewReader("dash"), clipboard: clip}, "-", "dash", "stdin"},
		{"clipboard", importSource{stdin: strings.NewReader("unused"), clipboard: clip}, "", "from clipboard", "clipboard"},
	}
	for _, tc := range cases {
		text, label, err := tc.src.read(tc.file)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if text != tc.wantText || label != tc.wantLabel {
			t.Fatalf("%s: got (%q, %q), want (%q, %q)", tc.name, text, label, tc.wantText, tc.wantLabel)
		}
	}

	failing := importSource{clipboard: func() (string, error) { return "", errNoClipboard }}
	if _, _, err := failing.read(""); !errors.Is(err, errNoClipboard) {
		t.Fatalf("expected clipboard error, got %v", err)
	}
	if _, _, err := failing.read(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
