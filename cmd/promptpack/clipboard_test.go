package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestOSC52Sequence(t *testing.T) {
	data := "hello"
	encoded := "aGVsbG8="

	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")
	seq := osc52Sequence(data)
	if !strings.HasPrefix(seq, "\x1b]52;c;"+encoded) || !strings.HasSuffix(seq, "\x07") {
		t.Fatalf("unexpected OSC52 sequence for xterm: %q", seq)
	}

	t.Setenv("TMUX", "1")
	seq = osc52Sequence(data)
	wantTmux := "\x1bPtmux;\x1b]52;c;" + encoded + "\x07\x1b\\"
	if seq != wantTmux {
		t.Fatalf("unexpected OSC52 sequence for tmux: %q", seq)
	}

	t.Setenv("TMUX", "")
	t.Setenv("TERM", "screen")
	seq = osc52Sequence(data)
	wantScreen := "\x1bP\x1b]52;c;" + encoded + "\x07\x1b\\"
	if seq != wantScreen {
		t.Fatalf("unexpected OSC52 sequence for screen: %q", seq)
	}
}

func TestEmitSSHCopyWritesSequence(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm")

	var stdout, stderr bytes.Buffer
	if err := emit(outputModeSSHCopy, "hello", 2, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.String() != "\x1b]52;c;aGVsbG8=\x07" {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "2 tokens") {
		t.Fatalf("expected token count on stderr, got %q", stderr.String())
	}
}

func TestEmitPrintAddsTrailingNewline(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := emit(outputModePrint, "body", 1, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.String() != "body\n" {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected nothing on stderr, got %q", stderr.String())
	}
}
