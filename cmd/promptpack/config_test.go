package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/agusx1211/promptpack/prompt"
)

func writeConfig(t *testing.T, root, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, configFileName), []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestReadProjectConfigDefaults(t *testing.T) {
	cfg, err := readProjectConfig(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.format() != prompt.FormatMarkdown {
		t.Fatalf("expected markdown default, got %q", cfg.format())
	}
	if cfg.tokenBudget() != defaultTokenBudget {
		t.Fatalf("expected budget %d, got %d", defaultTokenBudget, cfg.tokenBudget())
	}
	if !cfg.respectGitignore() || !cfg.requireImportConfirmation() {
		t.Fatalf("expected gitignore and import confirmation to default on")
	}
}

func TestReadProjectConfigValues(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `format: XML
line_numbers: true
token_budget: 1000
respect_gitignore: false
require_import_confirmation: false
ignore: ["*.snap"]
presets:
  api: [a.go, b.go]
`)
	cfg, err := readProjectConfig(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.format() != prompt.FormatXML {
		t.Fatalf("expected xml, got %q", cfg.format())
	}
	if !cfg.LineNumbers || cfg.tokenBudget() != 1000 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.respectGitignore() || cfg.requireImportConfirmation() {
		t.Fatalf("expected explicit false values to be kept")
	}
	if !reflect.DeepEqual(cfg.Presets["api"], []string{"a.go", "b.go"}) {
		t.Fatalf("unexpected presets: %v", cfg.Presets)
	}
}

func TestReadProjectConfigValidation(t *testing.T) {
	cases := map[string]string{
		"format":       "format: yaml\n",
		"token_budget": "token_budget: -5\n",
		"output":       "output: fax\n",
		"presets":      "presets:\n  empty: []\n",
	}
	for field, body := range cases {
		root := t.TempDir()
		writeConfig(t, root, body)
		_, err := readProjectConfig(root)
		if err == nil {
			t.Fatalf("expected validation error for %s", field)
		}
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("expected error to name %s, got %v", field, err)
		}
	}

	root := t.TempDir()
	writeConfig(t, root, "format: [\n")
	if _, err := readProjectConfig(root); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestReadProjectConfigZeroBudgetDisablesWarning(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "token_budget: 0\n")
	cfg, err := readProjectConfig(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.tokenBudget() != 0 {
		t.Fatalf("expected explicit 0 to be kept, got %d", cfg.tokenBudget())
	}
	if warning := budgetWarning(1_000_000, cfg.tokenBudget()); warning != "" {
		t.Fatalf("expected no warning with budget 0, got %q", warning)
	}
}

func TestConfigRules(t *testing.T) {
	cfg := &projectConfig{
		Include: []string{"*.go"},
		Exclude: []string{"vendor/"},
		Profiles: map[string]profileConfig{
			"default": {Exclude: []string{"*_test.go"}},
			"docs":    {Include: []string{"*.md"}},
		},
	}

	include, exclude, err := cfg.rules("docs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(include, []string{"*.go", "*.md"}) || !reflect.DeepEqual(exclude, []string{"vendor/"}) {
		t.Fatalf("unexpected docs rules: %v %v", include, exclude)
	}

	for _, profile := range []string{"", "missing"} {
		include, exclude, err = cfg.rules(profile)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", profile, err)
		}
		if !reflect.DeepEqual(include, []string{"*.go"}) || !reflect.DeepEqual(exclude, []string{"vendor/", "*_test.go"}) {
			t.Fatalf("expected default profile for %q, got %v %v", profile, include, exclude)
		}
	}

	noDefault := &projectConfig{Profiles: map[string]profileConfig{"docs": {}}}
	if _, _, err := noDefault.rules("missing"); err == nil {
		t.Fatalf("expected error for unknown profile without default")
	}
	if _, _, err := (&projectConfig{}).rules("docs"); err == nil {
		t.Fatalf("expected error for profile without profiles")
	}
}

func TestPresetSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "format: json\nexclude: [dist/]\n")

	if err := savePreset(root, "api", []string{"server/main.go", "server/routes.go"}); err != nil {
		t.Fatalf("unexpected error saving preset: %v", err)
	}
	if err := savePreset(root, "docs", []string{"README.md"}); err != nil {
		t.Fatalf("unexpected error saving preset: %v", err)
	}

	cfg, err := readProjectConfig(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg.presetNames(), []string{"api", "docs"}) {
		t.Fatalf("unexpected preset names: %v", cfg.presetNames())
	}
	if !reflect.DeepEqual(cfg.Presets["api"], []string{"server/main.go", "server/routes.go"}) {
		t.Fatalf("preset order not preserved: %v", cfg.Presets["api"])
	}
	if cfg.format() != prompt.FormatJSON || !reflect.DeepEqual(cfg.Exclude, []string{"dist/"}) {
		t.Fatalf("expected other keys to be preserved: %+v", cfg)
	}

	if err := deletePreset(root, "api"); err != nil {
		t.Fatalf("unexpected error deleting preset: %v", err)
	}
	if err := deletePreset(root, "api"); err == nil {
		t.Fatalf("expected error deleting a missing preset")
	}
	if err := deletePreset(root, "docs"); err != nil {
		t.Fatalf("unexpected error deleting preset: %v", err)
	}
	cfg, err = readProjectConfig(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Presets) != 0 {
		t.Fatalf("expected no presets, got %v", cfg.Presets)
	}

	if err := savePreset(root, " ", []string{"a"}); err == nil {
		t.Fatalf("expected error for blank preset name")
	}
	if err := savePreset(root, "empty", nil); err == nil {
		t.Fatalf("expected error for empty preset")
	}
}
