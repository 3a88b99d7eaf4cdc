package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/agusx1211/promptpack/prompt"
)

const (
	configFileName     = ".promptpack"
	defaultTokenBudget = 32000
	defaultProfileName = "default"
)

type profileConfig struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// projectConfig is the .promptpack file at the project root.
type projectConfig struct {
	Format                    string                   `yaml:"format,omitempty"`
	Model                     string                   `yaml:"model,omitempty"`
	LineNumbers               bool                     `yaml:"line_numbers,omitempty"`
	Tree                      bool                     `yaml:"tree,omitempty"`
	Header                    string                   `yaml:"header,omitempty"`
	Footer                    string                   `yaml:"footer,omitempty"`
	AppendStandardFooterNote  bool                     `yaml:"append_standard_footer_note,omitempty"`
	TokenBudget               *int                     `yaml:"token_budget,omitempty"`
	RespectGitignore          *bool                    `yaml:"respect_gitignore,omitempty"`
	Ignore                    []string                 `yaml:"ignore,omitempty"`
	Include                   []string                 `yaml:"include,omitempty"`
	Exclude                   []string                 `yaml:"exclude,omitempty"`
	Profiles                  map[string]profileConfig `yaml:"profiles,omitempty"`
	Presets                   map[string][]string      `yaml:"presets,omitempty"`
	RequireImportConfirmation *bool                    `yaml:"require_import_confirmation,omitempty"`
	Output                    string                   `yaml:"output,omitempty"`
}

func init() {
	// Report validation errors by their key in the file.
	validation.ErrorTag = "yaml"
}

// Validate validates the configuration.
func (c *projectConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.By(validFormat)),
		validation.Field(&c.TokenBudget, validation.Min(0)),
		validation.Field(&c.Presets, validation.Each(validation.Required)),
		validation.Field(&c.Output, validation.By(validOutputMode)),
	)
}

func validFormat(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, ok := prompt.ParseOutputFormat(s); !ok {
		return errors.New("must be one of markdown, xml or json")
	}
	return nil
}

func validOutputMode(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, ok := normalizeOutputMode(s); !ok {
		return errors.New("must be one of print, copy or ssh-copy")
	}
	return nil
}

func (c *projectConfig) format() prompt.OutputFormat {
	f, _ := prompt.ParseOutputFormat(c.Format)
	return f
}

// tokenBudget is the configured budget. An explicit 0 disables the warning.
func (c *projectConfig) tokenBudget() int {
	if c.TokenBudget == nil {
		return defaultTokenBudget
	}
	return *c.TokenBudget
}

func (c *projectConfig) respectGitignore() bool {
	return c.RespectGitignore == nil || *c.RespectGitignore
}

func (c *projectConfig) requireImportConfirmation() bool {
	return c.RequireImportConfirmation == nil || *c.RequireImportConfirmation
}

// rules returns the include and exclude patterns for profile. An unknown
// profile falls back to "default" when one exists.
func (c *projectConfig) rules(profile string) (include, exclude []string, err error) {
	include = append([]string{}, c.Include...)
	exclude = append([]string{}, c.Exclude...)

	if len(c.Profiles) == 0 {
		if profile != "" {
			return nil, nil, fmt.Errorf("profile %q not found: %s defines no profiles", profile, configFileName)
		}
		return include, exclude, nil
	}

	name := profile
	if name == "" {
		name = defaultProfileName
	}
	prof, ok := c.Profiles[name]
	if !ok {
		prof, ok = c.Profiles[defaultProfileName]
		if !ok && profile != "" {
			return nil, nil, fmt.Errorf("profile %q not found in %s", profile, configFileName)
		}
	}
	include = append(include, prof.Include...)
	exclude = append(exclude, prof.Exclude...)
	return include, exclude, nil
}

func (c *projectConfig) presetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func readProjectConfig(root string) (*projectConfig, error) {
	path := filepath.Join(root, configFileName)
	cfg := &projectConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// updateConfigFile applies edit to the YAML document at path, keeping every
// key edit does not touch and the file's permissions.
func updateConfigFile(path string, edit func(cfg map[string]any)) error {
	var cfg map[string]any
	data, err := os.ReadFile(path)
	if err == nil {
		if len(strings.TrimSpace(string(data))) > 0 {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	if cfg == nil {
		cfg = make(map[string]any)
	}
	edit(cfg)

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, out, perm)
}

func savePreset(root, name string, paths []string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("preset name must not be empty")
	}
	if len(paths) == 0 {
		return fmt.Errorf("preset %q would be empty", name)
	}
	return updateConfigFile(filepath.Join(root, configFileName), func(cfg map[string]any) {
		presets, _ := cfg["presets"].(map[string]any)
		if presets == nil {
			presets = make(map[string]any)
		}
		presets[name] = paths
		cfg["presets"] = presets
	})
}

func deletePreset(root, name string) error {
	cfg, err := readProjectConfig(root)
	if err != nil {
		return err
	}
	if _, ok := cfg.Presets[name]; !ok {
		return fmt.Errorf("preset %q not found", name)
	}
	return updateConfigFile(filepath.Join(root, configFileName), func(cfg map[string]any) {
		presets, _ := cfg["presets"].(map[string]any)
		delete(presets, name)
		if len(presets) == 0 {
			delete(cfg, "presets")
		}
	})
}
