// Package config builds the immutable run configuration from the
// environment and an optional postkit.yaml file. The file lives in the
// project root, next to the posts directory: for a corpus at
// blog/source/_posts the file is blog/source/postkit.yaml.
//
// Precedence: compiled defaults < environment < postkit.yaml. When the
// file is present its non-empty fields win — an explicit project file
// is authoritative over ambient environment state. The posts directory
// itself is the exception: a caller-supplied override pins it before
// the file lookup and the file cannot move it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project configuration file.
const FileName = "postkit.yaml"

// Config is the complete run configuration. It is built once in main
// and passed by value; no component reads the environment after
// startup.
type Config struct {
	// SourceLang is the language of the canonical source posts.
	SourceLang string `env:"SOURCE_LANG" envDefault:"zh-cn" yaml:"source_lang"`
	// TargetLangs is the ordered list of languages to converge on.
	TargetLangs []string `env:"TARGET_LANGS" envSeparator:"," envDefault:"en,ja,ko" yaml:"target_langs"`
	// PostsDir is the corpus root.
	PostsDir string `env:"POSTS_DIR" envDefault:"source/_posts" yaml:"posts_dir"`
	// TranslatorCmd is the external translator binary.
	TranslatorCmd string `env:"TRANSLATOR_BIN" envDefault:"mdtranslate" yaml:"translator"`
	// Model is forwarded opaquely to the translator when set.
	Model string `env:"TRANSLATOR_MODEL" yaml:"model"`
	// APIKey is forwarded opaquely to the translator when set. Not
	// read from postkit.yaml: credentials stay out of files that get
	// committed.
	APIKey string `env:"TRANSLATOR_API_KEY" yaml:"-"`
}

// Load builds the configuration: environment first, then postkit.yaml
// overrides read from the parent of the posts directory. A non-empty
// postsDir pins the corpus root before the file lookup, so the
// directory the caller points at decides which project file applies.
func Load(postsDir string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if postsDir != "" {
		cfg.PostsDir = postsDir
	}
	if err := applyFile(&cfg, filepath.Join(filepath.Dir(cfg.PostsDir), FileName)); err != nil {
		return Config{}, err
	}
	if postsDir != "" {
		cfg.PostsDir = postsDir
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyFile overlays non-empty fields from a postkit.yaml file. A
// missing file is not an error.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if file.SourceLang != "" {
		cfg.SourceLang = file.SourceLang
	}
	if len(file.TargetLangs) > 0 {
		cfg.TargetLangs = file.TargetLangs
	}
	if file.PostsDir != "" {
		cfg.PostsDir = file.PostsDir
	}
	if file.TranslatorCmd != "" {
		cfg.TranslatorCmd = file.TranslatorCmd
	}
	if file.Model != "" {
		cfg.Model = file.Model
	}
	return nil
}

// Validate checks the invariants every run depends on.
func (c Config) Validate() error {
	if c.SourceLang == "" {
		return fmt.Errorf("source language must not be empty")
	}
	if c.PostsDir == "" {
		return fmt.Errorf("posts directory must not be empty")
	}
	if c.TranslatorCmd == "" {
		return fmt.Errorf("translator command must not be empty")
	}
	if len(c.Targets()) == 0 {
		return fmt.Errorf("no target languages configured (source %s is excluded)", c.SourceLang)
	}
	return nil
}

// Targets returns the configured target list with the source language
// and duplicates removed, order preserved.
func (c Config) Targets() []string {
	seen := make(map[string]bool, len(c.TargetLangs))
	var out []string
	for _, lang := range c.TargetLangs {
		lang = strings.TrimSpace(lang)
		if lang == "" || lang == c.SourceLang || seen[lang] {
			continue
		}
		seen[lang] = true
		out = append(out, lang)
	}
	return out
}
