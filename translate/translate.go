// Package translate invokes the external Markdown translator and
// writes translation artifacts into the corpus.
//
// The translator itself is an opaque collaborator: it is handed an
// input path, an output path and a target language, and either
// produces a non-empty output file or fails. This package owns
// everything around that call — pre-invocation existence re-checks,
// transient buffers for combined artifacts, and atomic placement of
// finished files.
package translate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/minios-linux/postkit/corpus"
	"github.com/minios-linux/postkit/postfile"
)

// ---------------------------------------------------------------------------
// Translator collaborator
// ---------------------------------------------------------------------------

// Translator produces one translated rendition of a Markdown file.
type Translator interface {
	Translate(ctx context.Context, inputPath, outputPath, lang string) error
}

// CLI invokes an external translator binary, one process per call.
// Calls block until the process exits; the tool's own behavior bounds
// the call duration.
type CLI struct {
	// Command is the binary name or path.
	Command string
	// APIKey is forwarded opaquely when non-empty.
	APIKey string
	// Model is forwarded opaquely when non-empty.
	Model string
}

// Check verifies the external binary is on PATH. Run once at startup:
// a missing translator is a configuration error, not a per-file one.
func (c *CLI) Check() error {
	if _, err := exec.LookPath(c.Command); err != nil {
		return fmt.Errorf("translator %q not found in PATH: %w", c.Command, err)
	}
	return nil
}

// Translate runs one translator process and blocks until it exits.
func (c *CLI) Translate(ctx context.Context, inputPath, outputPath, lang string) error {
	args := []string{"--input", inputPath, "--output", outputPath, "--lang", lang}
	if c.APIKey != "" {
		args = append(args, "--api-key", c.APIKey)
	}
	if c.Model != "" {
		args = append(args, "--model", c.Model)
	}

	cmd := exec.CommandContext(ctx, c.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Outcomes
// ---------------------------------------------------------------------------

// OutcomeKind classifies how a work item resolved.
type OutcomeKind int

const (
	// Translated: a new artifact was written.
	Translated OutcomeKind = iota
	// AlreadySatisfied: a valid artifact appeared since planning;
	// nothing was invoked.
	AlreadySatisfied
	// Failed: the work item produced no artifact.
	Failed
)

// Outcome is the tagged result of one work item.
type Outcome struct {
	Kind OutcomeKind
	// Err is set only when Kind is Failed.
	Err error
}

func translated() Outcome      { return Outcome{Kind: Translated} }
func alreadyDone() Outcome     { return Outcome{Kind: AlreadySatisfied} }
func failed(err error) Outcome { return Outcome{Kind: Failed, Err: err} }

// ---------------------------------------------------------------------------
// Invoker
// ---------------------------------------------------------------------------

// Marker returns the delimiter line placed before each language
// section of a combined artifact.
func Marker(lang string) string {
	return "<!-- TRANSLATION: " + lang + " -->"
}

// Invoker turns work items into artifacts on disk. It never modifies
// or deletes a pre-existing artifact: each work item creates at most
// one new file.
type Invoker struct {
	// Dir is the posts directory.
	Dir string
	// Oracle re-checks existence immediately before invocation.
	Oracle *corpus.Oracle
	// Translator performs the actual translation.
	Translator Translator
}

// Single translates doc into one target language, writing
// {base}.{lang}.md. The oracle is consulted again right before
// invoking so artifacts created since planning are not redone.
func (iv *Invoker) Single(ctx context.Context, doc corpus.Document, lang string) Outcome {
	if iv.Oracle.Exists(doc.Name.Base, lang) {
		return alreadyDone()
	}

	buf := iv.transientPath(doc.Name.Base, lang)
	defer os.Remove(buf)

	if err := iv.Translator.Translate(ctx, doc.Path, buf, lang); err != nil {
		return failed(err)
	}

	final := filepath.Join(iv.Dir, postfile.SingleName(doc.Name.Base, lang))
	if err := promote(buf, final); err != nil {
		return failed(err)
	}
	return translated()
}

// Combined translates doc into every language of set and writes one
// combined artifact, or nothing at all. Each language is translated
// into a transient buffer first; the final file is assembled and
// renamed into place only after every language has succeeded, so a
// partial failure never leaves a partial combined artifact behind.
func (iv *Invoker) Combined(ctx context.Context, doc corpus.Document, set []string) Outcome {
	if iv.Oracle.ExistsMulti(doc.Name.Base, set) {
		return alreadyDone()
	}

	source, err := os.ReadFile(doc.Path)
	if err != nil {
		return failed(fmt.Errorf("reading source: %w", err))
	}

	sections := make([][]byte, 0, len(set))
	for _, lang := range set {
		content, err := iv.translateToBuffer(ctx, doc.Path, doc.Name.Base, lang)
		if err != nil {
			return failed(fmt.Errorf("%s: %w", lang, err))
		}
		sections = append(sections, content)
	}

	var out bytes.Buffer
	out.Write(source)
	ensureNewline(&out)
	for i, lang := range set {
		out.WriteString(Marker(lang))
		out.WriteByte('\n')
		out.Write(sections[i])
		ensureNewline(&out)
	}

	buf := iv.transientPath(doc.Name.Base, strings.Join(set, "_"))
	defer os.Remove(buf)
	if err := os.WriteFile(buf, out.Bytes(), 0644); err != nil {
		return failed(err)
	}

	final := filepath.Join(iv.Dir, postfile.CombinedName(doc.Name.Base, set))
	if err := promote(buf, final); err != nil {
		return failed(err)
	}
	return translated()
}

// translateToBuffer runs one translation into a transient file and
// returns its content. The buffer is removed before returning.
func (iv *Invoker) translateToBuffer(ctx context.Context, srcPath, base, lang string) ([]byte, error) {
	buf := iv.transientPath(base, lang)
	defer os.Remove(buf)

	if err := iv.Translator.Translate(ctx, srcPath, buf, lang); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(buf)
	if err != nil {
		return nil, fmt.Errorf("translator produced no output: %w", err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("translator wrote an empty file")
	}
	return content, nil
}

// transientPath names the buffer file for one in-flight translation.
// The leading dot and .tmp suffix keep corpus scans from picking the
// buffer up as an artifact.
func (iv *Invoker) transientPath(base, tag string) string {
	return filepath.Join(iv.Dir, "."+base+"."+tag+".tmp")
}

// promote moves a finished transient file into its final name. The
// rename means readers never observe a half-written artifact.
func promote(buf, final string) error {
	info, err := os.Stat(buf)
	if err != nil {
		return fmt.Errorf("translator produced no output: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("translator wrote an empty file")
	}
	return os.Rename(buf, final)
}

func ensureNewline(b *bytes.Buffer) {
	if b.Len() > 0 && b.Bytes()[b.Len()-1] != '\n' {
		b.WriteByte('\n')
	}
}
