package translate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minios-linux/postkit/corpus"
	"github.com/minios-linux/postkit/postfile"
)

// fakeTranslator writes canned content per language, or fails for
// languages listed in failing. It records every call.
type fakeTranslator struct {
	failing map[string]bool
	empty   map[string]bool
	calls   []string
}

func (f *fakeTranslator) Translate(_ context.Context, inputPath, outputPath, lang string) error {
	f.calls = append(f.calls, lang)
	if f.failing[lang] {
		return errors.New("provider rejected the request")
	}
	content := fmt.Sprintf("translated %s into %s\n", filepath.Base(inputPath), lang)
	if f.empty[lang] {
		content = ""
	}
	return os.WriteFile(outputPath, []byte(content), 0644)
}

func newInvoker(dir string, tr Translator) *Invoker {
	return &Invoker{Dir: dir, Oracle: corpus.NewOracle(dir), Translator: tr}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
}

func document(t *testing.T, dir, filename string) corpus.Document {
	t.Helper()
	name, err := postfile.Parse(filename)
	if err != nil {
		t.Fatalf("Parse(%s): %v", filename, err)
	}
	return corpus.Document{Name: name, Path: filepath.Join(dir, filename)}
}

func TestSingle(t *testing.T) {
	t.Run("creates the artifact", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "post-a.zh-cn.md", "source\n")
		tr := &fakeTranslator{}

		out := newInvoker(dir, tr).Single(context.Background(), document(t, dir, "post-a.zh-cn.md"), "en")
		if out.Kind != Translated {
			t.Fatalf("Kind = %v (err %v), want Translated", out.Kind, out.Err)
		}

		data, err := os.ReadFile(filepath.Join(dir, "post-a.en.md"))
		if err != nil {
			t.Fatalf("reading artifact: %v", err)
		}
		if !strings.Contains(string(data), "into en") {
			t.Fatalf("artifact content = %q, want translated output", data)
		}
	})

	t.Run("already satisfied", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "post-a.zh-cn.md", "source\n")
		writeFile(t, dir, "post-a.en.md", "done earlier\n")
		tr := &fakeTranslator{}

		out := newInvoker(dir, tr).Single(context.Background(), document(t, dir, "post-a.zh-cn.md"), "en")
		if out.Kind != AlreadySatisfied {
			t.Fatalf("Kind = %v, want AlreadySatisfied", out.Kind)
		}
		if len(tr.calls) != 0 {
			t.Fatalf("translator invoked %d times, want 0", len(tr.calls))
		}
	})

	t.Run("failure leaves nothing behind", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "post-a.zh-cn.md", "source\n")
		tr := &fakeTranslator{failing: map[string]bool{"en": true}}

		out := newInvoker(dir, tr).Single(context.Background(), document(t, dir, "post-a.zh-cn.md"), "en")
		if out.Kind != Failed || out.Err == nil {
			t.Fatalf("Kind = %v, want Failed with error", out.Kind)
		}
		if _, err := os.Stat(filepath.Join(dir, "post-a.en.md")); !os.IsNotExist(err) {
			t.Fatalf("artifact exists after failure")
		}
	})

	t.Run("empty output is a failure", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "post-a.zh-cn.md", "source\n")
		tr := &fakeTranslator{empty: map[string]bool{"en": true}}

		out := newInvoker(dir, tr).Single(context.Background(), document(t, dir, "post-a.zh-cn.md"), "en")
		if out.Kind != Failed {
			t.Fatalf("Kind = %v, want Failed for empty output", out.Kind)
		}
		if _, err := os.Stat(filepath.Join(dir, "post-a.en.md")); !os.IsNotExist(err) {
			t.Fatalf("empty artifact was promoted")
		}
	})
}

func TestCombined(t *testing.T) {
	t.Run("concatenates sections in order", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "post-b.zh-cn en ja.md", "source body\n")
		tr := &fakeTranslator{}
		doc := document(t, dir, "post-b.zh-cn en ja.md")

		out := newInvoker(dir, tr).Combined(context.Background(), doc, []string{"en", "ja"})
		if out.Kind != Translated {
			t.Fatalf("Kind = %v (err %v), want Translated", out.Kind, out.Err)
		}

		data, err := os.ReadFile(filepath.Join(dir, "post-b.en ja.md"))
		if err != nil {
			t.Fatalf("reading combined artifact: %v", err)
		}
		text := string(data)

		if !strings.HasPrefix(text, "source body\n") {
			t.Fatalf("combined artifact does not start with the source content:\n%s", text)
		}
		enAt := strings.Index(text, Marker("en"))
		jaAt := strings.Index(text, Marker("ja"))
		if enAt < 0 || jaAt < 0 {
			t.Fatalf("missing section markers:\n%s", text)
		}
		if enAt > jaAt {
			t.Fatalf("sections out of order (en at %d, ja at %d)", enAt, jaAt)
		}
	})

	t.Run("all-or-nothing on partial failure", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "post-b.zh-cn en ja.md", "source body\n")
		tr := &fakeTranslator{failing: map[string]bool{"ja": true}}
		doc := document(t, dir, "post-b.zh-cn en ja.md")

		out := newInvoker(dir, tr).Combined(context.Background(), doc, []string{"en", "ja"})
		if out.Kind != Failed {
			t.Fatalf("Kind = %v, want Failed", out.Kind)
		}
		if _, err := os.Stat(filepath.Join(dir, "post-b.en ja.md")); !os.IsNotExist(err) {
			t.Fatalf("combined artifact exists after partial failure")
		}

		// No transient buffers left behind either.
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir: %v", err)
		}
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), ".tmp") {
				t.Fatalf("orphaned buffer %s after failure", entry.Name())
			}
		}
	})

	t.Run("already produced", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "post-b.zh-cn en ja.md", "source body\n")
		writeFile(t, dir, "post-b.en ja.md", "produced earlier\n")
		tr := &fakeTranslator{}
		doc := document(t, dir, "post-b.zh-cn en ja.md")

		out := newInvoker(dir, tr).Combined(context.Background(), doc, []string{"en", "ja"})
		if out.Kind != AlreadySatisfied {
			t.Fatalf("Kind = %v, want AlreadySatisfied", out.Kind)
		}
		if len(tr.calls) != 0 {
			t.Fatalf("translator invoked %d times, want 0", len(tr.calls))
		}

		data, _ := os.ReadFile(filepath.Join(dir, "post-b.en ja.md"))
		if string(data) != "produced earlier\n" {
			t.Fatalf("pre-existing artifact was modified")
		}
	})
}

func TestCLICheck(t *testing.T) {
	c := &CLI{Command: "definitely-not-a-real-binary-postkit"}
	if err := c.Check(); err == nil {
		t.Fatalf("Check() succeeded for a missing binary, want error")
	}
}
