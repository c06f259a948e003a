// Package corpus implements discovery of source blog posts and the
// existence checks that decide whether a translation is already
// satisfied.
//
// The posts directory is the sole persistent store: every run derives
// its view fresh from the directory listing, so re-running after an
// interrupted run converges on the same result.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minios-linux/postkit/postfile"
)

// Document is one source post found in the corpus.
type Document struct {
	// Name is the parsed filename.
	Name postfile.Name
	// Path is the full path to the source file.
	Path string
}

// Scan lists the source documents in dir: well-formed post filenames
// whose first language tag equals sourceLang. Malformed names are
// returned separately so the caller can warn about them instead of
// silently dropping files.
func Scan(dir, sourceLang string) (docs []Document, malformed []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading posts directory: %w", err)
	}

	for _, entry := range entries {
		fname := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(fname, postfile.Ext) {
			continue
		}
		name, perr := postfile.Parse(fname)
		if perr != nil {
			malformed = append(malformed, fname)
			continue
		}
		if name.SourceLang != sourceLang {
			continue
		}
		docs = append(docs, Document{Name: name, Path: filepath.Join(dir, fname)})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, malformed, nil
}

// Oracle answers whether a translation artifact already satisfies a
// given language. A language is satisfied either by its own
// single-language file or by membership in any combined artifact of
// the same base name. A zero-size file never satisfies anything.
type Oracle struct {
	dir string
}

// NewOracle returns an Oracle over the given posts directory.
func NewOracle(dir string) *Oracle {
	return &Oracle{dir: dir}
}

// Exists reports whether lang is already translated for base.
func (o *Oracle) Exists(base, lang string) bool {
	if o.valid(postfile.SingleName(base, lang)) {
		return true
	}

	// A language may also live inside a combined artifact.
	entries, err := os.ReadDir(o.dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, err := postfile.Parse(entry.Name())
		if err != nil || name.Base != base || len(name.TargetLangs) == 0 {
			continue
		}
		if name.Contains(lang) && o.valid(entry.Name()) {
			return true
		}
	}
	return false
}

// ExistsMulti reports whether the exact combined artifact for the
// given ordered language set exists. No fallback scan: a different
// ordering or a superset does not count.
func (o *Oracle) ExistsMulti(base string, langs []string) bool {
	return o.valid(postfile.CombinedName(base, langs))
}

// valid is the artifact validity rule: present, regular, non-empty.
func (o *Oracle) valid(name string) bool {
	info, err := os.Stat(filepath.Join(o.dir, name))
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
