// Package postfile implements the blog post naming scheme
// {base}.{lang segment}.md, where the language segment is one or more
// space-separated language tags. The first tag is the source-side tag;
// any remaining tags are target-side tags of a combined artifact.
package postfile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Ext is the artifact file extension.
const Ext = ".md"

// Name is the parsed form of a post filename.
type Name struct {
	// Base is the document identity shared by all language variants.
	Base string
	// SourceLang is the first language tag of the segment.
	SourceLang string
	// TargetLangs are the remaining tags, in filename order.
	TargetLangs []string
	// Segment is the raw space-joined tag segment.
	Segment string
}

// Parse splits a post filename into its base name and language tags.
// The expected shape is {base}.{tag[ tag...]}.md; anything else is an
// error — a name with no language segment has no place in the corpus
// and must be flagged, not silently mapped to empty fields.
func Parse(filename string) (Name, error) {
	name := filepath.Base(filename)
	if !strings.HasSuffix(name, Ext) {
		return Name{}, fmt.Errorf("%s: not a Markdown file", name)
	}

	stem := strings.TrimSuffix(name, Ext)
	dot := strings.Index(stem, ".")
	if dot < 0 {
		return Name{}, fmt.Errorf("%s: missing language segment", name)
	}

	base := stem[:dot]
	segment := stem[dot+1:]
	if base == "" {
		return Name{}, fmt.Errorf("%s: empty base name", name)
	}

	tags := strings.Split(segment, " ")
	for _, tag := range tags {
		if tag == "" {
			return Name{}, fmt.Errorf("%s: empty language tag", name)
		}
		if strings.Contains(tag, ".") {
			return Name{}, fmt.Errorf("%s: language tag %q contains a dot", name, tag)
		}
	}

	return Name{
		Base:        base,
		SourceLang:  tags[0],
		TargetLangs: tags[1:],
		Segment:     segment,
	}, nil
}

// SingleName composes the filename of a single-language artifact.
func SingleName(base, lang string) string {
	return base + "." + lang + Ext
}

// CombinedName composes the filename of a combined multi-language
// artifact for an ordered language set.
func CombinedName(base string, langs []string) string {
	return base + "." + strings.Join(langs, " ") + Ext
}

// IsCombinedSource reports whether the name embeds a multi-language
// target grouping. Only two or more tags after the source tag count;
// a single extra tag belongs to the source side of the segment.
func (n Name) IsCombinedSource() bool {
	return len(n.TargetLangs) > 1
}

// Contains reports whether lang appears anywhere in the tag segment.
func (n Name) Contains(lang string) bool {
	if n.SourceLang == lang {
		return true
	}
	for _, l := range n.TargetLangs {
		if l == lang {
			return true
		}
	}
	return false
}
