// Package langmeta provides a language metadata registry (English and
// native names) used to label languages in logs and reports.
package langmeta

import "strings"

// Meta describes language display metadata.
type Meta struct {
	// Name is the English name.
	Name string
	// Native is the language's own name for itself.
	Native string
}

// Registry contains canonical language metadata for the codes the blog
// pipeline commonly targets. Locale variants are resolved in Resolve()
// via normalization and base fallback.
var Registry = map[string]Meta{
	"ar":    {Name: "Arabic", Native: "العربية"},
	"de":    {Name: "German", Native: "Deutsch"},
	"en":    {Name: "English", Native: "English"},
	"es":    {Name: "Spanish", Native: "Español"},
	"fr":    {Name: "French", Native: "Français"},
	"hi":    {Name: "Hindi", Native: "हिन्दी"},
	"id":    {Name: "Indonesian", Native: "Bahasa Indonesia"},
	"it":    {Name: "Italian", Native: "Italiano"},
	"ja":    {Name: "Japanese", Native: "日本語"},
	"ko":    {Name: "Korean", Native: "한국어"},
	"nl":    {Name: "Dutch", Native: "Nederlands"},
	"pl":    {Name: "Polish", Native: "Polski"},
	"pt":    {Name: "Portuguese", Native: "Português"},
	"pt-br": {Name: "Portuguese (Brazil)", Native: "Português (Brasil)"},
	"ru":    {Name: "Russian", Native: "Русский"},
	"th":    {Name: "Thai", Native: "ไทย"},
	"tr":    {Name: "Turkish", Native: "Türkçe"},
	"uk":    {Name: "Ukrainian", Native: "Українська"},
	"vi":    {Name: "Vietnamese", Native: "Tiếng Việt"},
	"zh-cn": {Name: "Simplified Chinese", Native: "简体中文"},
	"zh-tw": {Name: "Traditional Chinese", Native: "繁體中文"},
}

// canonicalize lowers a tag to the registry's form: lower case,
// hyphen-separated ("zh_CN" -> "zh-cn").
func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	return strings.ToLower(normalized)
}

// Resolve returns best-effort metadata for a language code, supporting
// variants like pt_BR and pt-BR and falling back to the base language
// for unknown regional variants. Unknown codes pass through as-is.
func Resolve(lang string) Meta {
	normalized := canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return m
		}
	}
	return Meta{Name: lang, Native: lang}
}

// Label formats a code for log output: "ja (Japanese)", or just the
// code when no metadata is known.
func Label(code string) string {
	m := Resolve(code)
	if m.Name == code {
		return code
	}
	return code + " (" + m.Name + ")"
}
