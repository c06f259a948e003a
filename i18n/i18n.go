// Package i18n localizes postkit's own user-facing strings.
//
// It wraps gotext around a PO catalog embedded in the binary. Call
// Init() once at startup; T() and N() then translate strings into the
// operator's locale, falling back to the original English text when no
// translation exists.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the PO translation catalog.
// Layout: locales/{lang}/LC_MESSAGES/postkit.po
//
//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name.
const domain = "postkit"

var locale *gotext.Locale

// Init loads the translation catalog. If lang is empty, the locale is
// detected from LANGUAGE, LC_ALL, LC_MESSAGES and LANG, in that order
// (GNU gettext priority).
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	locale = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	locale.AddDomain(domain)
	locale.SetDomain(domain)
}

// T translates a string, passing it through unchanged when no
// translation is available.
func T(msgid string) string {
	if locale == nil {
		return msgid
	}
	return locale.Get(msgid)
}

// N translates a string with plural forms; the target language's
// plural formula picks the form.
func N(singular, plural string, n int) string {
	if locale == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return locale.GetN(singular, plural, n)
}

// detectLanguage determines the operator's preferred language from the
// environment, following GNU gettext conventions.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE can be a colon-separated list; take the first entry.
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// Strip the encoding suffix ("ru_RU.UTF-8" -> "ru_RU").
		val, _, _ = strings.Cut(val, ".")
		// "C" and "POSIX" mean no translation.
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
