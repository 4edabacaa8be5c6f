package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is the fallback language for every lookup.
const DefaultLocale = "en"

var supported = []language.Tag{
	language.English, // first tag is the matcher default
	language.Spanish,
	language.French,
}

var matcher = language.NewMatcher(supported)

// SupportedLocales returns the language tags the catalog covers.
func SupportedLocales() []string {
	out := make([]string, len(supported))
	for i, t := range supported {
		out[i] = t.String()
	}
	return out
}

// ParseLocale normalizes a user-supplied tag to a supported locale.
// Unknown or malformed tags fall back to the default.
func ParseLocale(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLocale
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return DefaultLocale
	}
	return supported[idx].String()
}

// MatchAccept picks the best supported locale for an Accept-Language
// header. Empty or unparsable headers fall back to the default.
func MatchAccept(header string) string {
	if strings.TrimSpace(header) == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, _ := matcher.Match(tags...)
	return supported[idx].String()
}

// Translate resolves key for the requested locale with the fallback
// chain requested locale -> default locale -> raw key. Params replace
// {name} placeholders in the resolved message.
func Translate(key, locale string, params map[string]string) string {
	msg, ok := lookup(key, ParseLocale(locale))
	if !ok {
		msg, ok = lookup(key, DefaultLocale)
	}
	if !ok {
		return key
	}
	for name, val := range params {
		msg = strings.ReplaceAll(msg, "{"+name+"}", val)
	}
	return msg
}

func lookup(key, locale string) (string, bool) {
	cat, ok := catalogs[locale]
	if !ok {
		return "", false
	}
	msg, ok := cat[key]
	return msg, ok
}
