package i18n

import (
	"strings"
	"testing"
)

func TestTranslate(t *testing.T) {
	got := Translate("email.button", "es", nil)
	if got != "Autorizar paquete" {
		t.Errorf("unexpected translation: %q", got)
	}
}

func TestTranslate_Params(t *testing.T) {
	got := Translate("email.expiry", "en", map[string]string{"minutes": "20"})
	if !strings.Contains(got, "20 minutes") {
		t.Errorf("param not interpolated: %q", got)
	}
}

func TestTranslate_FallbackToDefaultLocale(t *testing.T) {
	// admin.* keys only exist in the English catalog.
	got := Translate("admin.subject", "es", map[string]string{"name": "Box A", "kind": "standard"})
	if !strings.Contains(got, "Box A") {
		t.Errorf("expected English fallback with params, got %q", got)
	}
}

func TestTranslate_UnknownKeyReturnsKey(t *testing.T) {
	if got := Translate("no.such.key", "fr", nil); got != "no.such.key" {
		t.Errorf("unknown key should pass through, got %q", got)
	}
}

func TestTranslate_UnknownLocaleFallsBack(t *testing.T) {
	got := Translate("email.button", "zz-ZZ", nil)
	if got != "Authorize package" {
		t.Errorf("unknown locale should resolve via default, got %q", got)
	}
}

func TestParseLocale(t *testing.T) {
	cases := map[string]string{
		"":           "en",
		"es":         "es",
		"es-MX":      "es",
		"fr-CA":      "fr",
		"FR":         "fr",
		"not a tag!": "en",
		"de":         "en",
	}
	for in, want := range cases {
		if got := ParseLocale(in); got != want {
			t.Errorf("ParseLocale(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatchAccept(t *testing.T) {
	cases := map[string]string{
		"":                        "en",
		"es-MX,es;q=0.9,en;q=0.5": "es",
		"fr-CA,fr;q=0.8":          "fr",
		"da, en-gb;q=0.8":         "en",
		"garbage;;;":              "en",
	}
	for in, want := range cases {
		if got := MatchAccept(in); got != want {
			t.Errorf("MatchAccept(%q) = %q, want %q", in, got, want)
		}
	}
}
