package utils

import (
	"fmt"
	"strings"
)

const (
	LocaleFR = "fr"
	LocaleEN = "en"

	DefaultLocale = LocaleFR
)

// Locales lists the supported site locales, default first.
var Locales = []string{LocaleFR, LocaleEN}

func ParseLocale(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Locales {
		if s == l {
			return l, true
		}
	}
	return "", false
}

// ValidateLocales checks that every locale is supported and used once.
func ValidateLocales(locales []string) error {
	if len(locales) == 0 {
		return fmt.Errorf("at least one translation is required")
	}
	seen := make(map[string]struct{}, len(locales))
	for _, l := range locales {
		if p, ok := ParseLocale(l); !ok || p != l {
			return fmt.Errorf("unsupported locale %q", l)
		}
		if _, dup := seen[l]; dup {
			return fmt.Errorf("duplicate locale %q", l)
		}
		seen[l] = struct{}{}
	}
	return nil
}
