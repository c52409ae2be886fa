package prefs

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Keys under which the preferences are persisted.
const (
	KeyTheme = "theme"
	KeyLang  = "lang"
)

// Theme is the display theme applied to the page.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Defaults applied when nothing is stored.
const (
	DefaultTheme = ThemeDark
	DefaultLang  = "ja"
)

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Toggle returns the other theme. Unknown values flip to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) String() string { return string(t) }

// CheckValue reports whether value may be stored under key.
func CheckValue(key, value string) error {
	switch key {
	case KeyTheme:
		if !Theme(value).Valid() {
			return fmt.Errorf("invalid theme %q: must be dark or light", value)
		}
	case KeyLang:
		if err := CheckLanguage(value); err != nil {
			return fmt.Errorf("invalid language %q: %w", value, err)
		}
	default:
		return fmt.Errorf("unknown preference %q", key)
	}
	return nil
}

// CheckLanguage reports whether code is a well-formed BCP 47 tag. Tags
// whose subtags are well-formed but not in the x/text registry are
// accepted: which languages exist is up to the published resources.
func CheckLanguage(code string) error {
	_, err := language.Parse(code)
	var unknown language.ValueError
	if err != nil && !errors.As(err, &unknown) {
		return err
	}
	return nil
}
